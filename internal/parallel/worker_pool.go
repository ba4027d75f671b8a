// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"phi-scan/internal/observability"
)

// maxWorkers caps the default pool size to avoid resource exhaustion
const maxWorkers = 8

// ProcessFunc extracts or scans one file
type ProcessFunc[T any] func(ctx context.Context, filePath string) (T, error)

// WorkerPool runs a ProcessFunc over many files at once
type WorkerPool[T any] struct {
	workers  int
	process  ProcessFunc[T]
	observer *observability.StandardObserver
}

// Job is one file to process. Index is its position in the input.
type Job struct {
	Index    int
	FilePath string
}

// Result is the outcome of one Job
type Result[T any] struct {
	Index    int
	FilePath string
	Value    T
	Error    error
	Duration time.Duration
}

// DefaultWorkers is the number of CPUs, capped at maxWorkers
func DefaultWorkers() int {
	return min(runtime.NumCPU(), maxWorkers)
}

// NewWorkerPool creates a pool. A worker count below one uses DefaultWorkers.
func NewWorkerPool[T any](workers int, process ProcessFunc[T], observer *observability.StandardObserver) *WorkerPool[T] {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
	return &WorkerPool[T]{
		workers:  workers,
		process:  process,
		observer: observer,
	}
}

// Workers reports the pool size
func (wp *WorkerPool[T]) Workers() int {
	return wp.workers
}

// ProcessFiles processes every path and returns the results in input
// order, whatever order they finished in. A failed file does not stop the
// others; its error is on its Result. Cancelling ctx stops workers from
// picking up new jobs and marks the remaining files with ctx.Err().
func (wp *WorkerPool[T]) ProcessFiles(ctx context.Context, filePaths []string) []Result[T] {
	finishTiming := wp.observer.StartTiming("worker_pool", "process_files", "batch")

	results := make([]Result[T], len(filePaths))
	jobs := make(chan Job, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < min(wp.workers, len(filePaths)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Each job owns its own slot
				results[job.Index] = wp.processJob(ctx, job)
			}
		}()
	}

	submitted := 0
submit:
	for i, path := range filePaths {
		select {
		case jobs <- Job{Index: i, FilePath: path}:
			submitted++
		case <-ctx.Done():
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	for i := submitted; i < len(filePaths); i++ {
		results[i] = Result[T]{Index: i, FilePath: filePaths[i], Error: ctx.Err()}
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	finishTiming(failed == 0, map[string]interface{}{
		"total_files":  len(filePaths),
		"failed_files": failed,
		"worker_count": wp.workers,
	})
	return results
}

// processJob runs one job, turning a panic into an error on its Result
func (wp *WorkerPool[T]) processJob(ctx context.Context, job Job) (result Result[T]) {
	start := time.Now()
	result = Result[T]{Index: job.Index, FilePath: job.FilePath}

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("panic processing %s: %v", job.FilePath, r)
		}
		result.Duration = time.Since(start)
		if result.Error != nil {
			wp.observer.LogOperation(observability.StandardObservabilityData{
				Component: "worker_pool",
				Operation: "file_processing",
				Target:    job.FilePath,
				Success:   false,
				Error:     result.Error.Error(),
			})
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	result.Value, result.Error = wp.process(ctx, job.FilePath)
	return result
}
