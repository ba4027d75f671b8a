// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"go.uber.org/zap"

	"phi-scan/internal/logger"
)

// StandardObserver times operations and reports them through the logger
type StandardObserver struct {
	level  ObservabilityLevel
	logger *logger.Logger
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component. A nil logger
// discards everything.
func NewStandardObserver(level ObservabilityLevel, log *logger.Logger) *StandardObserver {
	if log == nil {
		log = logger.Nop()
	}
	return &StandardObserver{
		level:  level,
		logger: log,
	}
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Target:     target,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data. Metrics level logs at info, debug level
// adds the metadata map.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Bool("success", data.Success),
	}
	if data.Target != "" {
		fields = append(fields, zap.String("target", data.Target))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if data.ContentLength > 0 {
		fields = append(fields, zap.Int("content_length", data.ContentLength))
	}
	if data.FindingCount > 0 {
		fields = append(fields, zap.Int("finding_count", data.FindingCount))
	}

	if o.level == ObservabilityDebug {
		if len(data.Metadata) > 0 {
			fields = append(fields, zap.Any("metadata", data.Metadata))
		}
		o.logger.Debug("operation", fields...)
		return
	}
	o.logger.Info("operation", fields...)
}

// StandardObservabilityData for all components. It never carries document
// text, only sizes and counts.
type StandardObservabilityData struct {
	Component     string                 `json:"component"`
	Operation     string                 `json:"operation"`
	Target        string                 `json:"target,omitempty"`
	DurationMs    int64                  `json:"duration_ms,omitempty"`
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	ContentLength int                    `json:"content_length,omitempty"`
	FindingCount  int                    `json:"finding_count,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}
