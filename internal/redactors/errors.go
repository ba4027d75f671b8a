// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"errors"
	"fmt"
)

// ErrInvalidOffset means a finding does not describe a span of the text
// being redacted. The usual cause is redacting the original HTML instead
// of the stripped text the findings were computed from.
var ErrInvalidOffset = errors.New("invalid finding offset")

// OffsetError reports which finding failed the bounds check
type OffsetError struct {
	// Index of the finding in the caller's slice
	Index  int
	Start  int
	End    int
	Reason string
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("finding %d [%d:%d]: %s: %v", e.Index, e.Start, e.End, e.Reason, ErrInvalidOffset)
}

// Unwrap lets errors.Is match ErrInvalidOffset
func (e *OffsetError) Unwrap() error {
	return ErrInvalidOffset
}
