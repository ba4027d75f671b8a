// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureString(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"draft text", "Patient John Smith, DOB 01/15/1980"},
		{"empty", ""},
		{"multibyte", "Zoë Müller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := NewSecureString(tt.text)
			assert.Equal(t, tt.text, ss.String())
			assert.Equal(t, len(tt.text), ss.Len())
			assert.False(t, ss.Wiped())
		})
	}
}

func TestSecureString_WipeZeroesBuffer(t *testing.T) {
	ss := NewSecureString("SSN 123-45-6789")
	buf := ss.bytes()

	ss.Wipe()
	assert.True(t, ss.Wiped())
	assert.Empty(t, ss.String())
	assert.Zero(t, ss.Len())
	for _, b := range buf {
		assert.Zero(t, b)
	}

	assert.NotPanics(t, ss.Wipe)
}

func TestSecureString_OwnsCopy(t *testing.T) {
	text := []byte("MRN: 12345678")
	ss := NewSecureString(string(text))
	text[0] = 'X'
	assert.Equal(t, "MRN: 12345678", ss.String())
}

func TestSecureString_ConcurrentWipe(t *testing.T) {
	ss := NewSecureString("call 555-123-4567")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = ss.String()
		}()
		go func() {
			defer wg.Done()
			ss.Wipe()
		}()
	}
	wg.Wait()
	assert.True(t, ss.Wiped())
}
