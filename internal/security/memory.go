// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package security holds helpers for keeping draft text out of memory once
// it is no longer needed.
package security

import "sync"

// SecureString holds sensitive text in a mutable buffer that Wipe zeroes.
//
// The garbage collector may copy memory, and every String call makes an
// immutable copy that cannot be zeroed. Wipe shortens the exposure window
// for the stored buffer only.
type SecureString struct {
	mu   sync.RWMutex
	data []byte
}

// NewSecureString copies s into a buffer owned by the SecureString
func NewSecureString(s string) *SecureString {
	data := make([]byte, len(s))
	copy(data, s)
	return &SecureString{data: data}
}

// String returns a copy of the text, or "" once wiped
func (ss *SecureString) String() string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return string(ss.data)
}

// Len is the byte length of the text
func (ss *SecureString) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.data)
}

// Wiped reports whether Wipe has run
func (ss *SecureString) Wiped() bool {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.data == nil
}

// Wipe zeroes the buffer and releases it. It is safe to call more than once.
func (ss *SecureString) Wipe() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	clear(ss.data)
	ss.data = nil
}

// bytes exposes the buffer to tests
func (ss *SecureString) bytes() []byte {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.data
}
