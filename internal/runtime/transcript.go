// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"
	"sync"
)

// Transcript is an append-only text buffer safe for concurrent writers.
// Only an input echo the child never received is ever removed.
// Each append is atomic; appends from different goroutines never interleave
// within a single call.
type Transcript struct {
	mu  sync.Mutex
	buf strings.Builder
}

// Write appends p. It never fails.
func (t *Transcript) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Write(p)
}

// WriteString appends s. It never fails.
func (t *Transcript) WriteString(s string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.WriteString(s)
}

// appendAt appends s and returns the offset it was written at.
func (t *Transcript) appendAt(s string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	off := t.buf.Len()
	t.buf.WriteString(s)
	return off
}

// cut removes n bytes starting at off. Later appends keep their order.
func (t *Transcript) cut(off, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.buf.String()
	if off < 0 || off+n > len(s) {
		return
	}
	t.buf.Reset()
	t.buf.WriteString(s[:off])
	t.buf.WriteString(s[off+n:])
}

// String returns everything appended so far.
func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

// Len returns the number of bytes appended so far.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Len()
}
