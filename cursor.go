// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package fsa

import "io"

// Cursor is a forward-only source of symbols.
type Cursor[V any] interface {
	// Next returns the next symbol, or false at the end.
	Next() (V, bool)
	// Remaining returns a lower bound on the number of
	// symbols left; zero means the cursor is exhausted.
	Remaining() int
}

// SliceCursor walks a slice.
type SliceCursor[V any] struct {
	data []V
	pos  int
}

// NewCursor returns a cursor over data.
func NewCursor[V any](data []V) *SliceCursor[V] {
	return &SliceCursor[V]{data: data}
}

// Runes returns a cursor over the runes of s.
func Runes(s string) *SliceCursor[rune] {
	return NewCursor([]rune(s))
}

func (c *SliceCursor[V]) Next() (V, bool) {
	if c.pos >= len(c.data) {
		var zero V
		return zero, false
	}
	v := c.data[c.pos]
	c.pos++
	return v, true
}

func (c *SliceCursor[V]) Remaining() int { return len(c.data) - c.pos }

// RuneReader adapts an io.RuneScanner; it is used to
// match streams that are not held in memory.
type RuneReader struct {
	src io.RuneScanner
	err error
}

// NewRuneReader returns a cursor reading runes from src.
func NewRuneReader(src io.RuneScanner) *RuneReader {
	return &RuneReader{src: src}
}

func (r *RuneReader) Next() (rune, bool) {
	if r.err != nil {
		return 0, false
	}
	c, _, err := r.src.ReadRune()
	if err != nil {
		r.err = err
		return 0, false
	}
	return c, true
}

// Remaining peeks one rune ahead; it returns 1 while
// input is left and 0 afterwards.
func (r *RuneReader) Remaining() int {
	if r.err != nil {
		return 0
	}
	if _, _, err := r.src.ReadRune(); err != nil {
		r.err = err
		return 0
	}
	if err := r.src.UnreadRune(); err != nil {
		r.err = err
		return 0
	}
	return 1
}

// Err returns the error that ended the stream,
// or nil if it ended with io.EOF.
func (r *RuneReader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}
