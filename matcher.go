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

// EndPolicy decides the outcome of a scan whose
// input runs out while a run is in progress.
type EndPolicy uint8

const (
	// AcceptAtEnd reports the run if the scan
	// stopped in an accepting state.
	AcceptAtEnd EndPolicy = iota
	// RejectAtEnd reports no match; acceptance is then
	// only decided when a symbol has no transition.
	RejectAtEnd
)

// Matcher finds one run in a cursor.
type Matcher[V any] interface {
	// Match consumes symbols from c and returns
	// the matched run, or false if there is none.
	Match(c Cursor[V]) ([]V, bool)
}

// Check returns true if m finds a run in c.
func Check[V any](m Matcher[V], c Cursor[V]) bool {
	_, ok := m.Match(c)
	return ok
}

// Scan runs the deterministic machine m once over c,
// starting at start.
//
// A symbol with a transition is consumed, appended to the
// run and the machine advances. A symbol without one is
// skipped while the run is still empty (the machine waits for
// a valid first symbol); otherwise the scan stops there, that
// symbol having been consumed, and the run is returned if the
// current state is accepting. Input that runs out mid-run is
// decided by policy.
func Scan[S comparable, V any](m StateMachine[S, V, S], start S, c Cursor[V], policy EndPolicy) ([]V, bool) {
	state := start
	var run []V
	for {
		v, ok := c.Next()
		if !ok {
			break
		}
		if next, ok := m.NextState(state, v); ok {
			run = append(run, v)
			state = next
			continue
		}
		if len(run) == 0 {
			continue
		}
		if m.IsEnd(state) {
			return run, true
		}
		return nil, false
	}
	if policy == AcceptAtEnd && len(run) > 0 && m.IsEnd(state) {
		return run, true
	}
	return nil, false
}

// Matches is the lazy sequence of runs a Matcher finds in
// one cursor. Each call to Next resumes where the previous
// run stopped, so runs are disjoint and left to right.
// The sequence cannot be restarted.
type Matches[V any] struct {
	m    Matcher[V]
	c    Cursor[V]
	done bool
}

// NewMatches returns the sequence of runs m finds in c.
func NewMatches[V any](m Matcher[V], c Cursor[V]) *Matches[V] {
	return &Matches[V]{m: m, c: c}
}

// Next returns the next run. It returns false once
// the cursor is exhausted or a scan finds no run.
func (it *Matches[V]) Next() ([]V, bool) {
	if it.done || it.c.Remaining() == 0 {
		it.done = true
		return nil, false
	}
	run, ok := it.m.Match(it.c)
	if !ok {
		it.done = true
	}
	return run, ok
}

// All drains the sequence.
func (it *Matches[V]) All() [][]V {
	var out [][]V
	for {
		run, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, run)
	}
}
