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

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// ErrConflict is returned when a transition is added
// whose action compares equal to an action already
// registered for the same state.
var ErrConflict = errors.New("conflicting transition")

type edgeT[V constraints.Ordered] struct {
	action Action[V]
	to     StateID
}

// Dfa is a deterministic automaton: every state maps
// each registered Action to exactly one destination.
// The outgoing edges of a state are kept sorted by
// Action.Compare, so a symbol is located with a binary
// search rather than one entry per symbol.
type Dfa[V constraints.Ordered] struct {
	start  StateID
	ends   StateSet
	states StateSet
	trans  map[StateID][]edgeT[V]
	policy EndPolicy
}

// NewDfa returns an empty Dfa starting at start.
func NewDfa[V constraints.Ordered](start StateID) *Dfa[V] {
	return NewDfaWithCapacity[V](start, 0, 0)
}

// NewDfaWithCapacity is like NewDfa but pre-sizes
// the end-state and state sets.
func NewDfaWithCapacity[V constraints.Ordered](start StateID, ends, states int) *Dfa[V] {
	d := &Dfa[V]{
		start:  start,
		ends:   make(StateSet, ends),
		states: make(StateSet, states),
		trans:  map[StateID][]edgeT[V]{},
	}
	d.states.Insert(start)
	return d
}

// Start returns the start state.
func (d *Dfa[V]) Start() StateID { return d.start }

// AddEdges adds the transition from -a-> to. It returns an
// error wrapping ErrConflict if a compares equal to an action
// already registered for from; the existing edge is kept.
func (d *Dfa[V]) AddEdges(from StateID, a Action[V], to StateID) error {
	edges := d.trans[from]
	i, found := slices.BinarySearchFunc(edges, a, func(e edgeT[V], a Action[V]) int {
		return e.action.Compare(a)
	})
	if found {
		return fmt.Errorf("state %d: %v overlaps %v: %w", from, a, edges[i].action, ErrConflict)
	}
	d.trans[from] = slices.Insert(edges, i, edgeT[V]{action: a, to: to})
	d.states.Insert(from)
	d.states.Insert(to)
	return nil
}

// AddPattern adds from -a-> to for every a in actions,
// stopping at the first conflict.
func (d *Dfa[V]) AddPattern(from StateID, actions []Action[V], to StateID) error {
	for _, a := range actions {
		if err := d.AddEdges(from, a, to); err != nil {
			return err
		}
	}
	return nil
}

// AddStates records state; it returns true if it was new.
func (d *Dfa[V]) AddStates(state StateID) bool {
	return d.states.Insert(state)
}

// AddEndState marks state as accepting; it returns
// true if it was not accepting before.
func (d *Dfa[V]) AddEndState(state StateID) bool {
	d.states.Insert(state)
	return d.ends.Insert(state)
}

// NumberOfStates return the number of states in this automaton
func (d *Dfa[V]) NumberOfStates() int { return d.states.Len() }

// States returns every state in ascending order.
func (d *Dfa[V]) States() []StateID { return d.states.Sorted() }

// EndStates returns the accepting states in ascending order.
func (d *Dfa[V]) EndStates() []StateID { return d.ends.Sorted() }

// Actions returns the actions leaving state in ascending
// Action order.
func (d *Dfa[V]) Actions(state StateID) []Action[V] {
	edges := d.trans[state]
	out := make([]Action[V], len(edges))
	for i := range edges {
		out[i] = edges[i].action
	}
	return out
}

// Step returns the destination of the edge registered
// under exactly a (compared with Action.Compare).
func (d *Dfa[V]) Step(state StateID, a Action[V]) (StateID, bool) {
	edges := d.trans[state]
	i, found := slices.BinarySearchFunc(edges, a, func(e edgeT[V], a Action[V]) int {
		return e.action.Compare(a)
	})
	if !found {
		return 0, false
	}
	return edges[i].to, true
}

// IsEnd implements StateMachine.
func (d *Dfa[V]) IsEnd(state StateID) bool { return d.ends.Contains(state) }

// NextState implements StateMachine: it returns the
// destination of the edge whose action matches v.
func (d *Dfa[V]) NextState(state StateID, v V) (StateID, bool) {
	edges := d.trans[state]
	i, found := slices.BinarySearchFunc(edges, v, func(e edgeT[V], v V) int {
		return e.action.CompareValue(v)
	})
	if !found {
		return 0, false
	}
	return edges[i].to, true
}

// SetEndPolicy selects how Match treats input that runs
// out while a run is in progress.
func (d *Dfa[V]) SetEndPolicy(p EndPolicy) { d.policy = p }

// Match implements Matcher.
func (d *Dfa[V]) Match(c Cursor[V]) ([]V, bool) {
	return Scan[StateID, V](d, d.start, c, d.policy)
}

// Check returns true if Match finds a run in c.
func (d *Dfa[V]) Check(c Cursor[V]) bool { return Check[V](d, c) }

// Matches returns the lazy sequence of runs found in c.
func (d *Dfa[V]) Matches(c Cursor[V]) *Matches[V] { return NewMatches[V](d, c) }
