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
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Label is an NFA edge label: an Action, or
// epsilon (a move that consumes no symbol).
type Label[V constraints.Ordered] struct {
	action Action[V]
	some   bool
}

// Epsilon returns the epsilon label.
func Epsilon[V constraints.Ordered]() Label[V] { return Label[V]{} }

// On returns the label consuming a.
func On[V constraints.Ordered](a Action[V]) Label[V] {
	return Label[V]{action: a, some: true}
}

// IsEpsilon returns true for the epsilon label.
func (l Label[V]) IsEpsilon() bool { return !l.some }

// Action returns the wrapped action, or false for epsilon.
func (l Label[V]) Action() (Action[V], bool) { return l.action, l.some }

func (l Label[V]) String() string {
	if !l.some {
		return "<ε>"
	}
	return l.action.String()
}

// Nfa is a nondeterministic automaton with a single
// start state. Several destinations for the same
// (state, label) pair model nondeterministic branching.
//
// An Nfa is built by adding edges and is not safe for
// concurrent mutation; edges are never removed.
type Nfa[V constraints.Ordered] struct {
	start    StateID
	ends     StateSet
	states   StateSet
	alphabet map[Action[V]]struct{}
	trans    map[StateID]map[Label[V]]StateSet
}

// NewNfa returns an empty Nfa starting at start.
func NewNfa[V constraints.Ordered](start StateID) *Nfa[V] {
	return NewNfaWithCapacity[V](start, 0, 0)
}

// NewNfaWithCapacity is like NewNfa but pre-sizes
// the end-state and state sets.
func NewNfaWithCapacity[V constraints.Ordered](start StateID, ends, states int) *Nfa[V] {
	return &Nfa[V]{
		start:    start,
		ends:     make(StateSet, ends),
		states:   make(StateSet, states),
		alphabet: map[Action[V]]struct{}{},
		trans:    map[StateID]map[Label[V]]StateSet{},
	}
}

// Start returns the start state.
func (n *Nfa[V]) Start() StateID { return n.start }

// AddEdges registers to as an additional destination of
// (from, label). A non-epsilon action joins the alphabet.
func (n *Nfa[V]) AddEdges(from StateID, label Label[V], to StateID) {
	if label.some {
		n.alphabet[label.action] = struct{}{}
	}
	m, ok := n.trans[from]
	if !ok {
		m = map[Label[V]]StateSet{}
		n.trans[from] = m
	}
	dst, ok := m[label]
	if !ok {
		dst = make(StateSet, 1)
		m[label] = dst
	}
	dst.Insert(to)
}

// AddStates records state; it returns true if it was new.
func (n *Nfa[V]) AddStates(state StateID) bool {
	return n.states.Insert(state)
}

// AddEndState marks state as accepting; it returns
// true if it was not accepting before.
func (n *Nfa[V]) AddEndState(state StateID) bool {
	return n.ends.Insert(state)
}

// PathLen returns the size of the alphabet.
func (n *Nfa[V]) PathLen() int { return len(n.alphabet) }

// Alphabet returns every distinct non-epsilon action
// added so far, in a deterministic order. Overlapping
// ranges are kept as separate entries.
func (n *Nfa[V]) Alphabet() []Action[V] {
	out := maps.Keys(n.alphabet)
	slices.SortFunc(out, func(a, b Action[V]) int {
		switch {
		case structuralLess(a, b):
			return -1
		case structuralLess(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// States returns the recorded states in ascending order.
func (n *Nfa[V]) States() []StateID { return n.states.Sorted() }

// EndStates returns the accepting states in ascending order.
func (n *Nfa[V]) EndStates() []StateID { return n.ends.Sorted() }

// IsEnd implements StateMachine.
func (n *Nfa[V]) IsEnd(state StateID) bool { return n.ends.Contains(state) }

// NextState implements StateMachine. The returned set
// belongs to the Nfa and must not be modified.
func (n *Nfa[V]) NextState(state StateID, label Label[V]) (StateSet, bool) {
	dst, ok := n.trans[state][label]
	if !ok || dst.Len() == 0 {
		return nil, false
	}
	return dst, true
}

// Closure returns every state reachable from state through
// one or more epsilon moves. state itself is part of the
// result only if an epsilon cycle leads back to it.
func (n *Nfa[V]) Closure(state StateID) StateSet {
	closure := make(StateSet)
	stack := []StateID{state}
	eps := Epsilon[V]()
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for to := range n.trans[top][eps] {
			if closure.Insert(to) {
				stack = append(stack, to)
			}
		}
	}
	return closure
}

// ClosureSet returns the union of Closure over states.
func (n *Nfa[V]) ClosureSet(states StateSet) StateSet {
	result := make(StateSet, states.Len())
	for state := range states {
		result.Extend(n.Closure(state))
	}
	return result
}

// Move returns the states reachable from state by consuming
// a. Labels are matched exactly, not by interval containment.
func (n *Nfa[V]) Move(state StateID, a Action[V]) StateSet {
	result := make(StateSet)
	result.Extend(n.trans[state][On(a)])
	return result
}

// MoveSet returns the union of Move over states.
func (n *Nfa[V]) MoveSet(states StateSet, a Action[V]) StateSet {
	label := On(a)
	result := make(StateSet)
	for state := range states {
		result.Extend(n.trans[state][label])
	}
	return result
}

// edgeCount returns the number of (from, label, to) triples.
func (n *Nfa[V]) edgeCount() int {
	count := 0
	for _, m := range n.trans {
		for _, dst := range m {
			count += dst.Len()
		}
	}
	return count
}

// ids returns every state mentioned anywhere in n, sorted.
func (n *Nfa[V]) ids() []StateID {
	all := NewStateSet(n.start)
	all.Extend(n.states)
	all.Extend(n.ends)
	for from, m := range n.trans {
		all.Insert(from)
		for _, dst := range m {
			all.Extend(dst)
		}
	}
	return all.Sorted()
}

// labels returns the labels leaving state in a
// deterministic order (epsilon first).
func (n *Nfa[V]) labels(state StateID) []Label[V] {
	out := maps.Keys(n.trans[state])
	slices.SortFunc(out, func(a, b Label[V]) int {
		switch {
		case a.some != b.some:
			if !a.some {
				return -1
			}
			return 1
		case structuralLess(a.action, b.action):
			return -1
		case structuralLess(b.action, a.action):
			return 1
		default:
			return 0
		}
	})
	return out
}
