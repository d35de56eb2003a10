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

// Package fsa implements finite automata with
// interval edge labels: NFAs with epsilon moves,
// DFAs, subset construction between the two and
// a streaming match protocol over symbol cursors.
package fsa

// StateID identifies a state inside one automaton.
// It is an index, not an owning handle.
type StateID int32

// StateMachine is the capability shared by
// deterministic and nondeterministic automata.
//
// S is the state type, Sym the symbol consumed by
// a single step and Next the shape of the step result:
// a single state for a DFA, a set of states for an NFA.
type StateMachine[S, Sym, Next any] interface {
	// IsEnd returns true if state is accepting.
	IsEnd(state S) bool
	// NextState returns the destination of the step from
	// state on sym, or false if there is none.
	NextState(state S, sym Sym) (Next, bool)
}

var (
	_ StateMachine[StateID, rune, StateID]          = (*Dfa[rune])(nil)
	_ StateMachine[StateID, Label[rune], StateSet] = (*Nfa[rune])(nil)
)
