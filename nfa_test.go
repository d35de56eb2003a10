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
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func TestNfaBuilder(t *testing.T) {
	n := NewNfaWithCapacity[rune](1, 1, 4)
	if !n.AddStates(1) || n.AddStates(1) {
		t.Error("AddStates must report whether the state is new")
	}
	if !n.AddEndState(3) || n.AddEndState(3) {
		t.Error("AddEndState must report whether the state is new")
	}
	n.AddEdges(1, On(Single('a')), 2)
	n.AddEdges(1, On(Single('a')), 3) // nondeterministic branch
	n.AddEdges(1, On(Single('a')), 3)
	n.AddEdges(2, On(Range('c', 'e')), 3)
	n.AddEdges(2, On(Single('d')), 3) // overlaps, kept as its own entry
	n.AddEdges(2, Epsilon[rune](), 1)

	if n.PathLen() != 3 {
		t.Errorf("alphabet size: observed %d expected 3 (%v)", n.PathLen(), n.Alphabet())
	}
	exp := []Action[rune]{Single('a'), Range('c', 'e'), Single('d')}
	if got := n.Alphabet(); !slices.Equal(got, exp) {
		t.Errorf("alphabet: observed %v expected %v", got, exp)
	}
	next, ok := n.NextState(1, On(Single('a')))
	if !ok || !next.Equal(NewStateSet(2, 3)) {
		t.Errorf("NextState(1, 'a'): observed %v", next.Sorted())
	}
	if _, ok := n.NextState(1, Epsilon[rune]()); ok {
		t.Error("state 1 has no epsilon edge")
	}
	if !n.IsEnd(3) || n.IsEnd(2) {
		t.Error("IsEnd")
	}
	if got := n.Move(2, Single('d')); !got.Equal(NewStateSet(3)) {
		t.Errorf("Move(2, 'd'): observed %v", got.Sorted())
	}
	// exact matching: 'd' lies in 'c'..'e' but the labels differ
	if got := n.Move(1, Single('b')); got.Len() != 0 {
		t.Errorf("Move(1, 'b'): observed %v", got.Sorted())
	}
	if got := n.MoveSet(NewStateSet(1, 2), Range('c', 'e')); !got.Equal(NewStateSet(3)) {
		t.Errorf("MoveSet: observed %v", got.Sorted())
	}
}

func TestNfaClosure(t *testing.T) {
	n := NewNfa[rune](0)
	eps := Epsilon[rune]()
	n.AddEdges(0, eps, 1)
	n.AddEdges(1, eps, 2)
	n.AddEdges(2, On(Single('x')), 3)
	n.AddEdges(3, eps, 4)
	n.AddEdges(4, eps, 5)
	n.AddEdges(5, eps, 3) // cycle back to 3

	testCases := []struct {
		state StateID
		exp   []StateID
	}{
		{0, []StateID{1, 2}}, // the start is not pre-seeded
		{2, []StateID{}},
		{3, []StateID{3, 4, 5}}, // the cycle routes back to 3
		{4, []StateID{3, 4, 5}},
		{9, []StateID{}},
	}
	for _, tc := range testCases {
		got := n.Closure(tc.state).Sorted()
		if !slices.Equal(got, tc.exp) {
			t.Errorf("Closure(%d): observed %v expected %v", tc.state, got, tc.exp)
		}
	}
	if got := n.ClosureSet(NewStateSet(0, 4)).Sorted(); !slices.Equal(got, []StateID{1, 2, 3, 4, 5}) {
		t.Errorf("ClosureSet: observed %v", got)
	}
}

// randomNfa builds an Nfa over states [0, nstates) whose
// alphabet holds disjoint actions only.
func randomNfa(rnd *rand.Rand, nstates, nedges int) *Nfa[rune] {
	labels := []Label[rune]{
		Epsilon[rune](),
		On(Single('a')),
		On(Single('b')),
		On(Range('c', 'e')),
	}
	n := NewNfa[rune](0)
	for i := 0; i < nstates; i++ {
		n.AddStates(StateID(i))
	}
	for i := 0; i < nedges; i++ {
		from := StateID(rnd.Intn(nstates))
		to := StateID(rnd.Intn(nstates))
		n.AddEdges(from, labels[rnd.Intn(len(labels))], to)
	}
	for i := 0; i < nstates; i++ {
		if rnd.Intn(4) == 0 {
			n.AddEndState(StateID(i))
		}
	}
	return n
}

func TestNfaClosureProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	eps := Epsilon[rune]()
	for iter := 0; iter < 200; iter++ {
		n := randomNfa(rnd, 1+rnd.Intn(8), rnd.Intn(20))
		for _, s := range n.States() {
			closure := n.Closure(s)
			for member := range closure {
				next, _ := n.NextState(member, eps)
				for succ := range next {
					if !closure.Contains(succ) {
						t.Fatalf("iteration %d: %d in Closure(%d) but its epsilon successor %d is not", iter, member, s, succ)
					}
				}
			}
			direct, _ := n.NextState(s, eps)
			for succ := range direct {
				if !closure.Contains(succ) {
					t.Fatalf("iteration %d: epsilon successor %d of %d missing from closure", iter, succ, s)
				}
			}
		}
	}
}
