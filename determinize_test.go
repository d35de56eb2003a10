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
	"math/rand"
	"strings"
	"testing"
)

func TestDeterminizeEpsilonStart(t *testing.T) {
	n := NewNfa[rune](1)
	n.AddEdges(1, Epsilon[rune](), 2)
	n.AddEdges(2, On(Single('a')), 3)
	n.AddEndState(3)

	d := FromNfa(n)
	if d.NumberOfStates() != 2 {
		t.Fatalf("observed %d states expected 2", d.NumberOfStates())
	}
	if d.Start() != 0 || d.IsEnd(0) || !d.IsEnd(1) {
		t.Errorf("start subset must be 0 (non accepting), its successor accepting")
	}
	if to, ok := d.NextState(0, 'a'); !ok || to != 1 {
		t.Errorf("0 -a-> observed (%d, %v)", to, ok)
	}
	if !d.Check(Runes("a")) {
		t.Error("\"a\" must match")
	}
	checkDeterministic(t, d)
}

func TestDeterminizeEpsilonCycle(t *testing.T) {
	n := NewNfa[rune](0)
	eps := Epsilon[rune]()
	n.AddEdges(0, eps, 1)
	n.AddEdges(1, eps, 2)
	n.AddEdges(2, eps, 0)
	n.AddEdges(2, On(Single('a')), 3)
	n.AddEdges(3, eps, 3)
	n.AddEdges(3, On(Single('b')), 0)
	n.AddEndState(3)

	d := FromNfa(n)
	// {0,1,2} -a-> {3} -b-> {0,1,2}
	if d.NumberOfStates() != 2 {
		t.Fatalf("observed %d states expected 2", d.NumberOfStates())
	}
	for _, w := range []string{"a", "aba", "ababa"} {
		if !dfaAccepts(d, []rune(w)) {
			t.Errorf("%q must be accepted", w)
		}
	}
	for _, w := range []string{"", "ab", "aa", "b"} {
		if dfaAccepts(d, []rune(w)) {
			t.Errorf("%q must be rejected", w)
		}
	}
}

func TestDeterminizeMaxStates(t *testing.T) {
	// (a|b)*a(a|b)(a|b): the subset construction needs 8 states
	n := NewNfa[rune](0)
	n.AddEdges(0, On(Single('a')), 0)
	n.AddEdges(0, On(Single('b')), 0)
	n.AddEdges(0, On(Single('a')), 1)
	for s := StateID(1); s < 3; s++ {
		n.AddEdges(s, On(Single('a')), s+1)
		n.AddEdges(s, On(Single('b')), s+1)
	}
	n.AddEndState(3)

	var log strings.Builder
	d, err := Determinize(n, Options{Logf: func(f string, args ...interface{}) {
		fmt.Fprintf(&log, f+"\n", args...)
	}})
	if err != nil {
		t.Fatal(err)
	}
	if d.NumberOfStates() != 8 {
		t.Errorf("observed %d states expected 8", d.NumberOfStates())
	}
	if !strings.Contains(log.String(), "-> 8 DFA states") {
		t.Errorf("unexpected log %q", log.String())
	}
	_, err = Determinize(n, Options{MaxStates: 5})
	if !errors.Is(err, ErrTooManyStates) {
		t.Errorf("observed %v expected ErrTooManyStates", err)
	}
}

func TestDeterminizeOverlappingAlphabet(t *testing.T) {
	n := NewNfa[rune](0)
	n.AddEdges(0, On(Range('a', 'c')), 1)
	n.AddEdges(0, On(Single('b')), 2)
	if _, err := Determinize(n, Options{}); !errors.Is(err, ErrConflict) {
		t.Errorf("observed %v expected ErrConflict", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("FromNfa must panic on an overlapping alphabet")
		}
	}()
	FromNfa(n)
}

// dfaAccepts returns true if d consumes all of w
// and stops in an accepting state.
func dfaAccepts(d *Dfa[rune], w []rune) bool {
	state := d.Start()
	for _, v := range w {
		next, ok := d.NextState(state, v)
		if !ok {
			return false
		}
		state = next
	}
	return d.IsEnd(state)
}

// nfaAccepts searches every path of n for one that
// consumes exactly w and ends in an accepting state.
func nfaAccepts(n *Nfa[rune], w []rune) bool {
	type pos struct {
		state StateID
		at    int
	}
	visited := map[pos]bool{}
	var walk func(p pos) bool
	walk = func(p pos) bool {
		if visited[p] {
			return false
		}
		visited[p] = true
		if p.at == len(w) && n.IsEnd(p.state) {
			return true
		}
		for label, dst := range n.trans[p.state] {
			a, ok := label.Action()
			if !ok {
				for to := range dst {
					if walk(pos{to, p.at}) {
						return true
					}
				}
				continue
			}
			if p.at < len(w) && a.EqualValue(w[p.at]) {
				for to := range dst {
					if walk(pos{to, p.at + 1}) {
						return true
					}
				}
			}
		}
		return false
	}
	return walk(pos{n.Start(), 0})
}

// words returns every word over symbols up to length max.
func words(symbols []rune, max int) [][]rune {
	out := [][]rune{{}}
	last := [][]rune{{}}
	for l := 0; l < max; l++ {
		var next [][]rune
		for _, w := range last {
			for _, s := range symbols {
				next = append(next, append(append([]rune(nil), w...), s))
			}
		}
		out = append(out, next...)
		last = next
	}
	return out
}

func TestDeterminizeEquivalence(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	// 'd' is inside 'c'..'e'; 'f' is outside the alphabet
	all := words([]rune{'a', 'b', 'd', 'f'}, 5)
	for iter := 0; iter < 300; iter++ {
		n := randomNfa(rnd, 1+rnd.Intn(6), rnd.Intn(16))
		d := FromNfa(n)
		checkDeterministic(t, d)
		for _, w := range all {
			want := nfaAccepts(n, w)
			if got := dfaAccepts(d, w); got != want {
				t.Fatalf("iteration %d: %q: dfa %v, nfa %v", iter, string(w), got, want)
			}
		}
	}
}
