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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dchest/siphash"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// ErrTooManyStates is returned by Determinize when the
// subset construction exceeds Options.MaxStates.
var ErrTooManyStates = errors.New("DFA exceeds max number of states")

// Options controls Determinize.
type Options struct {
	// MaxStates, if positive, bounds the number
	// of DFA states that may be discovered.
	MaxStates int
	// Logf, if non-nil, receives progress messages.
	Logf func(f string, args ...interface{})
}

func (o *Options) logf(f string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(f, args...)
	}
}

// subsetIndex maps canonical NFA state sets to the DFA
// id they were assigned. Sets are stored sorted and keyed
// by their siphash; colliding keys are compared in full.
type subsetIndex struct {
	sets    [][]StateID
	buckets map[uint64][]int
	scratch []byte
}

const (
	subsetK0 = 0x2a6c1f04b8d7e935
	subsetK1 = 0x71e9d3c05a4b8f12
)

func newSubsetIndex() *subsetIndex {
	return &subsetIndex{buckets: map[uint64][]int{}}
}

func (x *subsetIndex) hash(ids []StateID) uint64 {
	x.scratch = x.scratch[:0]
	for _, id := range ids {
		x.scratch = binary.LittleEndian.AppendUint32(x.scratch, uint32(id))
	}
	return siphash.Hash(subsetK0, subsetK1, x.scratch)
}

// lookup returns the id of ids and true, or the
// hash of ids and false if it was never added.
func (x *subsetIndex) lookup(ids []StateID) (int, uint64, bool) {
	h := x.hash(ids)
	for _, i := range x.buckets[h] {
		if slices.Equal(x.sets[i], ids) {
			return i, h, true
		}
	}
	return -1, h, false
}

func (x *subsetIndex) add(ids []StateID, h uint64) int {
	i := len(x.sets)
	x.sets = append(x.sets, ids)
	x.buckets[h] = append(x.buckets[h], i)
	return i
}

type recordedT[V constraints.Ordered] struct {
	from, to int
	action   Action[V]
}

// FromNfa converts n into an equivalent Dfa using the
// subset construction; see Determinize.
//
// FromNfa panics if two overlapping alphabet actions both
// lead somewhere from the same subset; such an Nfa needs its
// alphabet partitioned into disjoint actions first.
func FromNfa[V constraints.Ordered](n *Nfa[V]) *Dfa[V] {
	d, err := Determinize(n, Options{})
	if err != nil {
		panic(fmt.Sprintf("a41f09d3: %v", err))
	}
	return d
}

// Determinize converts n into an equivalent Dfa.
//
// The start subset is the start state together with its
// epsilon closure and gets DFA id 0. Every discovered subset
// S is expanded once for every action a of the alphabet: the
// successor is M ∪ closure(M) with M = move(S, a). Non-empty
// successors receive the next id when first seen, and the
// transition (S, a) is recorded whether or not the successor
// was new. A subset accepts if it holds any accepting NFA state.
//
// Only the single start state of n is considered.
func Determinize[V constraints.Ordered](n *Nfa[V], opts Options) (*Dfa[V], error) {
	index := newSubsetIndex()
	start := n.Closure(n.start)
	start.Insert(n.start)
	startIDs := start.Sorted()
	_, h, _ := index.lookup(startIDs)
	index.add(startIDs, h)

	alphabet := n.Alphabet()
	var recorded []recordedT[V]

	// index.sets[:top] are expanded; index.sets[top:] are pending
	for top := 0; top < len(index.sets); {
		pending, end := top, len(index.sets)
		top = end
		for i := pending; i < end; i++ {
			subset := NewStateSet(index.sets[i]...)
			for _, a := range alphabet {
				next := n.MoveSet(subset, a)
				if next.Len() == 0 {
					continue
				}
				next.Extend(n.ClosureSet(next))
				ids := next.Sorted()
				to, h, present := index.lookup(ids)
				if !present {
					if opts.MaxStates > 0 && len(index.sets) >= opts.MaxStates {
						return nil, fmt.Errorf("%w %d", ErrTooManyStates, opts.MaxStates)
					}
					to = index.add(ids, h)
				}
				recorded = append(recorded, recordedT[V]{from: i, to: to, action: a})
			}
		}
		opts.logf("determinize: expanded %d subsets, discovered %d", end-pending, len(index.sets)-end)
	}

	d := NewDfaWithCapacity[V](0, 0, len(index.sets))
	for i, ids := range index.sets {
		d.AddStates(StateID(i))
		for _, id := range ids {
			if n.IsEnd(id) {
				d.AddEndState(StateID(i))
				break
			}
		}
	}
	for _, r := range recorded {
		if err := d.AddEdges(StateID(r.from), r.action, StateID(r.to)); err != nil {
			return nil, fmt.Errorf("determinize: %w", err)
		}
	}
	opts.logf("determinize: %d NFA states -> %d DFA states, %d edges", len(n.ids()), len(index.sets), len(recorded))
	return d, nil
}
