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
	"fmt"
	"strconv"
	"unicode"

	"golang.org/x/exp/constraints"
)

type actionKind uint8

const (
	kindSingle actionKind = iota
	kindRange
)

// Action is an edge label: either a single symbol
// or an inclusive symbol interval [lo, hi].
//
// Actions have a hand-written total order (see Compare)
// so that the outgoing edges of a DFA state can be kept
// as a handful of sorted interval entries and probed
// with a bare symbol.
type Action[V constraints.Ordered] struct {
	kind   actionKind
	lo, hi V
}

// Single returns an Action matching exactly v.
func Single[V constraints.Ordered](v V) Action[V] {
	return Action[V]{kind: kindSingle, lo: v, hi: v}
}

// Range returns an Action matching every symbol in [lo, hi].
// A Range that takes part in ordering must have hi > lo.
func Range[V constraints.Ordered](lo, hi V) Action[V] {
	return Action[V]{kind: kindRange, lo: lo, hi: hi}
}

// IsRange returns true when a was built with Range.
func (a Action[V]) IsRange() bool { return a.kind == kindRange }

// Bounds returns the inclusive bounds of a;
// for a Single both bounds are the symbol.
func (a Action[V]) Bounds() (lo, hi V) { return a.lo, a.hi }

// mustBeValid panics on a degenerate range; such a
// range indicates a defect in automaton construction.
func (a Action[V]) mustBeValid() {
	if a.kind == kindRange && !(a.hi > a.lo) {
		panic(fmt.Sprintf("5e0d71c2: malformed range %v..%v: upper bound must exceed lower bound", a.lo, a.hi))
	}
}

// EqualValue reports whether a matches the symbol v:
// containment for a Range, exact match for a Single.
func (a Action[V]) EqualValue(v V) bool {
	if a.kind == kindSingle {
		return a.lo == v
	}
	return a.lo <= v && v <= a.hi
}

// Equal compares two actions: ranges by their bounds,
// a range and a single by containment, singles by value.
func (a Action[V]) Equal(b Action[V]) bool {
	switch {
	case a.kind == kindRange && b.kind == kindRange:
		return a.lo == b.lo && a.hi == b.hi
	case a.kind == kindRange:
		return a.EqualValue(b.lo)
	case b.kind == kindRange:
		return b.EqualValue(a.lo)
	default:
		return a.lo == b.lo
	}
}

func compareOrdered[V constraints.Ordered](x, y V) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// CompareValue orders a relative to the symbol v.
// A Range containing v is equal to it; a Range lying
// entirely below v (v > hi) is Less; otherwise Greater.
// A Single compares its symbol with v.
func (a Action[V]) CompareValue(v V) int {
	if a.kind == kindSingle {
		return compareOrdered(a.lo, v)
	}
	a.mustBeValid()
	switch {
	case a.lo <= v && v <= a.hi:
		return 0
	case v > a.hi:
		return -1
	default:
		return 1
	}
}

// Compare returns -1, 0 or +1 as a is less than, equal to
// or greater than b.
//
// Two ranges are equal only with identical bounds; otherwise
// the one with the larger upper bound is greater (and the
// lower bound breaks ties). A range and a single are ordered
// by probing the range with the single's symbol. Ordering
// callers are responsible for keeping ranges disjoint.
func (a Action[V]) Compare(b Action[V]) int {
	switch {
	case a.kind == kindRange && b.kind == kindRange:
		a.mustBeValid()
		b.mustBeValid()
		if a.hi != b.hi {
			return compareOrdered(a.hi, b.hi)
		}
		return compareOrdered(a.lo, b.lo)
	case a.kind == kindRange:
		return a.CompareValue(b.lo)
	case b.kind == kindRange:
		return -b.CompareValue(a.lo)
	default:
		return compareOrdered(a.lo, b.lo)
	}
}

// structuralLess is a plain field-wise order used to
// enumerate structurally distinct actions deterministically.
func structuralLess[V constraints.Ordered](a, b Action[V]) bool {
	if a.lo != b.lo {
		return a.lo < b.lo
	}
	if a.hi != b.hi {
		return a.hi < b.hi
	}
	return a.kind < b.kind
}

func symbolString[V constraints.Ordered](v V) string {
	if r, ok := any(v).(rune); ok {
		if unicode.IsPrint(r) {
			return strconv.QuoteRune(r)
		}
		return fmt.Sprintf("0x%X", r)
	}
	return fmt.Sprintf("%v", v)
}

func (a Action[V]) String() string {
	if a.kind == kindSingle {
		return symbolString(a.lo)
	}
	return symbolString(a.lo) + ".." + symbolString(a.hi)
}
