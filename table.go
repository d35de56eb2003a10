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

	"golang.org/x/exp/constraints"
)

// TableEdge is one transition of a Table.
type TableEdge[V constraints.Ordered] struct {
	From  StateID `json:"from"`
	To    StateID `json:"to"`
	Lo    V       `json:"lo"`
	Hi    V       `json:"hi,omitempty"`
	Range bool    `json:"range,omitempty"`
}

// Action returns the action of e.
func (e *TableEdge[V]) Action() Action[V] {
	if e.Range {
		return Range(e.Lo, e.Hi)
	}
	return Single(e.Lo)
}

// Table is the portable form of a frozen Dfa.
type Table[V constraints.Ordered] struct {
	Start  StateID        `json:"start"`
	Accept []StateID      `json:"accept"`
	States []StateID      `json:"states,omitempty"`
	Edges  []TableEdge[V] `json:"edges"`
}

// Table returns the transitions of d ordered by
// source state and then by action.
func (d *Dfa[V]) Table() Table[V] {
	t := Table[V]{
		Start:  d.start,
		Accept: d.EndStates(),
		States: d.States(),
	}
	for _, from := range t.States {
		for _, e := range d.trans[from] {
			lo, hi := e.action.Bounds()
			te := TableEdge[V]{From: from, To: e.to, Lo: lo}
			if e.action.IsRange() {
				te.Hi = hi
				te.Range = true
			}
			t.Edges = append(t.Edges, te)
		}
	}
	return t
}

// FromTable rebuilds a Dfa from t.
func FromTable[V constraints.Ordered](t *Table[V]) (*Dfa[V], error) {
	d := NewDfaWithCapacity[V](t.Start, len(t.Accept), len(t.States))
	for _, s := range t.States {
		d.AddStates(s)
	}
	for _, s := range t.Accept {
		d.AddEndState(s)
	}
	for i := range t.Edges {
		e := &t.Edges[i]
		if e.Range && !(e.Hi > e.Lo) {
			return nil, fmt.Errorf("edge %d: malformed range %v..%v", i, e.Lo, e.Hi)
		}
		if err := d.AddEdges(e.From, e.Action(), e.To); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return d, nil
}
