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

// Package fsadef reads and writes automaton
// definitions over runes.
//
// Definitions come in two forms: YAML (or JSON),
// and a line-oriented text form:
//
//	nfa
//	start 1
//	accept 3, 4
//	1 -> 2            # epsilon
//	2 -> 3 'a'
//	1 -> 4 'd'..'y'
package fsadef

import (
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/SnellerInc/fsa"
)

// Kind selects the automaton a Definition describes.
type Kind string

const (
	KindNFA Kind = "nfa"
	KindDFA Kind = "dfa"
)

// Definition describes an automaton over runes.
type Definition struct {
	Name   string        `json:"name,omitempty"`
	Kind   Kind          `json:"kind,omitempty"`
	Start  fsa.StateID   `json:"start"`
	Accept []fsa.StateID `json:"accept"`
	Edges  []Edge        `json:"edges"`
}

// Edge is one transition. An edge with neither On nor
// Range is an epsilon move (NFA definitions only).
// Quote symbols in YAML: a bare y or n reads as a boolean.
type Edge struct {
	From  fsa.StateID `json:"from"`
	To    fsa.StateID `json:"to"`
	On    string      `json:"symbol,omitempty"`
	Range []string    `json:"range,omitempty"`
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Label returns the edge label of e.
func (e *Edge) Label() (fsa.Label[rune], error) {
	switch {
	case e.On != "" && e.Range != nil:
		return fsa.Label[rune]{}, fmt.Errorf("edge %d -> %d: both on and range are set", e.From, e.To)
	case e.On != "":
		r, err := singleRune(e.On)
		if err != nil {
			return fsa.Label[rune]{}, fmt.Errorf("edge %d -> %d: %w", e.From, e.To, err)
		}
		return fsa.On(fsa.Single(r)), nil
	case e.Range != nil:
		if len(e.Range) != 2 {
			return fsa.Label[rune]{}, fmt.Errorf("edge %d -> %d: range needs two bounds, got %d", e.From, e.To, len(e.Range))
		}
		lo, err := singleRune(e.Range[0])
		if err != nil {
			return fsa.Label[rune]{}, fmt.Errorf("edge %d -> %d: %w", e.From, e.To, err)
		}
		hi, err := singleRune(e.Range[1])
		if err != nil {
			return fsa.Label[rune]{}, fmt.Errorf("edge %d -> %d: %w", e.From, e.To, err)
		}
		if hi <= lo {
			return fsa.Label[rune]{}, fmt.Errorf("edge %d -> %d: range %q..%q is empty or a single character", e.From, e.To, lo, hi)
		}
		return fsa.On(fsa.Range(lo, hi)), nil
	default:
		return fsa.Epsilon[rune](), nil
	}
}

// Validate checks the kind and every edge label.
func (d *Definition) Validate() error {
	switch d.Kind {
	case "", KindNFA, KindDFA:
	default:
		return fmt.Errorf("unknown automaton kind %q", d.Kind)
	}
	for i := range d.Edges {
		l, err := d.Edges[i].Label()
		if err != nil {
			return err
		}
		if l.IsEpsilon() && d.Kind == KindDFA {
			return fmt.Errorf("edge %d -> %d: epsilon edge in a dfa", d.Edges[i].From, d.Edges[i].To)
		}
	}
	return nil
}

// Nfa builds the Nfa described by d. A dfa definition
// yields an Nfa without epsilon moves.
func (d *Definition) Nfa() (*fsa.Nfa[rune], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	n := fsa.NewNfaWithCapacity[rune](d.Start, len(d.Accept), 2*len(d.Edges)+1)
	n.AddStates(d.Start)
	for _, s := range d.Accept {
		n.AddStates(s)
		n.AddEndState(s)
	}
	for i := range d.Edges {
		e := &d.Edges[i]
		l, _ := e.Label()
		n.AddStates(e.From)
		n.AddStates(e.To)
		n.AddEdges(e.From, l, e.To)
	}
	return n, nil
}

// Dfa builds the Dfa described by d: a dfa definition is
// built edge by edge and may fail with fsa.ErrConflict,
// an nfa definition is determinized with opts.
func (d *Definition) Dfa(opts fsa.Options) (*fsa.Dfa[rune], error) {
	if d.Kind != KindDFA {
		n, err := d.Nfa()
		if err != nil {
			return nil, err
		}
		return fsa.Determinize(n, opts)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	dfa := fsa.NewDfaWithCapacity[rune](d.Start, len(d.Accept), 2*len(d.Edges)+1)
	for _, s := range d.Accept {
		dfa.AddEndState(s)
	}
	for i := range d.Edges {
		e := &d.Edges[i]
		l, _ := e.Label()
		a, _ := l.Action()
		if err := dfa.AddEdges(e.From, a, e.To); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return dfa, nil
}

// Decode reads a definition, choosing the form from the
// extension of name: .yaml, .yml and .json are decoded as
// YAML, anything else as the text form.
func Decode(name string, src io.Reader) (*Definition, error) {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return DecodeYAML(src)
	default:
		return Parse(name, src)
	}
}
