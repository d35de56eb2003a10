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
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slices"
)

// Graphviz collects the nodes and edges of an
// automaton and writes them in dot format.
type Graphviz struct {
	nodes []string
	edges []string
}

func newGraphviz() *Graphviz {
	return &Graphviz{}
}

func (dot *Graphviz) addNode(id StateID, start, accept bool) {
	switch {
	case start && accept:
		dot.nodes = append(dot.nodes, fmt.Sprintf("\ts%d [shape=doubleoctagon]; #start; accept\n", id))
	case accept:
		dot.nodes = append(dot.nodes, fmt.Sprintf("\ts%d [shape=doublecircle]; #accept\n", id))
	case start:
		dot.nodes = append(dot.nodes, fmt.Sprintf("\ts%d [shape=octagon]; #start\n", id))
	default:
		dot.nodes = append(dot.nodes, fmt.Sprintf("\ts%d [shape=ellipse];\n", id))
	}
}

func (dot *Graphviz) addEdge(from, to StateID, label string) {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	dot.edges = append(dot.edges, fmt.Sprintf("\ts%d -> s%d [label=\"%s\"];\n", from, to, label))
}

// DotContent writes the graph named graphName with the
// given title to dst. Nodes and edges are sorted so the
// output is stable.
func (dot *Graphviz) DotContent(dst io.Writer, graphName, graphTitle string) error {
	_, err := fmt.Fprintf(dst, "digraph %v {\n\trankdir=LR;\n", graphName)
	if err != nil {
		return err
	}
	slices.Sort(dot.nodes)
	for _, s := range dot.nodes {
		if _, err := io.WriteString(dst, s); err != nil {
			return err
		}
	}
	slices.Sort(dot.edges)
	for _, s := range dot.edges {
		if _, err := io.WriteString(dst, s); err != nil {
			return err
		}
	}
	graphTitle = strings.ReplaceAll(graphTitle, `\`, `\\`)
	graphTitle = strings.ReplaceAll(graphTitle, `"`, `\"`)
	_, err = fmt.Fprintf(dst, "\tlabelloc=\"t\";\n\tlabel=\"%v: %v\";\n}\n", graphName, graphTitle)
	return err
}

// WriteToFile writes the graph to filename.
func (dot *Graphviz) WriteToFile(filename, graphName, graphTitle string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = dot.DotContent(f, graphName, graphTitle)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

// Dot returns the graph of n; epsilon edges are labelled <ε>.
func (n *Nfa[V]) Dot() *Graphviz {
	result := newGraphviz()
	for _, id := range n.ids() {
		result.addNode(id, id == n.start, n.IsEnd(id))
		for _, label := range n.labels(id) {
			for _, to := range n.trans[id][label].Sorted() {
				result.addEdge(id, to, label.String())
			}
		}
	}
	return result
}

// Dot returns the graph of d.
func (d *Dfa[V]) Dot() *Graphviz {
	result := newGraphviz()
	for _, id := range d.States() {
		result.addNode(id, id == d.start, d.IsEnd(id))
		for _, e := range d.trans[id] {
			result.addEdge(id, e.to, e.action.String())
		}
	}
	return result
}
