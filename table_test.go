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
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestTableRoundTrip(t *testing.T) {
	d := scenarioDfa(t)
	tbl := d.Table()
	if len(tbl.Edges) != 4 || tbl.Start != 1 {
		t.Fatalf("unexpected table %+v", tbl)
	}
	if a := tbl.Edges[0].Action(); !a.Equal(Single('b')) || a.IsRange() {
		t.Errorf("first edge of state 1: observed %v", a)
	}
	buf, err := json.Marshal(&tbl)
	if err != nil {
		t.Fatal(err)
	}
	var back Table[rune]
	if err := json.Unmarshal(buf, &back); err != nil {
		t.Fatal(err)
	}
	d2, err := FromTable(&back)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d2.Table(), tbl) {
		t.Errorf("observed %+v expected %+v", d2.Table(), tbl)
	}
	run, ok := d2.Match(Runes("bd1"))
	if !ok || string(run) != "bd1" {
		t.Errorf("observed (%q, %v)", string(run), ok)
	}
}

func TestFromTableErrors(t *testing.T) {
	bad := Table[int]{
		Edges: []TableEdge[int]{{From: 0, To: 1, Lo: 5, Hi: 5, Range: true}},
	}
	if _, err := FromTable(&bad); err == nil {
		t.Error("a degenerate range must be rejected")
	}
	conflict := Table[int]{
		Edges: []TableEdge[int]{
			{From: 0, To: 1, Lo: 1, Hi: 9, Range: true},
			{From: 0, To: 2, Lo: 4},
		},
	}
	if _, err := FromTable(&conflict); !errors.Is(err, ErrConflict) {
		t.Errorf("observed %v expected ErrConflict", err)
	}
}
