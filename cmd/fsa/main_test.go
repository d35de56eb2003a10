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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SnellerInc/fsa"
)

const digitsDef = `nfa
start 0
accept 2
0 -> 1
1 -> 2 '0'..'9'
2 -> 2 '0'..'9'
`

func TestCompileCached(t *testing.T) {
	dir := t.TempDir()
	defpath := filepath.Join(dir, "digits.fsa")
	if err := os.WriteFile(defpath, []byte(digitsDef), 0640); err != nil {
		t.Fatal(err)
	}
	dashcache = filepath.Join(dir, "cache")
	defer func() { dashcache = "" }()

	for i := 0; i < 2; i++ {
		def, src := load(defpath)
		d := compile(def, src)
		got := d.Matches(fsa.Runes("ab12c345")).All()
		if len(got) != 2 || string(got[0]) != "12" || string(got[1]) != "345" {
			t.Fatalf("round %d: observed %q", i, got)
		}
	}
	entries, err := os.ReadDir(dashcache)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("observed %d cache directories expected 1", len(entries))
	}
}
