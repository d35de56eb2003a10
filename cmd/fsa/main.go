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
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SnellerInc/fsa"
	"github.com/SnellerInc/fsa/fsadef"
	"github.com/SnellerInc/fsa/snapshot"
)

var (
	dashv      bool
	dashh      bool
	dashstrict bool
	dashdfa    bool
	dashmax    int
	dasho      string
	dashcache  string
	dashz      string
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashh, "h", false, "show usage help")
	flag.BoolVar(&dashstrict, "strict", false, "reject a match that is still running at end of input")
	flag.BoolVar(&dashdfa, "dfa", false, "dot: draw the determinized automaton")
	flag.IntVar(&dashmax, "max", 0, "maximum number of DFA states (0 means no limit)")
	flag.StringVar(&dasho, "o", "-", "output file (or - for stdout)")
	flag.StringVar(&dashcache, "cache", "", "directory for cached snapshots")
	flag.StringVar(&dashz, "z", "zstd", "snapshot compression ("+strings.Join(snapshot.Algorithms, ", ")+")")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func logf(f string, args ...interface{}) {
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
}

// load returns the definition in defpath
// along with its source bytes
func load(defpath string) (*fsadef.Definition, []byte) {
	src, err := os.ReadFile(defpath)
	if err != nil {
		exitf("%s\n", err)
	}
	def, err := fsadef.Decode(defpath, bytes.NewReader(src))
	if err != nil {
		exitf("%s\n", err)
	}
	return def, src
}

func options() fsa.Options {
	opts := fsa.Options{MaxStates: dashmax}
	if dashv {
		opts.Logf = logf
	}
	return opts
}

// compile determinizes def, going through
// the snapshot cache when -cache is set
func compile(def *fsadef.Definition, src []byte) *fsa.Dfa[rune] {
	build := func() (*fsa.Dfa[rune], error) {
		return def.Dfa(options())
	}
	var d *fsa.Dfa[rune]
	var err error
	if dashcache == "" {
		d, err = build()
	} else {
		c := &snapshot.Cache{Dir: dashcache, Algo: dashz}
		if dashv {
			c.Logf = logf
		}
		// the key covers the state limit too
		key := snapshot.Fingerprint(append(src, strconv.Itoa(dashmax)...))
		d, err = snapshot.Load(c, key, build)
	}
	if err != nil {
		exitf("compiling: %s\n", err)
	}
	if dashstrict {
		d.SetEndPolicy(fsa.RejectAtEnd)
	}
	return d
}

func create(name string) (io.Writer, func()) {
	if name == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(name)
	if err != nil {
		exitf("%s\n", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			exitf("%s\n", err)
		}
	}
}

func cursor(input string) (fsa.Cursor[rune], func() error) {
	if input == "-" {
		rr := fsa.NewRuneReader(bufio.NewReader(os.Stdin))
		return rr, rr.Err
	}
	return fsa.Runes(input), func() error { return nil }
}

// entry point for 'fsa dot ...'
func dot(defpath string) {
	def, src := load(defpath)
	title := def.Name
	if title == "" {
		title = defpath
	}
	var g *fsa.Graphviz
	kind := "nfa"
	if dashdfa {
		g = compile(def, src).Dot()
		kind = "dfa"
	} else {
		n, err := def.Nfa()
		if err != nil {
			exitf("%s\n", err)
		}
		g = n.Dot()
	}
	w, done := create(dasho)
	if err := g.DotContent(w, kind, title); err != nil {
		exitf("writing graph: %s\n", err)
	}
	done()
}

// entry point for 'fsa match ...'
func match(defpath string, inputs []string) {
	def, src := load(defpath)
	d := compile(def, src)
	w, done := create(dasho)
	bw := bufio.NewWriter(w)
	for _, input := range inputs {
		c, errf := cursor(input)
		runs := 0
		for it := d.Matches(c); ; runs++ {
			run, ok := it.Next()
			if !ok {
				break
			}
			fmt.Fprintf(bw, "%s\n", strconv.Quote(string(run)))
		}
		if err := errf(); err != nil {
			exitf("reading input: %s\n", err)
		}
		if dashv {
			logf("%q: %d match(es)", input, runs)
		}
	}
	if err := bw.Flush(); err != nil {
		exitf("%s\n", err)
	}
	done()
}

// entry point for 'fsa check ...'
func check(defpath string, inputs []string) {
	def, src := load(defpath)
	d := compile(def, src)
	failed := 0
	for _, input := range inputs {
		c, errf := cursor(input)
		ok := d.Check(c)
		if err := errf(); err != nil {
			exitf("reading input: %s\n", err)
		}
		if !ok {
			failed++
			fmt.Fprintf(os.Stderr, "no match: %q\n", input)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// entry point for 'fsa compile ...'
func compileTo(defpath string) {
	def, src := load(defpath)
	d := compile(def, src)
	buf, err := snapshot.Encode(nil, d, dashz)
	if err != nil {
		exitf("encoding snapshot: %s\n", err)
	}
	if dashv {
		logf("%s: %d states, %d bytes", defpath, d.NumberOfStates(), len(buf))
	}
	w, done := create(dasho)
	if _, err := w.Write(buf); err != nil {
		exitf("%s\n", err)
	}
	done()
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s [-dfa] [-o <output>] dot <def>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        write the automaton in Graphviz format\n")
	fmt.Fprintf(os.Stderr, "    %s [-strict] [-cache <dir>] match <def> <input>...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        print every match in each input (- reads stdin)\n")
	fmt.Fprintf(os.Stderr, "    %s [-strict] [-cache <dir>] check <def> <input>...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        exit with status 0 iff every input matches\n")
	fmt.Fprintf(os.Stderr, "    %s [-z <algo>] [-o <output>] compile <def>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        determinize and write a snapshot\n")
	fmt.Fprintf(os.Stderr, "flag usage:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 || dashh {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "dot":
		if len(args) != 2 {
			exitf("usage: dot <definition>\n")
		}
		dot(args[1])
	case "match":
		if len(args) < 3 {
			exitf("usage: match <definition> <input>...\n")
		}
		match(args[1], args[2:])
	case "check":
		if len(args) < 3 {
			exitf("usage: check <definition> <input>...\n")
		}
		check(args[1], args[2:])
	case "compile":
		if len(args) != 2 {
			exitf("usage: compile <definition>\n")
		}
		compileTo(args[1])
	default:
		exitf("unrecognized command %q\n", args[0])
	}
}
