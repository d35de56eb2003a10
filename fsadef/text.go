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

package fsadef

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/SnellerInc/fsa"
)

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])+'`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-z]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Dots", Pattern: `\.\.`},
	{Name: "Comma", Pattern: `,`},
})

type textFile struct {
	Kind    string        `parser:"@('nfa' | 'dfa')?"`
	Clauses []*textClause `parser:"@@*"`
}

type textClause struct {
	Pos    lexer.Position
	Start  *int      `parser:"  'start' @Int"`
	Accept []int     `parser:"| 'accept' @Int (',' @Int)*"`
	Edge   *textEdge `parser:"| @@"`
}

type textEdge struct {
	From int     `parser:"@Int '->'"`
	To   int     `parser:"@Int"`
	Lo   *string `parser:"( @Char"`
	Hi   *string `parser:"  ('..' @Char)? )?"`
}

var textParser = participle.MustBuild[textFile](
	participle.Lexer(textLexer),
	participle.Unquote("Char"),
	participle.Elide("Comment", "Whitespace"),
)

// Parse reads the text form of a definition.
// The name is only used in error messages.
func Parse(name string, src io.Reader) (*Definition, error) {
	f, err := textParser.Parse(name, src)
	if err != nil {
		return nil, err
	}
	d := &Definition{Kind: Kind(f.Kind)}
	sawStart := false
	for _, c := range f.Clauses {
		switch {
		case c.Start != nil:
			if sawStart {
				return nil, fmt.Errorf("%s: duplicate start clause", c.Pos)
			}
			sawStart = true
			d.Start = fsa.StateID(*c.Start)
		case c.Accept != nil:
			for _, s := range c.Accept {
				d.Accept = append(d.Accept, fsa.StateID(s))
			}
		case c.Edge != nil:
			e := Edge{From: fsa.StateID(c.Edge.From), To: fsa.StateID(c.Edge.To)}
			switch {
			case c.Edge.Hi != nil:
				e.Range = []string{*c.Edge.Lo, *c.Edge.Hi}
			case c.Edge.Lo != nil:
				e.On = *c.Edge.Lo
			}
			d.Edges = append(d.Edges, e)
		}
	}
	if !sawStart {
		return nil, fmt.Errorf("%s: missing start clause", name)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func quoteChar(s string) string {
	r, err := singleRune(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return strconv.QuoteRune(r)
}

// WriteText writes d in the text form read by Parse.
// The Name of d is not part of the text form.
func WriteText(dst io.Writer, d *Definition) error {
	w := bufio.NewWriter(dst)
	if d.Kind != "" {
		fmt.Fprintln(w, d.Kind)
	}
	fmt.Fprintf(w, "start %d\n", d.Start)
	if len(d.Accept) > 0 {
		ids := make([]string, len(d.Accept))
		for i, s := range d.Accept {
			ids[i] = strconv.Itoa(int(s))
		}
		fmt.Fprintf(w, "accept %s\n", strings.Join(ids, ", "))
	}
	for i := range d.Edges {
		e := &d.Edges[i]
		fmt.Fprintf(w, "%d -> %d", e.From, e.To)
		switch {
		case len(e.Range) == 2:
			fmt.Fprintf(w, " %s..%s", quoteChar(e.Range[0]), quoteChar(e.Range[1]))
		case e.On != "":
			fmt.Fprintf(w, " %s", quoteChar(e.On))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}
