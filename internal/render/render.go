// Package render formats symbol-index query results for the `ls`
// subcommand (D6), an external collaborator per spec.md §1: it is kept
// strictly downstream of internal/symtab so the condition algebra's
// output is rendered, never recomputed.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"ccforest/internal/lex"
	"ccforest/internal/parser"
	"ccforest/internal/symtab"
)

// Options controls how a symbol list is rendered, per SPEC_FULL.md
// §6.1's `ls` flag table.
type Options struct {
	Type   string // symtab.Family.String() value, "" means any
	Filter string // regular expression over Identifier
	Long   bool   // include linkage and signature detail
	Format string // "text" (default) or "json"
	Each   bool   // one line per (symbol, declaration-or-definition site)
}

// Apply filters symbols by Options.Type and Options.Filter, in the
// order `ls` applies its own flags.
func Apply(symbols []*symtab.Symbol, opts Options) ([]*symtab.Symbol, error) {
	out := symbols
	if opts.Type != "" {
		var filtered []*symtab.Symbol
		for _, s := range out {
			if strings.EqualFold(s.Family.String(), opts.Type) {
				filtered = append(filtered, s)
			}
		}
		out = filtered
	}
	if opts.Filter != "" {
		re, err := regexp.Compile(opts.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", opts.Filter, err)
		}
		var filtered []*symtab.Symbol
		for _, s := range out {
			if re.MatchString(s.Identifier) {
				filtered = append(filtered, s)
			}
		}
		out = filtered
	}
	sorted := append([]*symtab.Symbol{}, out...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Identifier < sorted[j].Identifier })
	return sorted, nil
}

// jsonSymbol is the `--format json` shape: sites flattened to their
// location text so the output stays one JSON document per invocation
// rather than a stream, unlike the NDJSON branch-track format.
type jsonSymbol struct {
	Identifier   string   `json:"identifier"`
	Namespace    string   `json:"namespace"`
	Family       string   `json:"family"`
	Linkage      string   `json:"linkage"`
	Condition    string   `json:"condition"`
	Signature    string   `json:"signature"`
	Declarations []string `json:"declarations,omitempty"`
	Definitions  []string `json:"definitions,omitempty"`
}

func toJSONSymbol(s *symtab.Symbol) jsonSymbol {
	js := jsonSymbol{
		Identifier: s.Identifier,
		Namespace:  s.Namespace.String(),
		Family:     s.Family.String(),
		Linkage:    s.Linkage.String(),
		Condition:  s.ExistenceCondition.String(),
		Signature:  s.Signature,
	}
	for _, d := range s.Declarations {
		js.Declarations = append(js.Declarations, fmt.Sprintf("%s@%s", d.Adducer, d.Location))
	}
	for _, d := range s.Definitions {
		js.Definitions = append(js.Definitions, fmt.Sprintf("%s@%s", d.Adducer, d.Location))
	}
	return js
}

// Write renders symbols to w according to opts, after Apply has already
// filtered and sorted them.
func Write(w io.Writer, symbols []*symtab.Symbol, opts Options) error {
	if opts.Format == "json" {
		out := make([]jsonSymbol, 0, len(symbols))
		for _, s := range symbols {
			out = append(out, toJSONSymbol(s))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, s := range symbols {
		if opts.Each {
			writeEach(w, s)
			continue
		}
		writeOneLine(w, s, opts)
	}
	return nil
}

func writeOneLine(w io.Writer, s *symtab.Symbol, opts Options) {
	line := fmt.Sprintf("%-10s %-20s", s.Family.String(), s.Identifier)
	if !s.ExistenceCondition.Unconditional() {
		line += "  [" + s.ExistenceCondition.String() + "]"
	}
	if opts.Long {
		line += fmt.Sprintf("  linkage=%s signature=%q", s.Linkage.String(), s.Signature)
	}
	fmt.Fprintln(w, line)
}

func writeEach(w io.Writer, s *symtab.Symbol) {
	sites := make([]symtab.Site, 0, len(s.Declarations)+len(s.Definitions))
	sites = append(sites, s.Declarations...)
	sites = append(sites, s.Definitions...)
	for _, site := range sites {
		line := fmt.Sprintf("%-10s %-20s  [%s]  %s  // %s", s.Family.String(), s.Identifier, site.Condition.String(), site.Location.String(), site.Adducer)
		fmt.Fprintln(w, line)
	}
}

// literalKinds maps `ls --literal T`'s argument to the lexer Kind it
// selects, per SPEC_FULL.md §6.1's {string,char,integer,float} set.
var literalKinds = map[string]lex.Kind{
	"string":  lex.KindString,
	"char":    lex.KindChar,
	"integer": lex.KindInteger,
	"float":   lex.KindFloat,
}

// commentKinds maps `ls --comment T`'s argument to the lexer Kind it
// selects, per SPEC_FULL.md §6.1's {block,line} set.
var commentKinds = map[string]lex.Kind{
	"block": lex.KindBlockComment,
	"line":  lex.KindLineComment,
}

// WriteLiterals lists every recorded literal token of the requested
// kind, each with the condition under which it was lexed, per
// SPEC_FULL.md §6.1's `--literal T` operation.
func WriteLiterals(w io.Writer, records []parser.TokenRecord, kind string) error {
	want, ok := literalKinds[strings.ToLower(kind)]
	if !ok {
		return fmt.Errorf("unknown literal kind %q: want one of string, char, integer, float", kind)
	}
	return writeTokenRecords(w, records, want)
}

// WriteComments lists every recorded comment token of the requested
// kind, each with the condition under which it was lexed, per
// SPEC_FULL.md §6.1's `--comment T` operation.
func WriteComments(w io.Writer, records []parser.TokenRecord, kind string) error {
	want, ok := commentKinds[strings.ToLower(kind)]
	if !ok {
		return fmt.Errorf("unknown comment kind %q: want one of block, line", kind)
	}
	return writeTokenRecords(w, records, want)
}

func writeTokenRecords(w io.Writer, records []parser.TokenRecord, want lex.Kind) error {
	for _, r := range records {
		if r.Kind != want {
			continue
		}
		line := fmt.Sprintf("%-8s %s", r.Location.String(), r.Text)
		if !r.Condition.Unconditional() {
			line += "  [" + r.Condition.String() + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
