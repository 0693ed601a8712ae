package render

import (
	"bytes"
	"strings"
	"testing"

	"ccforest/internal/cond"
	"ccforest/internal/lex"
	"ccforest/internal/parser"
	"ccforest/internal/symtab"
)

func sampleSymbols() []*symtab.Symbol {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	return []*symtab.Symbol{
		{Identifier: "bar", Family: symtab.FamilyFunction, ExistenceCondition: cond.True(), Signature: "int bar()"},
		{Identifier: "foo", Family: symtab.FamilyVariable, ExistenceCondition: a, Signature: "int foo"},
	}
}

func TestApplyFiltersByTypeAndSortsByIdentifier(t *testing.T) {
	out, err := Apply(sampleSymbols(), Options{Type: "variable"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 || out[0].Identifier != "foo" {
		t.Fatalf("expected only foo, got %v", out)
	}
}

func TestApplyFilterRegexSelectsMatchingIdentifiers(t *testing.T) {
	out, err := Apply(sampleSymbols(), Options{Filter: "^b"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 || out[0].Identifier != "bar" {
		t.Fatalf("expected only bar, got %v", out)
	}
}

func TestApplyInvalidFilterReturnsError(t *testing.T) {
	if _, err := Apply(sampleSymbols(), Options{Filter: "("}); err == nil {
		t.Fatalf("expected an error for an invalid regular expression")
	}
}

func TestWriteTextIncludesConditionForConditionalSymbols(t *testing.T) {
	var buf bytes.Buffer
	symbols, _ := Apply(sampleSymbols(), Options{})
	if err := Write(&buf, symbols, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "defined(A)") {
		t.Errorf("expected output to mention foo's condition, got %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "bar") && strings.Contains(line, "[") {
			t.Errorf("bar is unconditional and should not carry a bracketed condition")
		}
	}
}

func sampleTokenRecords() []parser.TokenRecord {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	return []parser.TokenRecord{
		{Kind: lex.KindString, Text: `"hello"`, Condition: cond.True(), Location: lex.Location{Line: 1}},
		{Kind: lex.KindInteger, Text: "42", Condition: a, Location: lex.Location{Line: 2}},
		{Kind: lex.KindBlockComment, Text: "/* note */", Condition: cond.True(), Location: lex.Location{Line: 3}},
		{Kind: lex.KindLineComment, Text: "// todo", Condition: a, Location: lex.Location{Line: 4}},
	}
}

func TestWriteLiteralsFiltersByKind(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLiterals(&buf, sampleTokenRecords(), "string"); err != nil {
		t.Fatalf("WriteLiterals: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"hello"`) {
		t.Errorf("expected output to include the string literal, got %q", out)
	}
	if strings.Contains(out, "42") {
		t.Errorf("expected integer literal to be excluded, got %q", out)
	}
}

func TestWriteLiteralsIncludesConditionForConditionalLiteral(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLiterals(&buf, sampleTokenRecords(), "integer"); err != nil {
		t.Fatalf("WriteLiterals: %v", err)
	}
	if !strings.Contains(buf.String(), "defined(A)") {
		t.Errorf("expected conditional integer literal to carry its condition, got %q", buf.String())
	}
}

func TestWriteLiteralsUnknownKindReturnsError(t *testing.T) {
	if err := WriteLiterals(&bytes.Buffer{}, sampleTokenRecords(), "bogus"); err == nil {
		t.Fatalf("expected an error for an unknown literal kind")
	}
}

func TestWriteCommentsFiltersByKind(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteComments(&buf, sampleTokenRecords(), "block"); err != nil {
		t.Fatalf("WriteComments: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "/* note */") {
		t.Errorf("expected output to include the block comment, got %q", out)
	}
	if strings.Contains(out, "todo") {
		t.Errorf("expected line comment to be excluded, got %q", out)
	}
}

func TestWriteJSONProducesOneEntryPerSymbol(t *testing.T) {
	var buf bytes.Buffer
	symbols, _ := Apply(sampleSymbols(), Options{})
	if err := Write(&buf, symbols, Options{Format: "json"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `"identifier": "bar"`) {
		t.Errorf("expected JSON output to include bar, got %s", buf.String())
	}
}
