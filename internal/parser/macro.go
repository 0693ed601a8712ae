package parser

import (
	"strings"

	"ccforest/internal/diagnostics"
	"ccforest/internal/lex"
	"ccforest/internal/symtab"
)

func renderTokens(toks []lex.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// defineMacro handles `#define NAME ...` / `#define NAME(args) ...`,
// recognizing the function-like form by the absence of whitespace
// between the name and its `(`, per C's own rule for distinguishing
// the two, and announces a macro-object or macro-function symbol on
// every currently active leaf (spec.md §4.6/§4.5).
func (tu *TranslationUnit) defineMacro(file string, toks []lex.Token) {
	if len(toks) == 0 {
		return
	}
	nameTok := toks[0]
	if nameTok.Kind != lex.KindIdentifier {
		return
	}
	rest := toks[1:]

	family := symtab.FamilyMacroObject
	signature := nameTok.Text
	if len(rest) > 0 && !nameTok.WhitespaceAfter && rest[0].Kind == lex.KindPunctuator && rest[0].Text == "(" {
		family = symtab.FamilyMacroFunction
		depth := 0
		i := 0
		var params []string
		for i < len(rest) {
			t := rest[i]
			if t.Kind == lex.KindPunctuator && t.Text == "(" {
				depth++
				i++
				continue
			}
			if t.Kind == lex.KindPunctuator && t.Text == ")" {
				depth--
				i++
				if depth == 0 {
					break
				}
				continue
			}
			if t.Kind == lex.KindPunctuator && t.Text == "," {
				i++
				continue
			}
			params = append(params, t.Text)
			i++
		}
		signature = nameTok.Text + "(" + strings.Join(params, ", ") + ")"
		rest = rest[i:]
	}
	body := renderTokens(rest)

	for _, leaf := range tu.Root.ActiveBranches() {
		sym := &symtab.Symbol{
			Namespace:          symtab.NamespacePreprocessor,
			Identifier:         nameTok.Text,
			Family:             family,
			ExistenceCondition: leaf.Conditions(),
			TypeInfo:           family.String(),
			Signature:          signature,
		}
		canonical, err := tu.Index.Announce(sym)
		if err != nil {
			tu.Diags.Report(diagnostics.ConditionalAlgebra(file, nameTok.Location, err.Error()))
			continue
		}
		canonical.Definitions = append(canonical.Definitions, symtab.Site{
			Condition: leaf.Conditions(), Location: nameTok.Location, Adducer: "#define", Text: body, HasBody: true,
		})
	}
}

// includeDirective handles `#include "file"` / `#include <file>`,
// recording an include-family symbol per SPEC_FULL.md §3's supplemental
// family (cross-file resolution itself remains a Non-goal).
func (tu *TranslationUnit) includeDirective(file string, toks []lex.Token, loc lex.Location) {
	if len(toks) == 0 {
		return
	}
	var name, raw string
	if toks[0].Kind == lex.KindString {
		raw = toks[0].Text
		name = strings.Trim(raw, "\"")
	} else {
		raw = renderTokens(toks)
		name = strings.Trim(strings.ReplaceAll(raw, " ", ""), "<>")
	}
	if name == "" {
		return
	}

	for _, leaf := range tu.Root.ActiveBranches() {
		sym := &symtab.Symbol{
			Namespace:          symtab.NamespaceInclude,
			Identifier:         name,
			Family:             symtab.FamilyInclude,
			ExistenceCondition: leaf.Conditions(),
			TypeInfo:           "include",
			Signature:          "#include " + raw,
		}
		canonical, err := tu.Index.Announce(sym)
		if err != nil {
			tu.Diags.Report(diagnostics.ConditionalAlgebra(file, loc, err.Error()))
			continue
		}
		canonical.Declarations = append(canonical.Declarations, symtab.Site{
			Condition: leaf.Conditions(), Location: loc, Adducer: "#include",
		})
	}

	for _, f := range tu.IncludedFiles {
		if f == name {
			return
		}
	}
	tu.IncludedFiles = append(tu.IncludedFiles, name)
}
