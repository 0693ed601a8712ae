package parser

import (
	"strings"

	"ccforest/internal/branch"
	"ccforest/internal/diagnostics"
	"ccforest/internal/lex"
	"ccforest/internal/scope"
	"ccforest/internal/symtab"
)

// walker drives one active leaf through one non-directive logical
// line's tokens, accumulating an ArisingSpecification on the leaf's
// scope stack per spec.md §4.6 and finalizing it into the symbol index
// at statement boundaries. Declaration recognition only begins once a
// storage-class/type/qualifier keyword is seen, so plain statements and
// expressions inside function bodies (`return x;`, `foo(y);`) are left
// untouched rather than misparsed as declarations.
type walker struct {
	tu   *TranslationUnit
	leaf *branch.Branch
	file string
	toks []lex.Token
	pos  int
}

func (w *walker) run() {
	for w.pos < len(w.toks) {
		t := w.toks[w.pos]
		w.tu.recordToken(w.leaf, t)
		switch {
		case t.Kind == lex.KindLineComment || t.Kind == lex.KindBlockComment:
			w.pos++
		case t.Kind == lex.KindIdentifier && w.isLabelStart():
			w.pos += 2 // identifier, ':'
			w.onLabel(t)
		case t.Kind == lex.KindPunctuator && t.Text == ";":
			w.pos++
			w.onSemicolon()
		case t.Kind == lex.KindPunctuator && t.Text == "{":
			w.pos++
			w.onOpenBrace(t)
		case t.Kind == lex.KindPunctuator && t.Text == "}":
			w.pos++
			w.onCloseBrace()
		case t.Kind == lex.KindPunctuator && t.Text == "(":
			w.pos++
			w.onOpenParen(t)
		case t.Kind == lex.KindPunctuator && t.Text == ")":
			w.pos++
			w.onCloseParen(t)
		case t.Kind == lex.KindPunctuator && t.Text == ",":
			w.pos++
			w.onComma()
		default:
			w.pos++
			w.onToken(t)
		}
	}
}

func (w *walker) isLabelStart() bool {
	top := w.leaf.Scopes.Current()
	if top.Kind != scope.KindFunction && top.Kind != scope.KindCompoundStatement {
		return false
	}
	t := w.toks[w.pos]
	if t.Text == "default" {
		return false
	}
	if w.pos+1 >= len(w.toks) {
		return false
	}
	next := w.toks[w.pos+1]
	return next.Kind == lex.KindOperator && next.Text == ":"
}

func (w *walker) onLabel(t lex.Token) {
	sym := &symtab.Symbol{
		Namespace:          symtab.NamespaceLabel,
		Identifier:         t.Text,
		Family:             symtab.FamilyLabel,
		ExistenceCondition: w.leaf.Conditions(),
		TypeInfo:           "label",
		Signature:          t.Text + ":",
	}
	canonical, err := w.tu.Index.Announce(sym)
	if err != nil {
		w.tu.Diags.Report(diagnostics.ConditionalAlgebra(w.file, t.Location, err.Error()))
		return
	}
	canonical.Declarations = append(canonical.Declarations, symtab.Site{Condition: w.leaf.Conditions(), Location: t.Location, Adducer: "label"})
}

// onToken handles ordinary specifier/declarator tokens (identifiers,
// `*`, array brackets, keywords) that belong to a declaration already
// in progress, or opens a fresh ArisingSpecification when a keyword
// starts a new one (spec.md §4.6).
func (w *walker) onToken(t lex.Token) {
	top := w.leaf.Scopes.Current()
	switch top.Kind {
	case scope.KindArisingSpecification, scope.KindFunctionSignature, scope.KindInitializer:
		w.leaf.Pending.Push(t)
	default:
		if isDeclarationKeyword(t.Text) {
			frame := scope.NewArisingFrame()
			frame.Arising.StartToken = t
			w.leaf.Scopes.Enter(frame)
			w.leaf.Pending.Push(t)
		}
	}
}

func (w *walker) onOpenParen(t lex.Token) {
	top := w.leaf.Scopes.Current()
	if top.Kind != scope.KindArisingSpecification {
		return
	}
	run := w.flushPending()
	classifyDeclaratorRun(top.Arising, run)
	if top.Arising.Identifier == "" {
		// A parenthesized initializer-like construct we don't model
		// (e.g. a function-style macro invocation used as an
		// initializer); leave declarator state untouched.
		return
	}
	top.Arising.IsFunction = true
	fs := scope.NewFunctionSignatureFrame()
	fs.Signature.OpenParen = &t
	top.Arising.FuncSig = fs.Signature
	w.leaf.Scopes.Enter(fs)
}

func (w *walker) onCloseParen(t lex.Token) {
	top := w.leaf.Scopes.Current()
	if top.Kind != scope.KindFunctionSignature {
		return
	}
	run := w.flushPending()
	addParamFromRun(top.Signature, run)
	top.Signature.CloseParen = &t
	w.leaf.Scopes.Leave()
}

func (w *walker) onComma() {
	top := w.leaf.Scopes.Current()
	switch top.Kind {
	case scope.KindFunctionSignature:
		run := w.flushPending()
		addParamFromRun(top.Signature, run)
	case scope.KindArisingSpecification:
		run := w.flushPending()
		classifyDeclaratorRun(top.Arising, run)
		w.finalizeDeclaration(top.Arising, false, "declaration")
		top.Arising.Identifier = ""
		top.Arising.Declarators = nil
		top.Arising.IsFunction = false
		top.Arising.FuncSig = nil
	}
}

func (w *walker) onOpenBrace(t lex.Token) {
	top := w.leaf.Scopes.Current()
	switch top.Kind {
	case scope.KindArisingSpecification:
		run := w.flushPending()
		classifyDeclaratorRun(top.Arising, run)
		switch {
		case top.Arising.IsFunction && top.Arising.FuncSig != nil && top.Arising.FuncSig.Complete():
			w.finalizeDeclaration(top.Arising, true, "function-body")
			w.leaf.Scopes.Leave()
			w.leaf.Scopes.Enter(scope.NewFunctionFrame(top.Arising.Identifier))
			w.leaf.Scopes.Enter(scope.NewCompoundStatementFrame())
		case top.Arising.TagKind != "" && top.Arising.Identifier == "":
			w.finalizeDeclaration(top.Arising, true, "tag-body")
			w.leaf.Scopes.Enter(scope.NewCompoundStatementFrame())
		default:
			w.leaf.Scopes.Enter(scope.NewInitializerFrame())
		}
	default:
		w.leaf.Scopes.Enter(scope.NewCompoundStatementFrame())
	}
}

func (w *walker) onCloseBrace() {
	popped := w.leaf.Scopes.Leave()
	if popped == nil {
		return
	}
	if popped.Kind == scope.KindCompoundStatement {
		if newTop := w.leaf.Scopes.Current(); newTop.Kind == scope.KindFunction {
			w.leaf.Scopes.Leave()
		}
	}
}

func (w *walker) onSemicolon() {
	top := w.leaf.Scopes.Current()
	if top.Kind != scope.KindArisingSpecification {
		w.leaf.Pending.Clear()
		return
	}
	run := w.flushPending()
	classifyDeclaratorRun(top.Arising, run)
	w.finalizeDeclaration(top.Arising, false, "declaration")
	w.leaf.Scopes.Leave()
}

func (w *walker) flushPending() []lex.Token {
	run := append([]lex.Token{}, w.leaf.Pending.Tokens()...)
	w.leaf.Pending.Clear()
	return run
}

// classifyDeclaratorRun resolves a buffered run of tokens — storage
// class, qualifiers, optional tag keyword and tag name, type
// specifiers, pointer stars, and (if present) the declared identifier —
// into the fields of an in-progress ArisingSpecification, per spec.md
// §4.6's "accumulates storage-class, qualifiers, type specifiers,
// declarator chain... and identifier."
func classifyDeclaratorRun(arising *scope.ArisingSpecification, run []lex.Token) {
	var nonStars []lex.Token
	for _, t := range run {
		if t.Kind == lex.KindOperator && t.Text == "*" {
			arising.Declarators = append(arising.Declarators, scope.Declarator{Kind: scope.DeclaratorPointer})
			continue
		}
		nonStars = append(nonStars, t)
	}

	idx := 0
	for idx < len(nonStars) {
		text := nonStars[idx].Text
		if storageClassKeywords[text] {
			arising.StorageClass = text
			idx++
			continue
		}
		if qualifierKeywords[text] {
			arising.Qualifiers = append(arising.Qualifiers, text)
			idx++
			continue
		}
		break
	}

	rest := nonStars[idx:]
	if len(rest) == 0 {
		return
	}
	if tagKeywords[rest[0].Text] && arising.TagKind == "" {
		arising.TagKind = rest[0].Text
		rest = rest[1:]
		if len(rest) > 0 && rest[0].Kind == lex.KindIdentifier && arising.TagName == "" {
			arising.TagName = rest[0].Text
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return
	}

	last := rest[len(rest)-1]
	if last.Kind == lex.KindIdentifier {
		arising.Identifier = last.Text
		rest = rest[:len(rest)-1]
	}
	for _, t := range rest {
		arising.TypeSpecifiers = append(arising.TypeSpecifiers, t.Text)
	}
}

// addParamFromRun classifies one parameter run (storage class,
// pointer(s), type specifiers, name) and records it on a function
// signature under construction, per spec.md §4.7.
func addParamFromRun(fs *scope.FunctionSignature, run []lex.Token) {
	if len(run) == 0 {
		return
	}
	tmp := &scope.ArisingSpecification{}
	classifyDeclaratorRun(tmp, run)
	typeText := renderTypeSpecifiers(tmp)
	fs.AddParam(typeText, tmp.Identifier, tmp.StorageClass)
	if len(run) == 1 && run[0].Text == "void" {
		// `f(void)` declares no parameters; AddParam already recorded
		// a single synthetic entry above, which is harmless for
		// signature rendering purposes.
	}
	if len(run) == 3 && run[len(run)-1].Text == "..." {
		fs.IsVariadic = true
	}
}

func renderTypeSpecifiers(arising *scope.ArisingSpecification) string {
	parts := append([]string{}, arising.Qualifiers...)
	if arising.TagKind != "" {
		parts = append(parts, arising.TagKind)
		if arising.TagName != "" {
			parts = append(parts, arising.TagName)
		}
	}
	parts = append(parts, arising.TypeSpecifiers...)
	text := strings.Join(parts, " ")
	for _, d := range arising.Declarators {
		if d.Kind == scope.DeclaratorPointer {
			text += "*"
		}
	}
	return text
}

func buildSignature(arising *scope.ArisingSpecification, identifier string) string {
	text := renderTypeSpecifiers(arising)
	if text != "" {
		text += " "
	}
	text += identifier
	if arising.IsFunction && arising.FuncSig != nil {
		params := make([]string, 0, len(arising.FuncSig.Params))
		for _, p := range arising.FuncSig.Params {
			ptext := p.Type
			if p.Name != "" {
				ptext += " " + p.Name
			}
			params = append(params, ptext)
		}
		text += "(" + strings.Join(params, ", ") + ")"
	}
	return text
}

func determineLinkage(leaf *branch.Branch, arising *scope.ArisingSpecification) symtab.Linkage {
	if _, inFunc := leaf.Scopes.InFunction(); inFunc {
		return symtab.LinkageNone
	}
	switch arising.StorageClass {
	case "static":
		return symtab.LinkageIntern
	case "extern":
		return symtab.LinkageExtern
	case "typedef":
		return symtab.LinkageTypedefNameOnly
	default:
		return symtab.LinkageExtern
	}
}

// finalizeDeclaration determines the symbol's family and linkage per
// spec.md §4.6, constructs it, and submits it to the symbol index.
func (w *walker) finalizeDeclaration(arising *scope.ArisingSpecification, hasBody bool, adducer string) {
	var fam symtab.Family
	var identifier string

	switch {
	case arising.TagKind != "" && arising.Identifier == "":
		identifier = arising.TagName
		if identifier == "" {
			return
		}
		switch arising.TagKind {
		case "struct":
			fam = symtab.FamilyTagStruct
		case "union":
			fam = symtab.FamilyTagUnion
		case "enum":
			fam = symtab.FamilyTagEnum
		}
	case arising.StorageClass == "typedef":
		if arising.Identifier == "" {
			return
		}
		identifier = arising.Identifier
		fam = symtab.FamilyTypedef
	case arising.IsFunction:
		if arising.Identifier == "" {
			return
		}
		identifier = arising.Identifier
		fam = symtab.FamilyFunction
	default:
		if arising.Identifier == "" {
			return
		}
		identifier = arising.Identifier
		fam = symtab.FamilyVariable
	}

	linkage := determineLinkage(w.leaf, arising)
	if arising.StorageClass == "typedef" {
		linkage = symtab.LinkageTypedefNameOnly
	}

	sym := &symtab.Symbol{
		Namespace:          fam.Namespace(),
		Identifier:         identifier,
		Family:             fam,
		ExistenceCondition: w.leaf.Conditions(),
		Linkage:            linkage,
		StorageClass:       arising.StorageClass,
		TypeInfo:           renderTypeSpecifiers(arising),
		Signature:          buildSignature(arising, identifier),
	}
	canonical, err := w.tu.Index.Announce(sym)
	if err != nil {
		w.tu.Diags.Report(diagnostics.ConditionalAlgebra(w.file, arising.StartToken.Location, err.Error()))
		return
	}
	site := symtab.Site{
		Condition: w.leaf.Conditions(),
		Location:  arising.StartToken.Location,
		Adducer:   adducer,
		Text:      sym.Signature,
		HasBody:   hasBody,
	}
	if hasBody {
		canonical.Definitions = append(canonical.Definitions, site)
	} else {
		canonical.Declarations = append(canonical.Declarations, site)
	}
}
