// Package parser implements the parser driver (C8) of spec.md §4.8: it
// feeds logical lines to the active compilation branches, translates
// preprocessor conditionals into fork/join operations on the branch
// tree, and drives declarations toward the symbol index.
package parser

import (
	"io"

	"ccforest/internal/branch"
	"ccforest/internal/cond"
	"ccforest/internal/diagnostics"
	"ccforest/internal/lex"
	"ccforest/internal/symtab"
	"ccforest/internal/track"
)

// TokenRecord names one literal or comment token encountered while
// parsing, tagged with the branch condition under which it was lexed —
// the raw material for `ls --literal`/`ls --comment`, per SPEC_FULL.md
// §6.1's literal/comment listing operations.
type TokenRecord struct {
	Kind      lex.Kind
	Text      string
	Condition cond.Condition
	Location  lex.Location
}

// conditionalEntry tracks one lineage's progress through an open
// #if/#elif/#else/#endif group: the branch active before the directive
// opened (now deactivated and holding forks), the most recent fork
// representing "so far", and the disjunction of every condition opened
// for this conditional on this lineage (spec.md §4.8's
// "collected_conditions").
type conditionalEntry struct {
	parent    *branch.Branch
	current   *branch.Branch
	collected cond.Condition
}

type conditionalGroup struct {
	entries []*conditionalEntry
}

// TranslationUnit is the root of the scope stack and owns the symbol
// index, per spec.md §3.
type TranslationUnit struct {
	MainFile      string
	IncludedFiles []string

	Universe *cond.Universe
	Index    *symtab.Index
	Root     *branch.Branch
	Track    *track.Recorder
	Diags    *diagnostics.Sink

	Literals []TokenRecord
	Comments []TokenRecord

	condStack []*conditionalGroup
}

// recordToken appends t to Literals or Comments if it is one of the
// kinds `ls --literal`/`ls --comment` lists, tagged with leaf's current
// existence condition.
func (tu *TranslationUnit) recordToken(leaf *branch.Branch, t lex.Token) {
	switch t.Kind {
	case lex.KindString, lex.KindChar, lex.KindInteger, lex.KindFloat:
		tu.Literals = append(tu.Literals, TokenRecord{Kind: t.Kind, Text: t.Text, Condition: leaf.Conditions(), Location: t.Location})
	case lex.KindLineComment, lex.KindBlockComment:
		tu.Comments = append(tu.Comments, TokenRecord{Kind: t.Kind, Text: t.Text, Condition: leaf.Conditions(), Location: t.Location})
	}
}

// New creates an empty TranslationUnit rooted at mainFile.
func New(mainFile string) *TranslationUnit {
	return &TranslationUnit{
		MainFile: mainFile,
		Universe: cond.NewUniverse(),
		Index:    symtab.NewIndex(),
		Root:     branch.NewRoot(),
		Diags:    diagnostics.NewSink(io.Discard),
	}
}

// Parse tokenizes content and drives it through the branch tree,
// forking on conditionals and dispatching declarations to whichever
// leaves are active when each logical line is reached, per spec.md
// §4.8.
func (tu *TranslationUnit) Parse(file, content string) error {
	lx := lex.NewLexer(content)
	for {
		ll, err := lx.NextLogicalLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		tu.pursueLine(file, ll)
		tu.consolidateToFixedPoint()
	}
	return nil
}

func (tu *TranslationUnit) pursueLine(file string, ll *lex.LogicalLine) {
	if ll.IsDirective() {
		tu.pursueDirective(file, ll)
		return
	}
	for _, leaf := range tu.Root.ActiveBranches() {
		w := &walker{tu: tu, leaf: leaf, file: file, toks: ll.Tokens}
		w.run()
		if tu.Track != nil {
			tu.Track.LogicLinePursue(leaf.ID, ll.Text())
		}
	}
}

// consolidateToFixedPoint repeatedly invokes the branch tree's
// consolidator until a pass makes no further progress, per spec.md
// §4.8's "after each line, the driver invokes consolidate_branches on
// the root until it returns no progress."
func (tu *TranslationUnit) consolidateToFixedPoint() {
	for {
		progress, joins := tu.Root.Consolidate()
		if tu.Track != nil {
			for _, j := range joins {
				switch j.Kind {
				case branch.JoinForksAbsorb:
					tu.Track.JoinForks(j.First, j.Into)
					tu.Track.Activate(j.Into)
				default:
					tu.Track.Join(j.First, j.Second, j.Into)
				}
			}
		}
		if !progress {
			return
		}
	}
}

func identifierText(toks []lex.Token) string {
	for _, t := range toks {
		if t.Kind == lex.KindIdentifier {
			return t.Text
		}
	}
	return ""
}

func (tu *TranslationUnit) pursueDirective(file string, ll *lex.LogicalLine) {
	toks := ll.Tokens
	if len(toks) < 2 {
		return
	}
	name := toks[1]
	args := toks[2:]

	switch name.Text {
	case "if":
		tu.openConditional(file, ParseIfExpression(args, tu.Universe))
	case "ifdef":
		tu.openConditional(file, ParseIfdef(identifierText(args), tu.Universe))
	case "ifndef":
		tu.openConditional(file, ParseIfndef(identifierText(args), tu.Universe))
	case "elif":
		tu.elifConditional(file, ParseIfExpression(args, tu.Universe))
	case "else":
		tu.elseConditional(file)
	case "endif":
		tu.endifConditional(file)
	case "define":
		tu.defineMacro(file, args)
	case "include":
		tu.includeDirective(file, args, name.Location)
	default:
		// #undef, #pragma, #error, #warning, #line: consumed, no symbol
		// or branch effect.
	}
}

func (tu *TranslationUnit) openConditional(file string, c cond.Condition) {
	group := &conditionalGroup{}
	for _, leaf := range tu.Root.ActiveBranches() {
		leaf.Deactivate()
		if tu.Track != nil {
			tu.Track.Deactivate(leaf.ID)
		}
		child := leaf.Fork(c, branch.Adducer{Kind: "directive", Description: "#if"})
		if tu.Track != nil {
			tu.Track.Fork(leaf.ID, child.ID, c.String())
		}
		group.entries = append(group.entries, &conditionalEntry{parent: leaf, current: child, collected: c})
	}
	tu.condStack = append(tu.condStack, group)
}

func (tu *TranslationUnit) topGroup() *conditionalGroup {
	if len(tu.condStack) == 0 {
		return nil
	}
	return tu.condStack[len(tu.condStack)-1]
}

func (tu *TranslationUnit) elifConditional(file string, base cond.Condition) {
	group := tu.topGroup()
	if group == nil {
		tu.Diags.Report(diagnostics.Structural(file, lex.Location{}, "#elif with no open #if"))
		return
	}
	for _, e := range group.entries {
		e.current.Deactivate()
		if tu.Track != nil {
			tu.Track.Deactivate(e.current.ID)
		}
		newCond := cond.Conjunction(base, cond.Complement(e.collected))
		child := e.parent.Fork(newCond, branch.Adducer{Kind: "directive", Description: "#elif"})
		if tu.Track != nil {
			tu.Track.Fork(e.parent.ID, child.ID, newCond.String())
		}
		e.collected = cond.Disjunction(e.collected, newCond)
		e.current = child
	}
}

func (tu *TranslationUnit) elseConditional(file string) {
	group := tu.topGroup()
	if group == nil {
		tu.Diags.Report(diagnostics.Structural(file, lex.Location{}, "#else with no open #if"))
		return
	}
	for _, e := range group.entries {
		e.current.Deactivate()
		if tu.Track != nil {
			tu.Track.Deactivate(e.current.ID)
		}
		newCond := cond.Complement(e.collected)
		child := e.parent.Fork(newCond, branch.Adducer{Kind: "directive", Description: "#else"})
		if tu.Track != nil {
			tu.Track.Fork(e.parent.ID, child.ID, newCond.String())
		}
		e.collected = cond.Disjunction(e.collected, newCond)
		e.current = child
	}
}

func (tu *TranslationUnit) endifConditional(file string) {
	if len(tu.condStack) == 0 {
		tu.Diags.Report(diagnostics.Structural(file, lex.Location{}, "#endif with no open #if"))
		return
	}
	tu.condStack = tu.condStack[:len(tu.condStack)-1]
}
