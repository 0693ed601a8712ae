package symtab

import (
	"testing"

	"ccforest/internal/cond"
)

func sym(identifier string, c cond.Condition, sig string) *Symbol {
	return &Symbol{
		Namespace:          NamespaceOrdinary,
		Identifier:         identifier,
		Family:             FamilyVariable,
		ExistenceCondition: c,
		TypeInfo:           "int",
		Signature:          sig,
	}
}

func TestDuplicateDeclarationsUnderSameConditionDedupe(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))

	idx := NewIndex()
	first, err := idx.Announce(sym("x", a, "int x"))
	if err != nil {
		t.Fatalf("first announce: %v", err)
	}
	second, err := idx.Announce(sym("x", a, "int x"))
	if err != nil {
		t.Fatalf("second announce: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same canonical symbol back")
	}
	if !second.ExistenceCondition.Equivalent(a) {
		t.Errorf("condition = %s, want equivalent to %s (not A||A unreduced)", second.ExistenceCondition, a)
	}
	if len(idx.All()) != 1 {
		t.Errorf("expected exactly one symbol in the index, got %d", len(idx.All()))
	}
}

func TestIfElifWidensToDisjunction(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	b := cond.FromAtom(u.Defined("B"))
	elifCond := cond.Conjunction(b, cond.ComplementOfAll([]cond.Condition{a}))

	idx := NewIndex()
	if _, err := idx.Announce(sym("x", a, "int x")); err != nil {
		t.Fatalf("announce under A: %v", err)
	}
	got, err := idx.Announce(sym("x", elifCond, "int x"))
	if err != nil {
		t.Fatalf("announce under elif: %v", err)
	}

	want := cond.Disjunction(a, elifCond)
	if !got.ExistenceCondition.Equivalent(want) {
		t.Errorf("condition = %s, want equivalent to %s", got.ExistenceCondition, want)
	}
}

func TestConflictingSymbolsAcrossIfElse(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	notA := cond.Complement(a)

	idx := NewIndex()
	if _, err := idx.Announce(sym("x", a, "int x")); err != nil {
		t.Fatalf("announce under A: %v", err)
	}

	other := sym("x", notA, "float x")
	other.TypeInfo = "float"
	if _, err := idx.Announce(other); err == nil {
		t.Fatalf("expected a conflicting-symbols error for int x vs float x")
	}
}

func TestSubsumptionKeepsCanonicalSymbol(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	b := cond.FromAtom(u.Defined("B"))
	narrower := cond.Conjunction(a, b)

	idx := NewIndex()
	if _, err := idx.Announce(sym("x", narrower, "int x")); err != nil {
		t.Fatalf("announce under A&&B: %v", err)
	}
	canonical, err := idx.Announce(sym("x", a, "int x"))
	if err != nil {
		t.Fatalf("announce under A: %v", err)
	}
	if len(idx.All()) != 1 {
		t.Errorf("expected subsumption to avoid a second entry, got %d entries", len(idx.All()))
	}
	_ = canonical
}
