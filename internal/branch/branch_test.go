package branch

import (
	"testing"

	"ccforest/internal/cond"
	"ccforest/internal/lex"
)

func TestForkInheritsConditionsAndCopies(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))

	root := NewRoot()
	root.Pending.Push()
	child := root.Fork(a, Adducer{Kind: "directive", Description: "#ifdef A"})

	if !child.Conditions().Equivalent(a) {
		t.Errorf("child conditions = %s, want equivalent to %s", child.Conditions(), a)
	}
	if child.Pending == root.Pending {
		t.Errorf("child pending buffer must be an independent copy")
	}
	if child.Scopes == root.Scopes {
		t.Errorf("child scope stack must be an independent copy")
	}
	if !root.HasLiveForks() {
		t.Errorf("root should report live forks once a fork is active")
	}
}

func TestActiveBranchesExcludesParentWithLiveForks(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	notA := cond.Complement(a)

	root := NewRoot()
	thenBranch := root.Fork(a, Adducer{Kind: "directive"})
	elseBranch := root.Fork(notA, Adducer{Kind: "directive"})

	got := root.ActiveBranches()
	if len(got) != 2 {
		t.Fatalf("expected 2 active branches, got %d", len(got))
	}
	found := map[*Branch]bool{}
	for _, b := range got {
		found[b] = true
	}
	if !found[thenBranch] || !found[elseBranch] {
		t.Errorf("expected both forks to be reported active, root itself must not be")
	}
}

func TestTryJoinMergesIdenticalStateIntoDisjunction(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	notA := cond.Complement(a)

	root := NewRoot()
	thenBranch := root.Fork(a, Adducer{Kind: "directive"})
	elseBranch := root.Fork(notA, Adducer{Kind: "directive"})

	if !thenBranch.JoinPossible(elseBranch) {
		t.Fatalf("expected join to be possible: both branches are empty and idle")
	}

	joint, ok := thenBranch.TryJoin(elseBranch)
	if !ok {
		t.Fatalf("expected TryJoin to succeed")
	}
	want := cond.Disjunction(a, notA)
	if !joint.Conditions().Equivalent(want) {
		t.Errorf("joint conditions = %s, want equivalent to %s", joint.Conditions(), want)
	}
	if thenBranch.Active() || elseBranch.Active() {
		t.Errorf("both original branches should be deactivated after a join")
	}
}

func TestJoinNotPossibleWhenPendingTokensDiffer(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	notA := cond.Complement(a)

	root := NewRoot()
	thenBranch := root.Fork(a, Adducer{Kind: "directive"})
	elseBranch := root.Fork(notA, Adducer{Kind: "directive"})

	thenBranch.Pending.Push(lex.Token{Kind: lex.KindIdentifier, Text: "x"})

	if thenBranch.JoinPossible(elseBranch) {
		t.Errorf("expected join to be impossible once pending tokens diverge")
	}
}

func TestConsolidateJoinsReconciledSiblingsAndReportsRecords(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	notA := cond.Complement(a)

	root := NewRoot()
	thenBranch := root.Fork(a, Adducer{Kind: "directive", Description: "#ifdef A"})
	elseBranch := root.Fork(notA, Adducer{Kind: "directive", Description: "#else"})

	progress, joins := root.Consolidate()
	if !progress {
		t.Fatalf("expected Consolidate to report progress")
	}
	if len(joins) != 1 {
		t.Fatalf("expected exactly one join record, got %d", len(joins))
	}
	if joins[0].First != thenBranch.ID || joins[0].Second != elseBranch.ID {
		t.Errorf("join record = %+v, want First=%s Second=%s", joins[0], thenBranch.ID, elseBranch.ID)
	}
	if !root.Active() {
		t.Errorf("root should be active again after its forks reconciled and were absorbed")
	}
	if len(root.Forks) != 0 {
		t.Errorf("root.Forks should be empty once the sole joint fork is absorbed, got %d", len(root.Forks))
	}
}

func TestConsolidateNoProgressWhenForksStillDiverge(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))
	notA := cond.Complement(a)

	root := NewRoot()
	thenBranch := root.Fork(a, Adducer{Kind: "directive"})
	root.Fork(notA, Adducer{Kind: "directive"})
	// The forks' pending buffers differ, so JoinPossible is false for the pair.
	thenBranch.Pending.Push(lex.Token{Kind: lex.KindIdentifier, Text: "x"})

	progress, joins := root.Consolidate()
	if progress {
		t.Errorf("expected no progress while the forks' parser state still diverges")
	}
	if len(joins) != 0 {
		t.Errorf("expected no join records, got %d", len(joins))
	}
}

func TestTryJoinForksAbsorbsSoleEquivalentFork(t *testing.T) {
	u := cond.NewUniverse()
	a := cond.FromAtom(u.Defined("A"))

	root := NewRoot()
	// A || !A is equivalent to the root's own branching condition, true.
	only := root.Fork(cond.Disjunction(a, cond.Complement(a)), Adducer{Kind: "directive"})
	root.Deactivate()

	if !root.TryJoinForks() {
		t.Fatalf("expected sole equivalent fork to be absorbed")
	}
	if !root.Active() {
		t.Errorf("root should become active again after absorbing its only fork")
	}
	if only.Active() {
		t.Errorf("absorbed fork should be deactivated")
	}
	if len(root.Forks) != 0 {
		t.Errorf("root.Forks should be cleared after absorption")
	}
}
