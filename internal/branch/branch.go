// Package branch implements the compilation branch fork/join state
// machine (C5) and the branch-tree consolidator (C6) of spec.md §4.4.
package branch

import (
	"fmt"

	"ccforest/internal/cond"
	"ccforest/internal/scope"
)

// TokenRequester is satisfied by whatever in-progress code element is
// temporarily absorbing tokens instead of letting them drive the normal
// parser state machine (spec.md §3's "Token requester"). The parser
// package supplies concrete implementations (e.g. a macro replacement
// list collector); branch only needs identity and equality for join
// comparisons.
type TokenRequester interface {
	// RequesterKey identifies the requester's *kind and progress* so
	// two independent requesters that have collected the same tokens
	// compare equal for join purposes.
	RequesterKey() string
}

// Adducer is the code element whose parsing caused a branch to be
// created or joined, kept for diagnostics and the visualizer, per
// spec.md's Glossary.
type Adducer struct {
	Kind        string // "directive", "join"
	Description string
}

// Branch is one node of the branch tree, per spec.md §3/§4.4.
type Branch struct {
	ID                 string
	Parent             *Branch
	BranchingCondition cond.Condition
	conditions         cond.Condition
	Forks              []*Branch
	AdducerInfo        Adducer

	Pending   *scope.PendingBuffer
	Scopes    *scope.Stack
	Requester TokenRequester

	active bool
}

// NewRoot creates the root branch of a translation unit: active, with
// branching condition ⊤, per spec.md §3's invariant "the root's
// branching_condition is ⊤".
func NewRoot() *Branch {
	b := &Branch{
		ID:                 "*",
		BranchingCondition: cond.True(),
		Pending:            &scope.PendingBuffer{},
		Scopes:             scope.NewStack(),
		active:             true,
	}
	b.conditions = cond.True()
	return b
}

// Conditions returns the conjunction of all ancestor conditions with this
// branch's own branching condition, per spec.md §3's invariant.
func (b *Branch) Conditions() cond.Condition {
	return b.conditions
}

// Active reports whether the branch is in the active state.
func (b *Branch) Active() bool {
	return b.active
}

// Deactivate transitions active → inactive, per spec.md §4.4.
func (b *Branch) Deactivate() {
	b.active = false
}

// Activate transitions inactive → active, per spec.md §4.4.
func (b *Branch) Activate() {
	b.active = true
}

// Fork creates a new child branch gated by branchingCondition, appends it
// to Forks, and returns it. The child inherits shallow copies of the
// pending buffer and scope stack per spec.md §4.3's mutability rule.
func (b *Branch) Fork(branchingCondition cond.Condition, adducer Adducer) *Branch {
	child := &Branch{
		ID:                 fmt.Sprintf("%s:%d", b.ID, len(b.Forks)),
		Parent:             b,
		BranchingCondition: branchingCondition,
		conditions:         cond.Conjunction(b.conditions, branchingCondition),
		Pending:            b.Pending.ShallowCopy(),
		Scopes:             b.Scopes.ShallowCopy(),
		Requester:          b.Requester,
		AdducerInfo:        adducer,
		active:             true,
	}
	b.Forks = append(b.Forks, child)
	return child
}

// HasLiveForks reports whether any direct fork of this branch is active
// or itself has live forks — the "has-forks" mode of spec.md §4.4 that
// suspends a parent's own token consumption.
func (b *Branch) HasLiveForks() bool {
	for _, f := range b.Forks {
		if f.active || f.HasLiveForks() {
			return true
		}
	}
	return false
}

// ActiveBranches returns every active leaf of the subtree rooted at b:
// the set that actually consumes tokens, per spec.md §4.4.
func (b *Branch) ActiveBranches() []*Branch {
	if !b.HasLiveForks() {
		if b.active {
			return []*Branch{b}
		}
		return nil
	}
	var out []*Branch
	for _, f := range b.Forks {
		out = append(out, f.ActiveBranches()...)
	}
	return out
}

func requesterKey(r TokenRequester) string {
	if r == nil {
		return ""
	}
	return r.RequesterKey()
}

// JoinPossible reports whether self and other may be merged: both
// active, neither with live sub-forks, and their (pending_tokens,
// scope_stack, token_requester) triples compare equal, per spec.md §4.4.
func (b *Branch) JoinPossible(other *Branch) bool {
	if !b.active || !other.active {
		return false
	}
	if b.HasLiveForks() || other.HasLiveForks() {
		return false
	}
	if !b.Pending.Equal(other.Pending) {
		return false
	}
	if !b.Scopes.Equal(other.Scopes) {
		return false
	}
	return requesterKey(b.Requester) == requesterKey(other.Requester)
}

// TryJoin attempts to merge self and other into a new sibling branch
// whose parent is self.Parent and whose branching condition is the
// disjunction of both, per spec.md §4.4. Returns (joint, true) on
// success, (nil, false) if JoinPossible is false.
func (b *Branch) TryJoin(other *Branch) (*Branch, bool) {
	if !b.JoinPossible(other) {
		return nil, false
	}
	joinedCondition := cond.Disjunction(b.BranchingCondition, other.BranchingCondition)
	joint := &Branch{
		ID:                 b.ID + "+",
		Parent:             b.Parent,
		BranchingCondition: joinedCondition,
		Pending:            b.Pending,
		Scopes:             b.Scopes,
		Requester:          b.Requester,
		AdducerInfo:        Adducer{Kind: "join", Description: fmt.Sprintf("join(%s,%s)", b.ID, other.ID)},
		active:             true,
	}
	if b.Parent != nil {
		joint.conditions = cond.Conjunction(b.Parent.conditions, joinedCondition)
	} else {
		joint.conditions = joinedCondition
	}
	b.Deactivate()
	other.Deactivate()
	return joint, true
}

// JoinEventKind distinguishes the two ways Consolidate merges branches,
// so a caller emitting track events can pick the matching event kind.
type JoinEventKind int

const (
	// JoinTwoWay is two active sibling forks merging into a new sibling,
	// per spec.md §4.4's TryJoin.
	JoinTwoWay JoinEventKind = iota
	// JoinForksAbsorb is a single remaining fork's progress being
	// absorbed back into its parent, which reactivates the parent, per
	// spec.md §4.4's TryJoinForks.
	JoinForksAbsorb
)

// JoinRecord names one successful join, reported to the caller so an
// observer (spec.md C9) can emit a matching event without the branch
// package depending on the track package. For a JoinForksAbsorb record,
// First is the absorbed fork's ID and Second is empty.
type JoinRecord struct {
	Kind          JoinEventKind
	First, Second string
	Into          string
}

// Consolidate recursively joins reconciled sibling forks bottom-up and
// absorbs sole remaining equivalent forks, per spec.md §4.4's
// `consolidate_branches`. Returns whether any join occurred (so the
// driver can iterate to a fixed point) and a record of each join for
// the branch-track recorder.
func (b *Branch) Consolidate() (bool, []JoinRecord) {
	progress := false
	var joins []JoinRecord

	for _, f := range b.Forks {
		childProgress, childJoins := f.Consolidate()
		if childProgress {
			progress = true
			joins = append(joins, childJoins...)
		}
	}

	for {
		joinedThisPass := false
		for i := 0; i < len(b.Forks) && !joinedThisPass; i++ {
			for j := i + 1; j < len(b.Forks); j++ {
				a, c := b.Forks[i], b.Forks[j]
				if !a.JoinPossible(c) {
					continue
				}
				joint, ok := a.TryJoin(c)
				if !ok {
					continue
				}
				b.Forks = removeForks(b.Forks, i, j)
				b.Forks = append(b.Forks, joint)
				joins = append(joins, JoinRecord{First: a.ID, Second: c.ID, Into: joint.ID})
				progress = true
				joinedThisPass = true
				break
			}
		}
		if !joinedThisPass {
			break
		}
	}

	if len(b.Forks) == 1 {
		fromID := b.Forks[0].ID
		if b.TryJoinForks() {
			progress = true
			joins = append(joins, JoinRecord{Kind: JoinForksAbsorb, First: fromID, Into: b.ID})
		}
	}

	return progress, joins
}

func removeForks(forks []*Branch, i, j int) []*Branch {
	out := make([]*Branch, 0, len(forks)-2)
	for k, f := range forks {
		if k == i || k == j {
			continue
		}
		out = append(out, f)
	}
	return out
}

// TryJoinForks absorbs a single remaining fork's progress into self when
// that fork's branching condition is equivalent to self's own, per
// spec.md §4.4.
func (b *Branch) TryJoinForks() bool {
	if len(b.Forks) != 1 {
		return false
	}
	only := b.Forks[0]
	if !only.active || only.HasLiveForks() {
		return false
	}
	if !only.BranchingCondition.Equivalent(b.BranchingCondition) {
		return false
	}
	b.Pending = only.Pending
	b.Scopes = only.Scopes
	b.Requester = only.Requester
	b.active = true
	only.Deactivate()
	b.Forks = nil
	return true
}
