// Package cond implements the boolean condition algebra over preprocessor
// predicates: construction, conjunction, disjunction, complement, and the
// implication/equivalence tests the branch tree and symbol index need to
// decide when two conditional configurations have reconverged.
package cond

import (
	"fmt"
	"sort"
)

// AtomKind distinguishes the handful of predicate shapes that arise from
// real preprocessor directives.
type AtomKind int

const (
	// AtomDefined is `defined(NAME)`, produced by #ifdef/#ifndef and by
	// `defined(...)` appearing inside an #if expression.
	AtomDefined AtomKind = iota
	// AtomRaw is an opaque preprocessor-level fact the algebra cannot
	// decompose further: a bare macro name used as a truth value, or an
	// `expr == k` comparison. Two AtomRaw atoms are equal only if their
	// normalized text is identical; the algebra never infers a
	// relationship between two different raw atoms (soundness over
	// completeness, per spec P1).
	AtomRaw
)

// Atom is an interned leaf of the condition algebra. Atoms are compared
// structurally by their (Kind, Key) pair; NewUniverse hands out one *Atom
// per distinct pair so that pointer equality implies structural equality.
type Atom struct {
	Kind AtomKind
	Key  string
}

func (a *Atom) String() string {
	if a == nil {
		return "<nil-atom>"
	}
	switch a.Kind {
	case AtomDefined:
		return fmt.Sprintf("defined(%s)", a.Key)
	default:
		return a.Key
	}
}

// Universe interns atoms for one translation unit's worth of preprocessor
// conditions so that structurally equal predicates collapse to the same
// pointer everywhere in the branch tree.
type Universe struct {
	atoms map[string]*Atom
}

// NewUniverse creates an empty atom table.
func NewUniverse() *Universe {
	return &Universe{atoms: make(map[string]*Atom)}
}

func (u *Universe) intern(kind AtomKind, key string) *Atom {
	cacheKey := fmt.Sprintf("%d:%s", kind, key)
	if a, ok := u.atoms[cacheKey]; ok {
		return a
	}
	a := &Atom{Kind: kind, Key: key}
	u.atoms[cacheKey] = a
	return a
}

// Defined interns `defined(name)`.
func (u *Universe) Defined(name string) *Atom {
	return u.intern(AtomDefined, name)
}

// Raw interns an opaque predicate text, e.g. a bare macro name or a
// normalized `expr == k` comparison.
func (u *Universe) Raw(expr string) *Atom {
	return u.intern(AtomRaw, expr)
}

// Atoms returns every atom interned so far, in an arbitrary but stable
// order (sorted by their cache key).
func (u *Universe) Atoms() []*Atom {
	keys := make([]string, 0, len(u.atoms))
	for k := range u.atoms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Atom, 0, len(keys))
	for _, k := range keys {
		out = append(out, u.atoms[k])
	}
	return out
}
