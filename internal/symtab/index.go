package symtab

import (
	"fmt"

	"ccforest/internal/cond"
	"ccforest/internal/lex"
)

// ConflictError reports either a structural conflict between two
// declarations that should have been the same symbol, or an algebra
// assertion violation, per spec.md §4.5 step 2 and §7's "Conditional-
// algebra inconsistency" error kind.
type ConflictError struct {
	Identifier string
	Namespace  Namespace
	Location   lex.Location
	Detail     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting symbols at %s (%s): %s", e.Identifier, e.Location, e.Detail)
}

// Index maps (namespace, identifier) to the symbols that occupy it, per
// spec.md §4.5.
type Index struct {
	entries map[string][]*Symbol
	order   []string // insertion order of keys, for deterministic iteration
}

// NewIndex creates an empty symbol index.
func NewIndex() *Index {
	return &Index{entries: make(map[string][]*Symbol)}
}

func indexKey(ns Namespace, identifier string) string {
	return fmt.Sprintf("%d:%s", ns, identifier)
}

// Announce inserts a newly-arising symbol under the current condition,
// applying the partition-and-merge algorithm of spec.md §4.5. It returns
// the canonical *Symbol the caller should attach further
// declarations/definitions to.
func (idx *Index) Announce(candidate *Symbol) (*Symbol, error) {
	key := indexKey(candidate.Namespace, candidate.Identifier)
	existing := idx.entries[key]

	var impliesGroup, impliedGroup, independentGroup []*Symbol
	c2 := candidate.ExistenceCondition
	for _, s := range existing {
		c1 := s.ExistenceCondition
		switch {
		case c1.Implies(c2):
			impliesGroup = append(impliesGroup, s)
		case c2.Implies(c1):
			impliedGroup = append(impliedGroup, s)
		default:
			independentGroup = append(independentGroup, s)
		}
	}

	if len(impliesGroup) > 0 && len(impliedGroup) > 0 {
		return nil, &ConflictError{
			Identifier: candidate.Identifier,
			Namespace:  candidate.Namespace,
			Detail:     "both an implying and an implied existing symbol were found; this indicates a duplicate-declaration conflict or an algebra incompleteness",
		}
	}

	if len(impliesGroup) > 0 {
		s := impliesGroup[0]
		if !StructurallyEqual(s, candidate) {
			return nil, &ConflictError{
				Identifier: candidate.Identifier,
				Namespace:  candidate.Namespace,
				Detail:     fmt.Sprintf("existing declaration %q under %s conflicts with new declaration %q", s.Signature, s.ExistenceCondition, candidate.Signature),
			}
		}
		return s, nil
	}

	if len(impliedGroup) > 0 {
		s := impliedGroup[0]
		if !StructurallyEqual(s, candidate) {
			return nil, &ConflictError{
				Identifier: candidate.Identifier,
				Namespace:  candidate.Namespace,
				Detail:     fmt.Sprintf("existing declaration %q under %s conflicts with new declaration %q", s.Signature, s.ExistenceCondition, candidate.Signature),
			}
		}
		s.ExistenceCondition = cond.Conjunction(s.ExistenceCondition, c2)
		return s, nil
	}

	for _, s := range independentGroup {
		if StructurallyEqual(s, candidate) {
			s.ExistenceCondition = cond.Disjunction(s.ExistenceCondition, c2)
			return s, nil
		}
	}
	if len(independentGroup) > 0 {
		s := independentGroup[0]
		return nil, &ConflictError{
			Identifier: candidate.Identifier,
			Namespace:  candidate.Namespace,
			Detail:     fmt.Sprintf("existing declaration %q under %s conflicts with new declaration %q", s.Signature, s.ExistenceCondition, candidate.Signature),
		}
	}

	idx.insertNew(key, candidate)
	return candidate, nil
}

func (idx *Index) insertNew(key string, s *Symbol) {
	if _, ok := idx.entries[key]; !ok {
		idx.order = append(idx.order, key)
	}
	idx.entries[key] = append(idx.entries[key], s)
}

// Criteria filters Find results; nil/zero fields mean "any".
type Criteria struct {
	Identifier string
	Namespace  *Namespace
	Family     *Family
}

func (c Criteria) matches(s *Symbol) bool {
	if c.Identifier != "" && s.Identifier != c.Identifier {
		return false
	}
	if c.Namespace != nil && s.Namespace != *c.Namespace {
		return false
	}
	if c.Family != nil && s.Family != *c.Family {
		return false
	}
	return true
}

// Find returns every symbol matching criteria, in insertion order.
func (idx *Index) Find(criteria Criteria) []*Symbol {
	var out []*Symbol
	for _, key := range idx.order {
		for _, s := range idx.entries[key] {
			if criteria.matches(s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// All returns every symbol in the index, in insertion order.
func (idx *Index) All() []*Symbol {
	return idx.Find(Criteria{})
}
