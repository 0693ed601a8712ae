package cond

import (
	"sort"
	"strings"
)

// literal is a possibly-negated atom inside one cube.
type literal struct {
	atom *Atom
	neg  bool
}

// cube is a conjunction of literals, no atom appearing twice (a cube that
// would contain both polarities of the same atom is a contradiction and is
// never retained).
type cube []literal

// Condition is a boolean expression over Atoms in disjunctive normal form:
// a disjunction of cubes, each a conjunction of (possibly negated) atoms.
// The zero value is ⊥ (no cube is ever satisfied).
type Condition struct {
	cubes []cube
}

// True returns the unconditional condition ⊤ (one empty cube: the empty
// conjunction is vacuously true).
func True() Condition {
	return Condition{cubes: []cube{{}}}
}

// False returns ⊥ (no cube).
func False() Condition {
	return Condition{}
}

// FromAtom builds the single-literal condition `atom`.
func FromAtom(a *Atom) Condition {
	return Condition{cubes: []cube{{{atom: a, neg: false}}}}
}

// FromNegatedAtom builds the single-literal condition `¬atom`.
func FromNegatedAtom(a *Atom) Condition {
	return Condition{cubes: []cube{{{atom: a, neg: true}}}}
}

// Unconditional reports whether c is ≡ ⊤.
func (c Condition) Unconditional() bool {
	return c.Equivalent(True())
}

// IsFalse reports whether c is ≡ ⊥.
func (c Condition) IsFalse() bool {
	return len(canonicalize(c.cubes)) == 0
}

func cubeKey(cb cube) string {
	parts := make([]string, len(cb))
	for i, l := range cb {
		sign := ""
		if l.neg {
			sign = "!"
		}
		parts[i] = sign + l.atom.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// mergeCubes conjoins two cubes, returning ok=false if the result is a
// contradiction (same atom appearing with both polarities).
func mergeCubes(a, b cube) (cube, bool) {
	lits := make(map[*Atom]bool, len(a)+len(b))
	for _, l := range a {
		lits[l.atom] = l.neg
	}
	for _, l := range b {
		if existing, ok := lits[l.atom]; ok {
			if existing != l.neg {
				return nil, false
			}
			continue
		}
		lits[l.atom] = l.neg
	}
	out := make(cube, 0, len(lits))
	for a, neg := range lits {
		out = append(out, literal{atom: a, neg: neg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].atom.String() < out[j].atom.String() })
	return out, true
}

// subsumes reports whether cube a is a subset of cube b's literal set
// (same polarities), meaning a is weaker/more general than b.
func subsumes(a, b cube) bool {
	if len(a) > len(b) {
		return false
	}
	bLits := make(map[*Atom]bool, len(b))
	for _, l := range b {
		bLits[l.atom] = l.neg
	}
	for _, l := range a {
		neg, ok := bLits[l.atom]
		if !ok || neg != l.neg {
			return false
		}
	}
	return true
}

// canonicalize deduplicates cubes and drops any cube subsumed by a more
// general one already present, producing a minimal-ish DNF sufficient for
// equivalence/implication comparisons (not necessarily a globally minimal
// cover, per spec.md §4.1's "implementations may be incomplete").
func canonicalize(cubes []cube) []cube {
	seen := make(map[string]cube)
	order := make([]string, 0, len(cubes))
	for _, cb := range cubes {
		k := cubeKey(cb)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = cb
		order = append(order, k)
	}
	kept := make([]cube, 0, len(order))
	for _, k := range order {
		kept = append(kept, seen[k])
	}
	sort.Slice(kept, func(i, j int) bool { return cubeKey(kept[i]) < cubeKey(kept[j]) })

	out := make([]cube, 0, len(kept))
	for i, cb := range kept {
		subsumed := false
		for j, other := range kept {
			if i == j {
				continue
			}
			if subsumes(other, cb) && !subsumes(cb, other) {
				subsumed = true
				break
			}
			if subsumes(other, cb) && subsumes(cb, other) && j < i {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, cb)
		}
	}
	return out
}

// Conjunction returns a ∧ b.
func Conjunction(a, b Condition) Condition {
	var cubes []cube
	for _, ca := range a.cubes {
		for _, cb := range b.cubes {
			if merged, ok := mergeCubes(ca, cb); ok {
				cubes = append(cubes, merged)
			}
		}
	}
	return Condition{cubes: canonicalize(cubes)}
}

// Disjunction returns a ∨ b.
func Disjunction(a, b Condition) Condition {
	cubes := append(append([]cube{}, a.cubes...), b.cubes...)
	return Condition{cubes: canonicalize(cubes)}
}

// Complement returns ¬a via De Morgan: the complement of a disjunction of
// cubes is the conjunction, over each cube, of the disjunction of its
// negated literals.
func Complement(a Condition) Condition {
	result := True()
	for _, cb := range a.cubes {
		clause := False()
		for _, l := range cb {
			var lit Condition
			if l.neg {
				lit = FromAtom(l.atom)
			} else {
				lit = FromNegatedAtom(l.atom)
			}
			clause = Disjunction(clause, lit)
		}
		result = Conjunction(result, clause)
	}
	return result
}

// ComplementOfAll returns ¬c1 ∧ ¬c2 ∧ ... ∧ ¬cn, the shorthand spec.md
// §4.1 requires for building an #elif's implicit "none of the previous
// branches held" condition.
func ComplementOfAll(cs []Condition) Condition {
	result := True()
	for _, c := range cs {
		result = Conjunction(result, Complement(c))
	}
	return result
}

// Implies reports a ⇒ b: soundly true only when a ∧ ¬b is unsatisfiable.
func (a Condition) Implies(b Condition) bool {
	return Conjunction(a, Complement(b)).IsFalse()
}

// Equivalent reports a ⇔ b. Reflexive and symmetric; never returns true
// for conditions that are not in fact equivalent (spec.md §4.1 P1).
func (a Condition) Equivalent(b Condition) bool {
	if canonicalKey(a) == canonicalKey(b) {
		return true
	}
	return a.Implies(b) && b.Implies(a)
}

func canonicalKey(c Condition) string {
	keys := make([]string, len(c.cubes))
	for i, cb := range c.cubes {
		keys[i] = cubeKey(cb)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// Assume partially evaluates c under the assumption that every atom in
// trueAtoms holds, per SPEC_FULL.md's CLI-level `--assume`/`--assume-def`
// flags: narrowing for display, never mutating the index's own stored
// conditions. A cube containing a negated assumed atom is unsatisfiable
// and dropped; a cube containing the assumed atom positively has that
// literal simplified away. Atoms are matched by (Kind, Key), so assumed
// atoms interned in a different Universe than c's still apply.
func Assume(c Condition, trueAtoms []*Atom) Condition {
	assumed := make(map[Atom]bool, len(trueAtoms))
	for _, a := range trueAtoms {
		assumed[*a] = true
	}
	var cubes []cube
	for _, cb := range c.cubes {
		var kept cube
		contradiction := false
		for _, l := range cb {
			if assumed[*l.atom] {
				if l.neg {
					contradiction = true
					break
				}
				continue
			}
			kept = append(kept, l)
		}
		if contradiction {
			continue
		}
		cubes = append(cubes, kept)
	}
	return Condition{cubes: canonicalize(cubes)}
}

// String renders the condition using `&&`/`||`/`!`, most useful for
// diagnostics and the `ls --long` symbol listing.
func (c Condition) String() string {
	if c.IsFalse() {
		return "false"
	}
	cubes := canonicalize(c.cubes)
	if len(cubes) == 1 && len(cubes[0]) == 0 {
		return "true"
	}
	parts := make([]string, len(cubes))
	for i, cb := range cubes {
		lits := make([]string, len(cb))
		sorted := append(cube{}, cb...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].atom.String() < sorted[j].atom.String() })
		for j, l := range sorted {
			if l.neg {
				lits[j] = "!" + l.atom.String()
			} else {
				lits[j] = l.atom.String()
			}
		}
		if len(lits) == 1 {
			parts[i] = lits[0]
		} else {
			parts[i] = "(" + strings.Join(lits, " && ") + ")"
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " || ")
}
