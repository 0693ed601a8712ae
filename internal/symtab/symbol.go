// Package symtab implements the symbol index (C7) of spec.md §4.5: a map
// from (namespace, identifier) to the set of symbols that identifier can
// name, each carrying the condition under which it exists.
package symtab

import (
	"ccforest/internal/cond"
	"ccforest/internal/lex"
)

// Namespace is the C namespace an identifier resides in, derived from
// Family per spec.md §3's "namespace is derived from family per C
// rules".
type Namespace int

const (
	NamespaceOrdinary Namespace = iota
	NamespaceTag
	NamespaceLabel
	NamespacePreprocessor
	NamespaceInclude
)

func (n Namespace) String() string {
	switch n {
	case NamespaceOrdinary:
		return "ordinary"
	case NamespaceTag:
		return "tag"
	case NamespaceLabel:
		return "label"
	case NamespacePreprocessor:
		return "preprocessor"
	case NamespaceInclude:
		return "include"
	default:
		return "unknown"
	}
}

// Family is the kind of symbol, per spec.md §3.
type Family int

const (
	FamilyFunction Family = iota
	FamilyVariable
	FamilyTypedef
	FamilyTagStruct
	FamilyTagUnion
	FamilyTagEnum
	FamilyEnumConstant
	FamilyMacroObject
	FamilyMacroFunction
	FamilyLabel
	// FamilyInclude is supplemental (SPEC_FULL.md §3): an unresolved
	// `#include` is recorded as a symbol so `ls --type file` has
	// something to list, without the core attempting cross-file
	// resolution (a Non-goal per spec.md §1).
	FamilyInclude
)

func (f Family) String() string {
	switch f {
	case FamilyFunction:
		return "function"
	case FamilyVariable:
		return "variable"
	case FamilyTypedef:
		return "type"
	case FamilyTagStruct:
		return "struct"
	case FamilyTagUnion:
		return "union"
	case FamilyTagEnum:
		return "enum"
	case FamilyEnumConstant:
		return "enum-constant"
	case FamilyMacroObject:
		return "macro"
	case FamilyMacroFunction:
		return "macro"
	case FamilyLabel:
		return "label"
	case FamilyInclude:
		return "file"
	default:
		return "unknown"
	}
}

// Namespace derives the C namespace this family resides in.
func (f Family) Namespace() Namespace {
	switch f {
	case FamilyTagStruct, FamilyTagUnion, FamilyTagEnum:
		return NamespaceTag
	case FamilyLabel:
		return NamespaceLabel
	case FamilyMacroObject, FamilyMacroFunction:
		return NamespacePreprocessor
	case FamilyInclude:
		return NamespaceInclude
	default:
		return NamespaceOrdinary
	}
}

// Linkage is a symbol's linkage, per spec.md §4.6.
type Linkage int

const (
	LinkageNone Linkage = iota
	LinkageIntern
	LinkageExtern
	LinkageTypedefNameOnly
)

func (l Linkage) String() string {
	switch l {
	case LinkageNone:
		return "none"
	case LinkageIntern:
		return "intern"
	case LinkageExtern:
		return "extern"
	case LinkageTypedefNameOnly:
		return "typedef-name-only"
	default:
		return "unknown"
	}
}

// Site is one declaration or definition occurrence of a Symbol.
type Site struct {
	Condition cond.Condition
	Location  lex.Location
	Adducer   string
	Text      string
	HasBody   bool
}

// Symbol is a (namespace, identifier) occupant with the boolean
// condition under which it exists, per spec.md §3.
type Symbol struct {
	Namespace          Namespace
	Identifier         string
	Family             Family
	ExistenceCondition cond.Condition
	Declarations       []Site
	Definitions        []Site
	Linkage            Linkage
	StorageClass       string
	TypeInfo           string // structural signature used for equality
	Signature          string // human-readable rendering
}

// structuralKey is the tuple spec.md §4.5 compares for structural
// equality: (family, linkage, storage_class, type_info, signature).
func (s *Symbol) structuralKey() string {
	return s.Family.String() + "\x00" + s.Linkage.String() + "\x00" + s.StorageClass + "\x00" + s.TypeInfo + "\x00" + s.Signature
}

// StructurallyEqual reports whether two symbols describe the same
// declaration shape, per spec.md §4.5.
func StructurallyEqual(a, b *Symbol) bool {
	return a.structuralKey() == b.structuralKey()
}
