package parser

import (
	"strings"
	"testing"

	"ccforest/internal/cond"
	"ccforest/internal/symtab"
)

func findOne(t *testing.T, tu *TranslationUnit, name string) *symtab.Symbol {
	t.Helper()
	syms := tu.Index.Find(symtab.Criteria{Identifier: name})
	if len(syms) != 1 {
		t.Fatalf("expected exactly one symbol named %q, got %d", name, len(syms))
	}
	return syms[0]
}

func TestIfdefElseSplitsVariableExistence(t *testing.T) {
	src := strings.Join([]string{
		"#define FOO 1",
		"#ifdef BAR",
		"int x;",
		"#else",
		"int y;",
		"#endif",
	}, "\n") + "\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	foo := findOne(t, tu, "FOO")
	if !foo.ExistenceCondition.Unconditional() {
		t.Errorf("FOO existence condition = %s, want unconditional", foo.ExistenceCondition.String())
	}

	bar := tu.Universe.Defined("BAR")

	x := findOne(t, tu, "x")
	if !x.ExistenceCondition.Equivalent(cond.FromAtom(bar)) {
		t.Errorf("x existence condition = %s, want defined(BAR)", x.ExistenceCondition.String())
	}

	y := findOne(t, tu, "y")
	wantY := cond.Complement(cond.FromAtom(bar))
	if !y.ExistenceCondition.Equivalent(wantY) {
		t.Errorf("y existence condition = %s, want !defined(BAR)", y.ExistenceCondition.String())
	}
}

func TestIdenticalConditionalDeclarationsMergeToOneSymbol(t *testing.T) {
	src := strings.Join([]string{
		"#ifdef A",
		"int x;",
		"#endif",
		"#ifdef A",
		"int x;",
		"#endif",
	}, "\n") + "\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	x := findOne(t, tu, "x")
	a := tu.Universe.Defined("A")
	if !x.ExistenceCondition.Equivalent(cond.FromAtom(a)) {
		t.Errorf("x existence condition = %s, want defined(A)", x.ExistenceCondition.String())
	}
	if len(x.Declarations) != 2 {
		t.Errorf("expected two recorded declaration sites, got %d", len(x.Declarations))
	}
}

func TestElifAccumulatesDisjunctionOfConditions(t *testing.T) {
	src := strings.Join([]string{
		"#ifdef A",
		"int x;",
		"#elif defined(B)",
		"int x;",
		"#endif",
	}, "\n") + "\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	x := findOne(t, tu, "x")
	a := tu.Universe.Defined("A")
	b := tu.Universe.Defined("B")
	want := cond.Disjunction(cond.FromAtom(a), cond.Conjunction(cond.Complement(cond.FromAtom(a)), cond.FromAtom(b)))
	if !x.ExistenceCondition.Equivalent(want) {
		t.Errorf("x existence condition = %s, want A || (!A && B)", x.ExistenceCondition.String())
	}
}

func TestConflictingStructuralDeclarationsReportDiagnostic(t *testing.T) {
	src := strings.Join([]string{
		"#ifdef A",
		"int x;",
		"#else",
		"float x;",
		"#endif",
	}, "\n") + "\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(tu.Diags.Items()) == 0 {
		t.Fatalf("expected a conflict diagnostic, got none")
	}
}

func TestFunctionDeclarationCapturesSignature(t *testing.T) {
	src := "int add(int a, int b) {\nreturn a + b;\n}\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	fn := findOne(t, tu, "add")
	if fn.Family != symtab.FamilyFunction {
		t.Errorf("family = %v, want FamilyFunction", fn.Family)
	}
	if len(fn.Definitions) != 1 || !fn.Definitions[0].HasBody {
		t.Errorf("expected one definition with a body, got %+v", fn.Definitions)
	}
}

func TestStaticVariableGetsInternLinkage(t *testing.T) {
	src := "static int counter;\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	v := findOne(t, tu, "counter")
	if v.Linkage != symtab.LinkageIntern {
		t.Errorf("linkage = %v, want LinkageIntern", v.Linkage)
	}
}

func TestTypedefRecordsTypedefNameOnlyLinkage(t *testing.T) {
	src := "typedef unsigned long size_t_alias;\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	td := findOne(t, tu, "size_t_alias")
	if td.Family != symtab.FamilyTypedef {
		t.Errorf("family = %v, want FamilyTypedef", td.Family)
	}
	if td.Linkage != symtab.LinkageTypedefNameOnly {
		t.Errorf("linkage = %v, want LinkageTypedefNameOnly", td.Linkage)
	}
}

func TestStructTagAndTrailingAliasBothRecorded(t *testing.T) {
	src := "struct Point { int x; int y; } origin;\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tag := findOne(t, tu, "Point")
	if tag.Family != symtab.FamilyTagStruct {
		t.Errorf("family = %v, want FamilyTagStruct", tag.Family)
	}

	members := tu.Index.Find(symtab.Criteria{Identifier: "x"})
	if len(members) == 0 {
		t.Errorf("expected member x to be recorded inside the struct body")
	}
}

func TestIncludeDirectiveRecordsFileSymbol(t *testing.T) {
	src := "#include <stdio.h>\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	inc := findOne(t, tu, "stdio.h")
	if inc.Family != symtab.FamilyInclude {
		t.Errorf("family = %v, want FamilyInclude", inc.Family)
	}
	if len(tu.IncludedFiles) != 1 || tu.IncludedFiles[0] != "stdio.h" {
		t.Errorf("IncludedFiles = %v, want [stdio.h]", tu.IncludedFiles)
	}
}

func TestFunctionLikeMacroSignatureIncludesParams(t *testing.T) {
	src := "#define MAX(a, b) ((a) > (b) ? (a) : (b))\n"

	tu := New("unit.c")
	if err := tu.Parse("unit.c", src); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	m := findOne(t, tu, "MAX")
	if m.Family != symtab.FamilyMacroFunction {
		t.Errorf("family = %v, want FamilyMacroFunction", m.Family)
	}
	if m.Signature != "MAX(a, b)" {
		t.Errorf("signature = %q, want %q", m.Signature, "MAX(a, b)")
	}
}
