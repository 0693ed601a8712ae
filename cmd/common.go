package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"ccforest/internal/cond"
	"ccforest/internal/config"
	"ccforest/internal/diagnostics"
	"ccforest/internal/parser"
	"ccforest/internal/source"
)

// resolveConfigPath returns --config if set, else ".ccforest.yaml" under
// --root, matching SPEC_FULL.md §6.1's global-option precedence.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(rootDir, ".ccforest.yaml")
}

// discoverFiles expands the `ls [object]...` argument list: explicit
// paths if given, otherwise every file named by the project config
// under --root.
func discoverFiles(args []string) ([]string, error) {
	if len(args) > 0 {
		out := make([]string, len(args))
		for i, a := range args {
			out[i] = filepath.Join(rootDir, a)
		}
		return out, nil
	}
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cfg.Files))
	for i, f := range cfg.Files {
		out[i] = filepath.Join(rootDir, f)
	}
	return out, nil
}

// parseFile loads one file and drives it through a fresh
// TranslationUnit. With verbose output requested, the Sink logs
// diagnostics to stderr; otherwise it discards them. A fatal diagnostic
// is returned as the error either way.
func parseFile(path string) (*parser.TranslationUnit, error) {
	f, err := source.Load(path)
	if err != nil {
		return nil, diagnostics.IO(path, "%v", err)
	}
	tu := parser.New(path)
	if verbose {
		tu.Diags = diagnostics.NewSink(os.Stderr)
	}
	if err := tu.Parse(path, f.Content); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if d := tu.Diags.FirstFatal(); d != nil {
		return nil, d
	}
	return tu, nil
}

// assumedAtoms resolves the --assume/--assume-def flag values against a
// Universe, per SPEC_FULL.md's Assumption glossary entry.
func assumedAtoms(u *cond.Universe) []*cond.Atom {
	var atoms []*cond.Atom
	for _, name := range assumeDef {
		atoms = append(atoms, u.Defined(name))
	}
	for _, expr := range assumeTrue {
		atoms = append(atoms, u.Raw(expr))
	}
	return atoms
}
