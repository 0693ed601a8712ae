package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"ccforest/internal/cond"
	"ccforest/internal/config"
	"ccforest/internal/parser"
	"ccforest/internal/render"
	"ccforest/internal/source"
	"ccforest/internal/symtab"

	"github.com/spf13/cobra"
)

var lsOpts render.Options
var lsLiteralKind string
var lsCommentKind string

var lsCmd = &cobra.Command{
	Use:   "ls [options] [object]...",
	Short: "List symbols discovered in the parsed translation unit(s)",
	Long: `ls parses each named file (or every file named by the project
config under --root, if none are given) and lists the symbols found,
each annotated with the boolean condition under which it exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := discoverFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files to list: pass file arguments or configure `files` in .ccforest.yaml")
		}

		if lsLiteralKind != "" || lsCommentKind != "" {
			literals, comments, err := collectTokenRecords(files)
			if err != nil {
				return err
			}
			if lsLiteralKind != "" {
				return render.WriteLiterals(os.Stdout, literals, lsLiteralKind)
			}
			return render.WriteComments(os.Stdout, comments, lsCommentKind)
		}

		cacheable := len(assumeTrue) == 0 && len(assumeDef) == 0
		optionKey := lsOptionKey()
		var cachePath string
		var cache *config.Cache
		if cacheable {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}
			cachePath = filepath.Join(rootDir, cfg.CachePath())
			if c, err := config.LoadCache(cachePath); err == nil {
				cache = c
			}
			if lines, ok := allCacheHits(files, cache, optionKey); ok {
				for _, l := range lines {
					fmt.Fprintln(os.Stdout, l)
				}
				return nil
			}
		}

		var symbols []*symtab.Symbol
		var universe *cond.Universe
		var perFile [][]*symtab.Symbol
		if len(files) == 1 {
			tu, err := parseFile(files[0])
			if err != nil {
				return err
			}
			symbols = tu.Index.All()
			universe = tu.Universe
			perFile = [][]*symtab.Symbol{symbols}
		} else {
			symbols, perFile, universe, err = parseFilesConcurrently(files)
			if err != nil {
				return err
			}
		}

		atoms := assumedAtoms(universe)
		if len(atoms) > 0 {
			symbols = assumeSymbols(symbols, atoms)
		}

		filtered, err := render.Apply(symbols, lsOpts)
		if err != nil {
			return err
		}
		if err := render.Write(os.Stdout, filtered, lsOpts); err != nil {
			return err
		}

		if cacheable {
			persistCache(cachePath, cache, files, perFile, optionKey)
		}
		return nil
	},
}

// lsOptionKey summarizes every render.Options field that affects `ls`'s
// output, so a cached entry from a run with different flags is never
// mistaken for a hit.
func lsOptionKey() string {
	return fmt.Sprintf("t=%s|f=%s|fmt=%s|long=%v|each=%v", lsOpts.Type, lsOpts.Filter, lsOpts.Format, lsOpts.Long, lsOpts.Each)
}

// allCacheHits reports whether every file in files has a cache entry
// whose digest and option key still match, returning their concatenated
// rendered lines in file order if so. A single miss (or a missing
// cache) means the caller falls back to a full parse of every file,
// never a mix of cached and freshly rendered output within one run.
func allCacheHits(files []string, cache *config.Cache, optionKey string) ([]string, bool) {
	if cache == nil {
		return nil, false
	}
	var lines []string
	for _, path := range files {
		f, err := source.Load(path)
		if err != nil {
			return nil, false
		}
		entry, ok := cache.Entries[path]
		if !ok || entry.Digest != f.Digest || entry.OptionKey != optionKey {
			return nil, false
		}
		lines = append(lines, entry.Lines...)
	}
	return lines, true
}

// persistCache re-renders each file's own symbol subset under the same
// options just used for the run's combined listing, and writes the
// result back to cachePath so the next identical invocation can take
// the allCacheHits fast path instead of re-parsing. Failures here are
// non-fatal: a stale or unwritable cache never fails `ls` itself.
func persistCache(cachePath string, cache *config.Cache, files []string, perFile [][]*symtab.Symbol, optionKey string) {
	if cache == nil {
		cache = &config.Cache{Entries: map[string]config.CacheEntry{}}
	}
	for i, path := range files {
		f, err := source.Load(path)
		if err != nil {
			continue
		}
		filtered, err := render.Apply(perFile[i], lsOpts)
		if err != nil {
			continue
		}
		var buf bytes.Buffer
		if err := render.Write(&buf, filtered, lsOpts); err != nil {
			continue
		}
		cache.Entries[path] = config.CacheEntry{
			Digest:    f.Digest,
			OptionKey: optionKey,
			Lines:     splitLines(buf.String()),
		}
	}
	cache.Save(cachePath)
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// parseFilesConcurrently parses each file on its own goroutine bounded
// by an errgroup, per SPEC_FULL.md §5's "ls multi-file mode parses each
// translation unit on its own goroutine... concurrency is across files,
// never across branches of one file." Each file gets its own atom
// Universe; only the first file's Universe is returned for --assume
// resolution since cond.Assume matches predicates by kind and text, not
// by atom identity, and interning is per-Universe only within one parse.
func parseFilesConcurrently(files []string) ([]*symtab.Symbol, [][]*symtab.Symbol, *cond.Universe, error) {
	results := make([][]*symtab.Symbol, len(files))
	universes := make([]*cond.Universe, len(files))

	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			tu, err := parseFile(path)
			if err != nil {
				return err
			}
			results[i] = tu.Index.All()
			universes[i] = tu.Universe
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	var all []*symtab.Symbol
	for _, r := range results {
		all = append(all, r...)
	}
	var universe *cond.Universe
	if len(universes) > 0 {
		universe = universes[0]
	}
	return all, results, universe, nil
}

// collectTokenRecords parses each file and gathers the literal and
// comment tokens recorded while doing so, for `ls --literal`/`ls
// --comment`. Parsed sequentially (unlike parseFilesConcurrently)
// since listing literals/comments is not a hot path worth the
// errgroup bookkeeping.
func collectTokenRecords(files []string) ([]parser.TokenRecord, []parser.TokenRecord, error) {
	var literals, comments []parser.TokenRecord
	for _, f := range files {
		tu, err := parseFile(f)
		if err != nil {
			return nil, nil, err
		}
		literals = append(literals, tu.Literals...)
		comments = append(comments, tu.Comments...)
	}
	return literals, comments, nil
}

// assumeSymbols narrows each symbol's existence condition under the
// given assumed-true atoms for display, returning shallow copies so the
// underlying index is never mutated.
func assumeSymbols(symbols []*symtab.Symbol, atoms []*cond.Atom) []*symtab.Symbol {
	out := make([]*symtab.Symbol, len(symbols))
	for i, s := range symbols {
		copied := *s
		copied.ExistenceCondition = cond.Assume(s.ExistenceCondition, atoms)
		out[i] = &copied
	}
	return out
}

func init() {
	lsCmd.Flags().StringVarP(&lsOpts.Type, "type", "t", "", "filter by symbol family (function, variable, type, struct, union, enum, macro, label, file)")
	lsCmd.Flags().StringVar(&lsLiteralKind, "literal", "", "list literals of a kind instead of symbols: string, char, integer, float")
	lsCmd.Flags().StringVar(&lsCommentKind, "comment", "", "list comments of a kind instead of symbols: block, line")
	lsCmd.Flags().StringVarP(&lsOpts.Filter, "filter", "f", "", "filter identifiers by regular expression")
	lsCmd.Flags().BoolVarP(&lsOpts.Long, "long", "l", false, "include linkage and signature detail")
	lsCmd.Flags().StringVar(&lsOpts.Format, "format", "text", "output format: text or json")
	lsCmd.Flags().BoolVar(&lsOpts.Each, "each", false, "one line per declaration/definition site instead of per symbol")
}
