// Package diagnostics implements the log sink and the tagged
// Diagnostic union of spec.md §7: the five error kinds the conditional
// parsing engine can raise, and their propagation policy.
package diagnostics

import (
	"errors"
	"fmt"
	"io"

	charmlog "github.com/charmbracelet/log"

	"ccforest/internal/lex"
)

// Kind is one of spec.md §7's five error kinds.
type Kind int

const (
	// KindLexical: the tokenizer cannot classify the next characters.
	KindLexical Kind = iota
	// KindConditionalAlgebra: an arising symbol structurally conflicts
	// with an existing one whose condition implies it.
	KindConditionalAlgebra
	// KindStructural: unexpected scope state on finalize. Fatal
	// programming-error class; aborts the translation unit's parse.
	KindStructural
	// KindUsage: CLI argument errors.
	KindUsage
	// KindIO: file not found or unreadable.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindConditionalAlgebra:
		return "conditional-algebra"
	case KindStructural:
		return "structural"
	case KindUsage:
		return "usage"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Severity classifies whether a Diagnostic is recoverable, per spec.md
// §7's propagation policy ("branch-local errors... logged at WARN;
// structural and I/O errors bubble to the driver; fatal").
type Severity int

const (
	SeverityWarn Severity = iota
	SeverityFatal
)

// Diagnostic is one reported error, per spec.md §7.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Location lex.Location
	File     string
}

func (d *Diagnostic) Error() string {
	if d.File != "" {
		return fmt.Sprintf("%s: %s at %s: %s", d.File, d.Kind, d.Location, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Lexical builds a branch-local KindLexical diagnostic (warn severity:
// the affected branch fails, others continue, per spec.md §7 item 1).
func Lexical(file string, loc lex.Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: KindLexical, Severity: SeverityWarn, Message: fmt.Sprintf(format, args...), Location: loc, File: file}
}

// ConditionalAlgebra builds a "conflicting symbols at LOCATION"
// diagnostic, per spec.md §7 item 2.
func ConditionalAlgebra(file string, loc lex.Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: KindConditionalAlgebra, Severity: SeverityWarn, Message: fmt.Sprintf(format, args...), Location: loc, File: file}
}

// Structural builds a fatal KindStructural diagnostic — unexpected scope
// state on finalize, per spec.md §7 item 3.
func Structural(file string, loc lex.Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: KindStructural, Severity: SeverityFatal, Message: fmt.Sprintf(format, args...), Location: loc, File: file}
}

// Usage builds a fatal KindUsage diagnostic — a CLI argument error, per
// spec.md §7 item 4.
func Usage(format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: KindUsage, Severity: SeverityFatal, Message: fmt.Sprintf(format, args...)}
}

// IO builds a fatal KindIO diagnostic for the file it names (spec.md §7
// item 5). A multi-file `ls` run returns the first such error and prints
// no listing; the remaining files are not listed.
func IO(file string, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: KindIO, Severity: SeverityFatal, Message: fmt.Sprintf(format, args...), File: file}
}

// Sink collects diagnostics and logs them as they arrive, using the same
// structured logger philwo-siso wires through its auth/reapi packages.
type Sink struct {
	logger *charmlog.Logger
	items  []*Diagnostic
}

// NewSink creates a Sink writing structured log lines to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{logger: charmlog.NewWithOptions(w, charmlog.Options{ReportTimestamp: false})}
}

// Report records a diagnostic and logs it at a level matching severity.
func (s *Sink) Report(d *Diagnostic) {
	s.items = append(s.items, d)
	fields := []any{"kind", d.Kind.String()}
	if d.File != "" {
		fields = append(fields, "file", d.File)
	}
	if d.Location != (lex.Location{}) {
		fields = append(fields, "at", d.Location.String())
	}
	if d.Severity == SeverityFatal {
		s.logger.Error(d.Message, fields...)
	} else {
		s.logger.Warn(d.Message, fields...)
	}
}

// Items returns every diagnostic reported so far.
func (s *Sink) Items() []*Diagnostic {
	return s.items
}

// FirstFatal returns the first fatal diagnostic reported, or nil if
// none was. Callers in cmd/ use this after a successful Parse to catch
// a fatal diagnostic that was only reported to the sink, never
// returned directly as an error.
func (s *Sink) FirstFatal() *Diagnostic {
	for _, d := range s.items {
		if d.Severity == SeverityFatal {
			return d
		}
	}
	return nil
}

// ExitCode maps an error returned by a command to the process exit code
// spec.md §6.1 defines: 0 success, 1 usage errors, 2 fatal parse
// failures (I/O or structural). A *Diagnostic of KindUsage maps to 1;
// any other *Diagnostic maps to 2 (it can only have reached the top
// level with SeverityFatal, since the driver logs and continues past
// warn-severity ones). Any other error — cobra's own argument-parsing
// errors among them — maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		if d.Kind == KindUsage {
			return 1
		}
		return 2
	}
	return 1
}
