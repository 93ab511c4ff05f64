// Package problems is the ordered error/warning accumulator spec.md §2
// item 4 calls for: the analyser is fault-tolerant and keeps going after
// most errors, so diagnostics are collected as values rather than returned
// early. Shape and JSON encoding follow the teacher's internal/errors
// package (Report{Schema,Code,Phase,Message,Span,Data,Fix}, deterministic
// sorted-key JSON) — renamed Report -> Diagnostic and specialised around
// srcspan.Span instead of ast.Span.
package problems

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/glistix/glistix-core/internal/srcspan"
)

var (
	renderError   = color.New(color.FgRed, color.Bold).SprintFunc()
	renderWarning = color.New(color.FgYellow, color.Bold).SprintFunc()
	renderCode    = color.New(color.Faint).SprintFunc()
	renderPhase   = color.New(color.FgCyan).SprintFunc()
)

// Severity distinguishes errors (fail the build) from warnings (never fail
// it unless --warnings-as-errors, an external CLI concern we just flag).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Fix is an optional suggested edit, e.g. a did-you-mean replacement.
type Fix struct {
	Title       string `json:"title"`
	Replacement string `json:"replacement,omitempty"`
}

// Diagnostic is the canonical structured diagnostic. Code follows the
// taxonomy in spec.md §7 (PAR###, IMP###, TYP###, EXH###, TGT###, NIX###,
// CFG###, ...).
type Diagnostic struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Phase    string         `json:"phase"`
	Severity Severity       `json:"-"`
	Message  string         `json:"message"`
	Span     *srcspan.Span  `json:"span,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`

	// Session is the compile session's correlation id (Problems.Session),
	// stamped on every diagnostic so a caller juggling several concurrent
	// module analyses (spec.md §5) can tell which run a diagnostic came from
	// once diagnostics from multiple Problems are merged for display.
	Session string `json:"session"`
}

func (d *Diagnostic) Error() string { return fmt.Sprintf("%s: %s", d.Code, d.Message) }

// SortKey is the deterministic ordering spec.md §5 requires: diagnostics
// are emitted in source order first, then stably sorted by (location,
// kind) before publication. We sort by (span start, span end, code,
// message) — message is the final tiebreaker so two diagnostics at the same
// location and code (which should not happen, but fault-tolerant analysis
// makes no promises) still compare deterministically.
func (d *Diagnostic) sortKey() (int, int, string, string) {
	if d.Span == nil {
		return -1, -1, d.Code, d.Message
	}
	return d.Span.Start, d.Span.End, d.Code, d.Message
}

// Problems accumulates errors and warnings for one module analysis. It is
// not safe for concurrent use by multiple goroutines (§5: each module's
// analysis holds its own Problems).
type Problems struct {
	errors   []*Diagnostic
	warnings []*Diagnostic

	// session is this accumulator's correlation id, minted once in New and
	// stamped on every Diagnostic it records.
	session string
}

// New creates an empty accumulator, minting a fresh per-compile-session
// correlation id.
func New() *Problems { return &Problems{session: uuid.NewString()} }

// Session returns this accumulator's correlation id.
func (p *Problems) Session() string { return p.session }

// Error records an error-severity diagnostic.
func (p *Problems) Error(d *Diagnostic) {
	d.Schema = "glistix.diagnostic/v1"
	d.Severity = SeverityError
	d.Session = p.session
	p.errors = append(p.errors, d)
}

// Warn records a warning-severity diagnostic.
func (p *Problems) Warn(d *Diagnostic) {
	d.Schema = "glistix.diagnostic/v1"
	d.Severity = SeverityWarning
	d.Session = p.session
	p.warnings = append(p.warnings, d)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (p *Problems) HasErrors() bool { return len(p.errors) > 0 }

// Errors returns recorded errors in the deterministic sorted order.
func (p *Problems) Errors() []*Diagnostic { return sortedCopy(p.errors) }

// Warnings returns recorded warnings in the deterministic sorted order.
func (p *Problems) Warnings() []*Diagnostic { return sortedCopy(p.warnings) }

// All returns errors followed by warnings, each internally sorted — the
// shape most diagnostic renderers want.
func (p *Problems) All() []*Diagnostic {
	out := make([]*Diagnostic, 0, len(p.errors)+len(p.warnings))
	out = append(out, p.Errors()...)
	out = append(out, p.Warnings()...)
	return out
}

func sortedCopy(in []*Diagnostic) []*Diagnostic {
	out := make([]*Diagnostic, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		ki := out[i]
		kj := out[j]
		si, ei, ci, mi := ki.sortKey()
		sj, ej, cj, mj := kj.sortKey()
		if si != sj {
			return si < sj
		}
		if ei != ej {
			return ei < ej
		}
		if ci != cj {
			return ci < cj
		}
		return mi < mj
	})
	return out
}

// Merge absorbs another Problems' diagnostics, used when a pass runs in an
// isolated sub-accumulator (e.g. speculative parsing) and its results are
// only kept on success.
func (p *Problems) Merge(other *Problems) {
	for _, d := range other.errors {
		d.Session = p.session
	}
	for _, d := range other.warnings {
		d.Session = p.session
	}
	p.errors = append(p.errors, other.errors...)
	p.warnings = append(p.warnings, other.warnings...)
}

// Render formats diagnostics for a terminal, one line per diagnostic,
// colouring the severity tag the way the teacher's REPL colours its
// success/failure/hint lines (green/red/yellow SprintFuncs).
func Render(diags []*Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		tag := renderWarning("warning")
		if d.Severity == SeverityError {
			tag = renderError("error")
		}
		fmt.Fprintf(&b, "%s[%s] %s: %s", tag, renderCode(d.Code), renderPhase(d.Phase), d.Message)
		if d.Span != nil {
			fmt.Fprintf(&b, " (%d..%d)", d.Span.Start, d.Span.End)
		}
	}
	return b.String()
}

// ToJSON renders diagnostics deterministically: encoding/json writes struct
// fields in declaration order and sorts Data's map keys, and the slice is
// encoded in the order given.
func ToJSON(diags []*Diagnostic, compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(diags)
	} else {
		data, err = json.MarshalIndent(diags, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
