// Package diag implements the shared diagnostics vector every compiler
// stage appends to (spec.md §7): a fault is a value, never a panic (outside
// of debug-only internal-invariant checks), and a stage never aborts on the
// first error — it substitutes an error sentinel and keeps going.
package diag

import (
	"fmt"
	"sort"

	"github.com/soul-lang/soulc/lang/token"
	"golang.org/x/exp/slices"
)

// Level is the severity of a Diagnostic (spec.md §6).
type Level uint8

const (
	Error Level = iota
	Warning
	Note
	Debug
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// Kind enumerates the SoulErrorKind taxonomy of spec.md §6.
type Kind uint8

const (
	InvalidTokenKind Kind = iota
	InvalidChar
	UnexpectedToken
	UnexpectedFileEnd
	InvalidEscapeSequence
	InvalidNumber
	InvalidOperator
	InvalidIdent
	InvalidAssignType
	InvalidExpression
	InvalidContext
	ScopeError
	ScopeOverride
	NotFoundInScope
	UnifyTypeError
	TypeInferenceError
	PlaceTypeError
	InternalError
	Empty
)

var kindNames = [...]string{
	InvalidTokenKind:     "InvalidTokenKind",
	InvalidChar:          "InvalidChar",
	UnexpectedToken:      "UnexpectedToken",
	UnexpectedFileEnd:    "UnexpectedFileEnd",
	InvalidEscapeSequence: "InvalidEscapeSequence",
	InvalidNumber:        "InvalidNumber",
	InvalidOperator:      "InvalidOperator",
	InvalidIdent:         "InvalidIdent",
	InvalidAssignType:    "InvalidAssignType",
	InvalidExpression:    "InvalidExpression",
	InvalidContext:       "InvalidContext",
	ScopeError:           "ScopeError",
	ScopeOverride:        "ScopeOverride",
	NotFoundInScope:      "NotFoundInScope",
	UnifyTypeError:       "UnifyTypeError",
	TypeInferenceError:   "TypeInferenceError",
	PlaceTypeError:       "PlaceTypeError",
	InternalError:        "InternalError",
	Empty:                "Empty",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("<invalid Kind %d>", k)
	}
	return kindNames[k]
}

// Diagnostic is a single fault, exactly the record shape of spec.md §6.
type Diagnostic struct {
	Kind    Kind
	Message string
	Span    *token.Span
	Level   Level
}

func (d Diagnostic) String() string {
	if d.Span == nil {
		return fmt.Sprintf("%s: %s: %s", d.Level, d.Kind, d.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s: %s", d.Span.StartLine, d.Span.StartOffset, d.Level, d.Kind, d.Message)
}

// Bag accumulates diagnostics across every stage of a compilation. It is
// the one mutable cross-stage surface besides the id Generator (spec.md
// §5, §9): every stage receives the same *Bag by reference.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Addf is a convenience wrapper that formats Message.
func (b *Bag) Addf(kind Kind, level Level, span *token.Span, format string, args ...any) {
	b.Add(Diagnostic{Kind: kind, Level: level, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Errorf logs an Error-level diagnostic.
func (b *Bag) Errorf(kind Kind, span *token.Span, format string, args ...any) {
	b.Addf(kind, Error, span, format, args...)
}

// Notef logs a Note-level diagnostic.
func (b *Bag) Notef(kind Kind, span *token.Span, format string, args ...any) {
	b.Addf(kind, Note, span, format, args...)
}

// Internal logs an Error-level InternalError. Bag never panics, and no
// caller turns an InternalError entry into a panic.
func (b *Bag) Internal(span *token.Span, format string, args ...any) {
	b.Addf(InternalError, Error, span, format, args...)
}

// Items returns the accumulated diagnostics, sorted by span (ties broken by
// insertion order), mirroring the teacher's ErrorList.Sort idiom.
func (b *Bag) Items() []Diagnostic {
	out := slices.Clone(b.items)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Span, out[j].Span
		if si == nil || sj == nil {
			return si != nil
		}
		if si.StartLine != sj.StartLine {
			return si.StartLine < sj.StartLine
		}
		return si.StartOffset < sj.StartOffset
	})
	return out
}

// HasErrors reports whether any accumulated diagnostic is Error level.
// Warnings alone do not fail compilation (spec.md §7).
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Len reports the number of accumulated diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Truncate discards every diagnostic logged after the first n. The parser's
// checkpoint/rewind discipline uses this to undo diagnostics emitted during
// an abandoned speculative parse (spec.md §4.1).
func (b *Bag) Truncate(n int) {
	if n < len(b.items) {
		b.items = b.items[:n]
	}
}
