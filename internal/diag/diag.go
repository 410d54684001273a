package diag

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	language "github.com/hanpama/gqlmodel/internal/language"
)

// Kind classifies a compile error.
type Kind string

const (
	KindUnresolvedScalar          Kind = "UnresolvedScalar"
	KindUnknownType               Kind = "UnknownType"
	KindUnknownField              Kind = "UnknownField"
	KindUnresolvableOperationRoot Kind = "UnresolvableOperationRoot"
	KindDanglingFragmentSpread    Kind = "DanglingFragmentSpread"
	KindFragmentCycle             Kind = "FragmentCycle"
	KindDuplicateDocument         Kind = "DuplicateDocument"
	KindSyntax                    Kind = "Syntax"

	// Internal kinds signal a defect in the compiler, not in the input.
	KindAmbiguousPossibleTypePartition Kind = "AmbiguousPossibleTypePartition"
	KindAmbiguousSelectionKey          Kind = "AmbiguousSelectionKey"
	KindUnresolvedReference            Kind = "UnresolvedReference"
)

// Location points into a source file.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// At converts a parser position. A nil position yields the zero Location.
func At(pos *language.Position) Location {
	if pos == nil {
		return Location{}
	}
	loc := Location{Line: pos.Line, Column: pos.Column}
	if pos.Src != nil {
		loc.File = pos.Src.Name
	}
	return loc
}

// Site identifies where in a document a stage is working: the top-level
// document and the selection path from its root.
type Site struct {
	Document string
	Path     []string
	Location Location
}

// Error is one compile failure. Document is the operation or fragment
// whose compilation failed; Path is the selection path at the failure.
type Error struct {
	Kind     Kind     `json:"kind"`
	Document string   `json:"document,omitempty"`
	Path     []string `json:"path,omitempty"`
	Name     string   `json:"name,omitempty"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Internal() {
		b.WriteString("internal error: ")
	}
	b.WriteString(e.Message)
	if e.Document != "" {
		fmt.Fprintf(&b, " (document %s", e.Document)
		if len(e.Path) > 0 {
			fmt.Fprintf(&b, ", path %s", strings.Join(e.Path, "."))
		}
		b.WriteString(")")
	}
	if loc := e.Location.String(); loc != "" {
		b.WriteString(" ")
		b.WriteString(loc)
	}
	return b.String()
}

// Internal reports whether e signals a compiler defect.
func (e *Error) Internal() bool {
	switch e.Kind {
	case KindAmbiguousPossibleTypePartition, KindAmbiguousSelectionKey, KindUnresolvedReference:
		return true
	}
	return false
}

// List accumulates errors for one document.
type List []*Error

func (l List) Error() string {
	msg := "errors found:\n"
	for _, e := range l {
		msg += "- " + e.Error() + "\n"
	}
	return msg
}

// Err returns nil for an empty list so callers can `return errs.Err()`.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Combine merges per-document errors into one error value.
func Combine(errs ...error) error { return multierr.Combine(errs...) }

// Errors flattens err into its individual compile errors. Errors that are
// not *Error are wrapped with an empty kind.
func Errors(err error) []*Error {
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var list List
		var single *Error
		switch {
		case errors.As(e, &list):
			out = append(out, list...)
		case errors.As(e, &single):
			out = append(out, single)
		default:
			out = append(out, &Error{Message: e.Error()})
		}
	}
	return out
}

// WarningKind classifies a non-fatal finding.
type WarningKind string

const (
	// WarningDeadFragment marks a fragment whose type condition cannot match
	// any possible type of the enclosing selection.
	WarningDeadFragment WarningKind = "DeadFragment"
)

type Warning struct {
	Kind     WarningKind `json:"kind"`
	Document string      `json:"document"`
	Path     []string    `json:"path,omitempty"`
	Message  string      `json:"message"`
	Location Location    `json:"location"`
}

func (w Warning) String() string {
	s := fmt.Sprintf("%s: %s (document %s)", w.Kind, w.Message, w.Document)
	if loc := w.Location.String(); loc != "" {
		s += " " + loc
	}
	return s
}
