// ==============================================================================================
// FILE: xformerr/errors.go
// ==============================================================================================
// PACKAGE: xformerr
// PURPOSE: A uniform "fails with" discipline — a closed set of
//          named failure kinds, each carrying a short diagnostic and
//          (where known) a source position, propagated as plain Go errors
//          up to the CLI boundary rather than caught internally.
// ==============================================================================================

package xformerr

import "fmt"

// Kind is one of the named failure kinds. Two kinds that the
// original Rust reference happened to report under the same string code
// (no-matching-case vs no-matching-rule, both "XFDY0001" there) are kept
// distinct here so a caller can tell them apart with errors.Is/As instead of
// parsing message text.
type Kind string

const (
	Parse             Kind = "Parse"
	UnsupportedVersion Kind = "UnsupportedVersion"
	UnknownFunction   Kind = "UnknownFunction"
	Arity             Kind = "Arity"
	NoMatchingCase    Kind = "NoMatchingCase"
	NoMatchingRule    Kind = "NoMatchingRule"
	Conversion        Kind = "Conversion"
	BadOperator       Kind = "BadOperator"
	MarkupParse       Kind = "MarkupParse"
	IO                Kind = "IO"
)

// Error is the single error type every XForm-facing package returns.
type Error struct {
	Kind Kind
	Msg  string
	Pos  int // rune offset into the relevant source; -1 if not applicable
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (at %d)", e.Kind, e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an Error with no associated position.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

// At builds an Error carrying a source position.
func At(kind Kind, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Is reports whether target is an *Error of the same Kind as e, so
// errors.Is(err, xformerr.New(xformerr.Parse, "")) matches any Parse
// failure whatever its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
