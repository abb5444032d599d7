package value

import "fmt"

// ParseError reports malformed input encountered by pkg/text.Reader, at
// a byte offset into the stream being read.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// TypeError reports that a value does not conform to an expected type:
// the reader's expectedType check, or a constructor argument of the
// wrong type.
type TypeError struct {
	Expected Type
	Actual   Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: expected %s, got %s", e.Expected, e.Actual)
}

// ArityError reports a constructor call with the wrong number of
// positional children.
type ArityError struct {
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity error: expected %d children, got %d", e.Expected, e.Actual)
}

// OverloadError reports that a constructor name resolved to more than
// one candidate signature and the call was ambiguous.
type OverloadError struct {
	Name       string
	Candidates []Type
}

func (e *OverloadError) Error() string {
	return fmt.Sprintf("ambiguous constructor %q: %d candidates", e.Name, len(e.Candidates))
}

// DomainError reports a factory precondition violation outside the
// type/arity system: a negative source-location offset, an inconsistent
// line/column box, an unknown constructor name.
type DomainError struct {
	Which string
	Value any
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error: %s (%v)", e.Which, e.Value)
}
