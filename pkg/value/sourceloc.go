package value

import (
	"fmt"
	"net/url"
)

// SourceLocation is a URI optionally annotated with an offset/length
// span and, further optionally, a begin/end line-column box, per
// spec.md §4.5's `|uri|(offset,length,<bL,bC>,<eL,eC>)` grammar.
type SourceLocation struct {
	uri *url.URL

	hasSpan        bool
	offset, length int

	hasBox                             bool
	beginLine, beginCol, endLine, endCol int
}

func (s *SourceLocation) Hash() uint64 {
	h := fnvString("loc:" + s.uri.String())
	if s.hasSpan {
		h = combineOrdered(h, uint64(s.offset))
		h = combineOrdered(h, uint64(s.length))
	}
	if s.hasBox {
		h = combineOrdered(h, uint64(s.beginLine))
		h = combineOrdered(h, uint64(s.beginCol))
		h = combineOrdered(h, uint64(s.endLine))
		h = combineOrdered(h, uint64(s.endCol))
	}
	return h
}
func (s *SourceLocation) identityHash() uint64       { return s.Hash() }
func (s *SourceLocation) identityEqual(o Value) bool { return s.Equal(o) }

func (s *SourceLocation) Equal(other Value) bool {
	o, ok := other.(*SourceLocation)
	if !ok {
		return false
	}
	if s.uri.String() != o.uri.String() {
		return false
	}
	if s.hasSpan != o.hasSpan {
		return false
	}
	if s.hasSpan && (s.offset != o.offset || s.length != o.length) {
		return false
	}
	if s.hasBox != o.hasBox {
		return false
	}
	if s.hasBox && (s.beginLine != o.beginLine || s.beginCol != o.beginCol ||
		s.endLine != o.endLine || s.endCol != o.endCol) {
		return false
	}
	return true
}

func (s *SourceLocation) Type() Type { return Type{Kind: KindSourceLocation} }

func (s *SourceLocation) String() string {
	out := "|" + s.uri.String() + "|"
	if !s.hasSpan {
		return out
	}
	if !s.hasBox {
		return fmt.Sprintf("%s(%d,%d)", out, s.offset, s.length)
	}
	return fmt.Sprintf("%s(%d,%d,<%d,%d>,<%d,%d>)", out, s.offset, s.length,
		s.beginLine, s.beginCol, s.endLine, s.endCol)
}

func (s *SourceLocation) Accept(v Visitor) any { return v.VisitSourceLocation(s) }

// URI returns the location's URI.
func (s *SourceLocation) URI() *url.URL { return s.uri }

// Span returns the offset/length pair and whether one was set.
func (s *SourceLocation) Span() (offset, length int, ok bool) {
	return s.offset, s.length, s.hasSpan
}

// Box returns the begin/end line-column box and whether one was set.
func (s *SourceLocation) Box() (beginLine, beginCol, endLine, endCol int, ok bool) {
	return s.beginLine, s.beginCol, s.endLine, s.endCol, s.hasBox
}
