package value

import (
	"strings"

	"github.com/usethesource/pdb.values/internal/hamt"
	"github.com/usethesource/pdb.values/pkg/collection"
)

// valueHasher adapts Value's own Hash/Equal into the typeclasses
// pkg/collection needs to back Set and Map values: every Value already
// knows how to hash and compare itself, so a single adapter, grounded on
// the same typeclass-over-an-existing-method pattern anyhash/map.go
// uses, closes the loop between the two packages.
type valueHasher struct{}

func (valueHasher) Hash(k Value) hamt.MixedHash  { return mixedHashOf(k) }
func (valueHasher) Equal(a, b Value) bool        { return a.Equal(b) }
func (valueHasher) KeyHash64(k Value) uint64     { return k.Hash() }
func (valueHasher) ValueHash64(v Value) uint64   { return v.Hash() }
func (valueHasher) EqualValue(a, b Value) bool   { return a.Equal(b) }
func (valueHasher) Hash64(elem Value) uint64     { return elem.Hash() }

// List is an ordered, indexable sequence of values.
type List struct {
	elems []Value
}

func (l *List) Hash() uint64 {
	h := fnvOffset64
	for _, e := range l.elems {
		h = combineOrdered(h, e.Hash())
	}
	return h
}
func (l *List) identityHash() uint64       { return l.Hash() }
func (l *List) identityEqual(o Value) bool { return l.Equal(o) }

func (l *List) Equal(other Value) bool {
	o, ok := other.(*List)
	if !ok || len(l.elems) != len(o.elems) {
		return false
	}
	for i, e := range l.elems {
		if !e.Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

func (l *List) Type() Type { return Type{Kind: KindList} }

func (l *List) String() string {
	parts := make([]string, len(l.elems))
	for i, e := range l.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (l *List) Accept(v Visitor) any { return v.VisitList(l) }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// Get returns the element at i. It panics on out-of-range i, exactly as
// a Go slice index does.
func (l *List) Get(i int) Value { return l.elems[i] }

// All calls yield for every element in positional order, stopping early
// if yield returns false.
func (l *List) All(yield func(i int, elem Value) bool) {
	for i, e := range l.elems {
		if !yield(i, e) {
			return
		}
	}
}

// Tuple is a fixed-width, heterogeneous ordered product of values.
type Tuple struct {
	elems []Value
}

func (t *Tuple) Hash() uint64 {
	h := fnvOffset64
	for _, e := range t.elems {
		h = combineOrdered(h, e.Hash())
	}
	return combineOrdered(h, uint64(len(t.elems)))
}
func (t *Tuple) identityHash() uint64       { return t.Hash() }
func (t *Tuple) identityEqual(o Value) bool { return t.Equal(o) }

func (t *Tuple) Equal(other Value) bool {
	o, ok := other.(*Tuple)
	if !ok || len(t.elems) != len(o.elems) {
		return false
	}
	for i, e := range t.elems {
		if !e.Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

func (t *Tuple) Type() Type {
	children := make([]Type, len(t.elems))
	for i, e := range t.elems {
		children[i] = e.Type()
	}
	return Type{Kind: KindTuple, Children: children}
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		parts[i] = e.String()
	}
	return "<" + strings.Join(parts, ",") + ">"
}

func (t *Tuple) Accept(v Visitor) any { return v.VisitTuple(t) }

// Len returns the tuple's arity.
func (t *Tuple) Len() int { return len(t.elems) }

// Get returns the element at i. It panics on out-of-range i.
func (t *Tuple) Get(i int) Value { return t.elems[i] }

// Set is an unordered collection of distinct values, backed by
// pkg/collection's persistent set over a HAMT.
type Set struct {
	s *collection.Set[Value]
}

func (s *Set) Hash() uint64                { return s.s.Hash() }
func (s *Set) identityHash() uint64        { return s.Hash() }
func (s *Set) identityEqual(o Value) bool  { return s.Equal(o) }

func (s *Set) Equal(other Value) bool {
	o, ok := other.(*Set)
	return ok && s.s.Equal(o.s)
}

func (s *Set) Type() Type { return Type{Kind: KindSet} }

func (s *Set) String() string {
	var parts []string
	s.s.All(func(elem Value) bool {
		parts = append(parts, elem.String())
		return true
	})
	return "{" + strings.Join(parts, ",") + "}"
}

func (s *Set) Accept(v Visitor) any { return v.VisitSet(s) }

// Len returns the number of elements.
func (s *Set) Len() uint64 { return s.s.Len() }

// Contains reports whether elem is a member.
func (s *Set) Contains(elem Value) bool { return s.s.Contains(elem) }

// All calls yield for every element, in unspecified order.
func (s *Set) All(yield func(elem Value) bool) { s.s.All(yield) }

// Map is an unordered association of distinct keys to values, backed by
// pkg/collection's persistent map over a HAMT.
type Map struct {
	m *collection.Map[Value, Value]
}

func (m *Map) Hash() uint64                { return m.m.Hash() }
func (m *Map) identityHash() uint64        { return m.Hash() }
func (m *Map) identityEqual(o Value) bool  { return m.Equal(o) }

func (m *Map) Equal(other Value) bool {
	o, ok := other.(*Map)
	return ok && m.m.Equal(o.m)
}

func (m *Map) Type() Type { return Type{Kind: KindMap} }

func (m *Map) String() string {
	var parts []string
	m.m.All(func(k, v Value) bool {
		parts = append(parts, k.String()+":"+v.String())
		return true
	})
	return "(" + strings.Join(parts, ",") + ")"
}

func (m *Map) Accept(v Visitor) any { return v.VisitMap(m) }

// Len returns the number of entries.
func (m *Map) Len() uint64 { return m.m.Len() }

// Get returns the value bound to key, if any.
func (m *Map) Get(key Value) (Value, bool) { return m.m.Get(key) }

// All calls yield for every entry, in unspecified order.
func (m *Map) All(yield func(key, val Value) bool) { m.m.All(yield) }
