package collection

import "github.com/usethesource/pdb.values/internal/hamt"

// SetHasher defines hashing and equivalence for a set's elements. It is
// narrower than Hasher[K,V]: a set has no value slot to hash, only
// elements, so there is a single widened hash (Hash64) rather than a
// separate key/value pair.
type SetHasher[T any] interface {
	hamt.Hasher[T]
	Hash64(elem T) uint64
}

// setValueAdapter turns a SetHasher[T] into the Hasher[T, struct{}] a
// Map needs, per spec.md §4.3's "the set is implemented as a map with
// unit values": the unit value never contributes to the cumulative
// hash, and any two units are equal.
type setValueAdapter[T any] struct{ h SetHasher[T] }

func (a setValueAdapter[T]) Hash(k T) hamt.MixedHash     { return a.h.Hash(k) }
func (a setValueAdapter[T]) Equal(x, y T) bool           { return a.h.Equal(x, y) }
func (a setValueAdapter[T]) KeyHash64(k T) uint64        { return a.h.Hash64(k) }
func (a setValueAdapter[T]) ValueHash64(struct{}) uint64 { return 0 }
func (a setValueAdapter[T]) EqualValue(struct{}, struct{}) bool {
	return true
}

// Set is a persistent set, implemented as a Map[T, struct{}].
type Set[T any] struct {
	m *Map[T, struct{}]
}

// NewSet returns an empty persistent set using h for hashing/equality.
func NewSet[T any](h SetHasher[T]) *Set[T] {
	return &Set[T]{m: NewMap[T, struct{}](setValueAdapter[T]{h})}
}

// Len returns the number of elements.
func (s *Set[T]) Len() uint64 { return s.m.Len() }

// Hash returns the cumulative XOR of every element's hash.
func (s *Set[T]) Hash() uint64 { return s.m.Hash() }

// Contains reports whether elem is a member.
func (s *Set[T]) Contains(elem T) bool {
	_, ok := s.m.Get(elem)
	return ok
}

// Add returns a new Set with elem present.
func (s *Set[T]) Add(elem T) *Set[T] {
	return &Set[T]{m: s.m.Put(elem, struct{}{})}
}

// Delete returns a new Set with elem absent.
func (s *Set[T]) Delete(elem T) *Set[T] {
	return &Set[T]{m: s.m.Delete(elem)}
}

// Equal reports whether s and o hold the same elements.
func (s *Set[T]) Equal(o *Set[T]) bool {
	return s.m.Equal(o.m)
}

// All calls yield for every element, in unspecified order, stopping
// early if yield returns false.
func (s *Set[T]) All(yield func(elem T) bool) {
	s.m.All(func(k T, _ struct{}) bool { return yield(k) })
}

// Transient returns a single-writer builder sharing s's current
// structure.
func (s *Set[T]) Transient() *TransientSet[T] {
	return &TransientSet[T]{t: s.m.Transient()}
}

// TransientSet is a single-writer builder for batch set construction.
type TransientSet[T any] struct {
	t *TransientMap[T, struct{}]
}

// NewTransientSet returns an empty transient set builder.
func NewTransientSet[T any](h SetHasher[T]) *TransientSet[T] {
	return &TransientSet[T]{t: NewTransientMap[T, struct{}](setValueAdapter[T]{h})}
}

// Add inserts elem in place.
func (t *TransientSet[T]) Add(elem T) { t.t.Put(elem, struct{}{}) }

// Delete removes elem in place, if present.
func (t *TransientSet[T]) Delete(elem T) { t.t.Delete(elem) }

// Contains reports whether elem is currently a member.
func (t *TransientSet[T]) Contains(elem T) bool {
	_, ok := t.t.Get(elem)
	return ok
}

// Len returns the current element count.
func (t *TransientSet[T]) Len() uint64 { return t.t.Len() }

// Freeze publishes the builder's current content as an immutable Set.
func (t *TransientSet[T]) Freeze() *Set[T] {
	return &Set[T]{m: t.t.Freeze()}
}
