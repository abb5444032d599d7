// Package collection implements the persistent and transient map and set
// that spec.md §4.3 describes: a wrapper over a HAMT root (internal/hamt)
// holding a cached size and a cached cumulative hash.
//
// Grounded on ctrie.Map's public surface (Set/Get/Delete/Clone/RClone/
// Len/Iterator, NewWithFuncs' explicit-hasher construction) generalized
// from ctrie's own lock-free node family onto internal/hamt, and on
// ctrie.Map's read-only/read-write Clone split for the persistent/
// transient distinction (reworked onto spec.md's owner-token transients,
// see internal/hamt.Owner).
package collection

import (
	"github.com/usethesource/pdb.values/internal/hamt"
)

// Hasher defines hashing and equivalence for a map's keys and values.
// KeyHash/ValueHash feed the map's cached cumulative hash (spec.md's data
// model calls for a u64 cache); Hash is the narrower, already-mixed hash
// (internal/hash.MixedHash) the trie dispatches on.
//
// Grounded on anyhash.Hasher[T] from the pack (Hash/Equal typeclass
// pattern), split into two widths because spec.md's own data model
// distinguishes a 32-bit mixedHash (trie dispatch, HAMT collision nodes)
// from a 64-bit cachedHash (map/set level).
type Hasher[K, V any] interface {
	hamt.Hasher[K]
	KeyHash64(key K) uint64
	ValueHash64(val V) uint64
	EqualValue(a, b V) bool
}

// Map is a persistent, hash-consing-friendly map: every mutation returns a
// new Map, sharing all unmodified structure with the receiver.
type Map[K, V any] struct {
	h          Hasher[K, V]
	root       hamt.Node[K, V]
	size       uint64
	cachedHash uint64
}

// NewMap returns an empty persistent map using h for hashing/equality.
func NewMap[K, V any](h Hasher[K, V]) *Map[K, V] {
	return &Map[K, V]{h: h, root: hamt.Empty[K, V](nil)}
}

// Len returns the number of entries. This is the cached size, not a
// recount: spec.md invariant 7 requires it stay exact across every
// mutation, which Put/Delete below maintain incrementally.
func (m *Map[K, V]) Len() uint64 { return m.size }

// Hash returns the cached cumulative hash: the XOR, over every entry, of
// KeyHash64(key) ^ ValueHash64(value).
func (m *Map[K, V]) Hash() uint64 { return m.cachedHash }

// Get returns the value bound to key, if any.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return hamt.Get(m.root, m.h, key)
}

// Put returns a new Map with key bound to val, replacing any prior
// binding. Size is incremented only when key is new; the cached hash is
// updated incrementally (XOR out any old contribution, XOR in the new
// one), never recomputed from scratch.
func (m *Map[K, V]) Put(key K, val V) *Map[K, V] {
	newRoot, oldVal, hadOld := hamt.Insert(m.root, m.h, key, val, nil)
	keyHash := m.h.KeyHash64(key)
	newHash := m.cachedHash ^ keyHash ^ m.h.ValueHash64(val)
	size := m.size
	if hadOld {
		newHash ^= keyHash ^ m.h.ValueHash64(oldVal)
	} else {
		size++
	}
	return &Map[K, V]{h: m.h, root: newRoot, size: size, cachedHash: newHash}
}

// Delete returns a new Map with key unbound, if it was present.
func (m *Map[K, V]) Delete(key K) *Map[K, V] {
	newRoot, oldVal, removed := hamt.Remove(m.root, m.h, key)
	if !removed {
		return m
	}
	keyHash := m.h.KeyHash64(key)
	newHash := m.cachedHash ^ keyHash ^ m.h.ValueHash64(oldVal)
	return &Map[K, V]{h: m.h, root: newRoot, size: m.size - 1, cachedHash: newHash}
}

// Equal reports whether m and o hold the same entries. It first compares
// the cheap invariants (size, cached hash) before falling back to
// structural node equality, exactly as spec.md §4.3's "Fast equality"
// prescribes.
func (m *Map[K, V]) Equal(o *Map[K, V]) bool {
	if m == o {
		return true
	}
	if m.size != o.size || m.cachedHash != o.cachedHash {
		return false
	}
	return hamt.Equal(m.h, m.h.EqualValue, m.root, o.root)
}

// All calls yield for every entry, in unspecified order (spec.md's
// explicit non-goal: no attempt at ordered iteration), stopping early if
// yield returns false.
func (m *Map[K, V]) All(yield func(key K, val V) bool) {
	hamt.Each(m.root, yield)
}

// Transient returns a single-writer builder sharing m's current
// structure. Mutating the transient never affects m.
func (m *Map[K, V]) Transient() *TransientMap[K, V] {
	return &TransientMap[K, V]{
		h:          m.h,
		owner:      hamt.NewOwner(),
		root:       m.root,
		size:       m.size,
		cachedHash: m.cachedHash,
	}
}

// TransientMap is a single-writer builder for batch map construction
// (spec.md §4.3, §9: "Transient builders"). Every TransientMap method
// must be called from a single goroutine; sharing one across goroutines
// is undefined behavior, exactly as a ctrie.Map read-write clone
// documents for its own mutators.
type TransientMap[K, V any] struct {
	h          Hasher[K, V]
	owner      *hamt.Owner
	root       hamt.Node[K, V]
	size       uint64
	cachedHash uint64
	frozen     bool
}

// NewTransientMap returns an empty transient map builder.
func NewTransientMap[K, V any](h Hasher[K, V]) *TransientMap[K, V] {
	return &TransientMap[K, V]{h: h, owner: hamt.NewOwner(), root: hamt.Empty[K, V](nil)}
}

// Put binds key to val in place, mutating nodes this transient owns
// rather than copying them. It panics with ErrFrozen if called after
// Freeze.
func (t *TransientMap[K, V]) Put(key K, val V) {
	t.assertWritable()
	newRoot, oldVal, hadOld := hamt.Insert(t.root, t.h, key, val, t.owner)
	t.root = newRoot
	keyHash := t.h.KeyHash64(key)
	t.cachedHash ^= keyHash ^ t.h.ValueHash64(val)
	if hadOld {
		t.cachedHash ^= keyHash ^ t.h.ValueHash64(oldVal)
	} else {
		t.size++
	}
}

// Delete unbinds key in place, if it was bound.
func (t *TransientMap[K, V]) Delete(key K) {
	t.assertWritable()
	newRoot, oldVal, removed := hamt.Remove(t.root, t.h, key)
	if !removed {
		return
	}
	t.root = newRoot
	t.size--
	t.cachedHash ^= t.h.KeyHash64(key) ^ t.h.ValueHash64(oldVal)
}

// Get returns the value bound to key, if any. Read operations may be
// called freely during a transient build.
func (t *TransientMap[K, V]) Get(key K) (V, bool) {
	return hamt.Get(t.root, t.h, key)
}

// Len returns the current entry count.
func (t *TransientMap[K, V]) Len() uint64 { return t.size }

// Freeze publishes the builder's current content as an immutable Map and
// clears the transient's owner token: any further write through t (by any
// reference to it) fails. Freezing an already-frozen transient is a
// no-op that returns the same snapshot again.
func (t *TransientMap[K, V]) Freeze() *Map[K, V] {
	t.frozen = true
	t.owner = nil // clears the token: nodes under it stop accepting in-place mutation.
	return &Map[K, V]{h: t.h, root: t.root, size: t.size, cachedHash: t.cachedHash}
}

func (t *TransientMap[K, V]) assertWritable() {
	if t.frozen {
		panic(ErrFrozen)
	}
}

// frozenError is the UnsupportedOperation spec.md §7 calls for when a
// caller writes through a frozen transient.
type frozenError struct{}

func (frozenError) Error() string { return "pdb.values: write to a frozen transient" }

// ErrFrozen is the value TransientMap and TransientSet panic with
// (mirroring the teacher's own assertReadWrite panic in ctrie.go) when
// written to after Freeze; it is never returned as an error result.
var ErrFrozen = frozenError{}
