// Package hamt implements the Hash-Array-Mapped Trie that backs
// pkg/collection's persistent and transient maps and sets.
//
// A trie is built from two node kinds: branchNode, a 32-way bitmap-indexed
// node, and collisionNode, a linear-scan leaf used only when two or more
// keys share a mixed hash at every level the trie can distinguish. Both are
// immutable once published, except for nodes created within a single
// Owner's transient build, which that Owner may mutate in place.
//
// This is grounded on ctrie.go's cNode/sNode/iNode layout (bitmap slots,
// flagPos-style dense indexing, copy-on-write node surgery) but is
// restructured around the dataMap/nodeMap split and owner-token transients
// spec'd for this library, rather than ctrie's lock-free generation
// scheme: nothing here needs to be safe for concurrent mutation, since a
// transient has exactly one writer and a persistent node is never mutated.
package hamt

import (
	"math/bits"

	"github.com/usethesource/pdb.values/internal/hash"
)

// MixedHash re-exports hash.MixedHash so callers need not import both
// packages for the common case of passing a hash through.
type MixedHash = hash.MixedHash

// Hasher defines the hash and equivalence relation a trie uses for its
// keys. Hash must already be mixed (see hash.Mix); Equal must be
// consistent with Hash: equal keys must hash identically.
//
// Grounded on anyhash.Hasher[T] (Hash(*maphash.Hash, T)/Equal(x, y T) bool)
// from the pack, adapted to return a MixedHash directly rather than
// writing into a maphash.Hash, since tries need the hash value itself for
// dispatch, not just a comparison digest.
type Hasher[K any] interface {
	Hash(key K) MixedHash
	Equal(a, b K) bool
}

// Owner is an opaque token identifying a transient build. A node created or
// last mutated by a given Owner may be mutated again, in place, only by
// that same Owner; comparison is by pointer identity. A nil Owner means
// "persistent, frozen" — no in-place mutation is ever permitted.
type Owner struct{}

// NewOwner returns a fresh token for a new transient build.
func NewOwner() *Owner { return &Owner{} }

// Node is the capability set shared by branchNode and collisionNode.
//
// Per the library's design note on flattening deep value-kind hierarchies
// into a single behavioral capability set, Node keeps that same shape here:
// callers never type-switch on node kind, they call the interface.
type Node[K, V any] interface {
	// get looks up key (whose mixed hash is mh) starting at depth.
	get(h Hasher[K], key K, mh MixedHash, depth uint) (val V, ok bool)

	// insert returns a node with key bound to val, replacing any existing
	// binding. owner, if non-nil, permits in-place mutation of nodes this
	// same owner previously created. hadOld reports whether key was
	// already bound (so the caller can decide whether size increased).
	insert(h Hasher[K], key K, val V, mh MixedHash, depth uint, owner *Owner) (result Node[K, V], oldVal V, hadOld bool)

	// remove returns a node with key unbound, if it was bound. A returned
	// node with arity() == 0 signals "this subtree is now empty" to the
	// caller; arity() == 1 (with no sub-nodes) signals "inline me" via
	// trySingleton. Both are ordinary, valid Node values — the *caller*
	// decides whether to collapse them, which is what lets a single
	// recursive definition serve every depth including the root.
	remove(h Hasher[K], key K, mh MixedHash, depth uint) (result Node[K, V], oldVal V, removed bool)

	// equalNode reports structural equality with other, which must have
	// been built with an equivalent Hasher. valEq compares two payload
	// values; it is supplied separately from Hasher because Hasher only
	// needs to know about keys (trie dispatch never looks at values).
	equalNode(h Hasher[K], valEq func(a, b V) bool, other Node[K, V]) bool

	// each calls yield for every entry in this subtree, stopping early if
	// yield returns false. It returns false iff iteration was stopped
	// early. Order is unspecified — per spec, the trie makes no ordering
	// guarantee.
	each(yield func(key K, val V) bool) bool

	// arity is popcount(dataMap)+popcount(nodeMap) for a branchNode; for a
	// collisionNode it is always >= 2 (collisionNode.remove converts a
	// one-entry collision back into a branchNode, so a collisionNode with
	// arity 0 or 1 never exists).
	arity() int

	// trySingleton reports, via ok, whether this node's entire content is
	// exactly one payload entry (arity 1, no sub-nodes) and returns it.
	// remove uses this to decide whether a shrunk child should be inlined
	// into its parent's data slots.
	trySingleton() (key K, val V, ok bool)
}

// mapEntry is a single key/value payload stored in a branchNode's data
// slots or a collisionNode's parallel arrays.
type mapEntry[K, V any] struct {
	key K
	val V
}

// popcount is math/bits.OnesCount32 under a name that reads naturally next
// to dataMap/nodeMap arithmetic; no pack example or known library exposes
// popcount except via math/bits, which the teacher itself calls directly
// in ctrie.go.
func popcount(bitmap uint32) int {
	return bits.OnesCount32(bitmap)
}

// denseIndex returns the position within the packed slots for bitmap that a
// given 5-bit slot index i maps to: the count of set bits below i.
func denseIndex(bitmap uint32, i uint32) int {
	return popcount(bitmap & ((uint32(1) << i) - 1))
}

// Empty returns a fresh, empty branchNode owned by owner (nil for
// persistent). It is the root of an empty Map/Set and the node collision
// nodes convert back into when reduced to a single surviving entry.
func Empty[K, V any](owner *Owner) Node[K, V] {
	return &branchNode[K, V]{owner: owner}
}

// The functions below are the package's only exported entry points into
// Node's otherwise-unexported capability set: pkg/collection drives a
// trie purely through these, never through type assertions on Node
// itself, so the two node kinds stay free to change shape independently.

// Get looks up key in root.
func Get[K, V any](root Node[K, V], h Hasher[K], key K) (V, bool) {
	return root.get(h, key, h.Hash(key), 0)
}

// Insert returns a root with key bound to val. owner, if non-nil, allows
// mutating nodes that same owner previously created.
func Insert[K, V any](root Node[K, V], h Hasher[K], key K, val V, owner *Owner) (Node[K, V], V, bool) {
	return root.insert(h, key, val, h.Hash(key), 0, owner)
}

// Remove returns a root with key unbound, if it was present.
func Remove[K, V any](root Node[K, V], h Hasher[K], key K) (Node[K, V], V, bool) {
	return root.remove(h, key, h.Hash(key), 0)
}

// Equal reports whether two tries are structurally equal: same shape,
// equal keys under h, equal values under valEq.
func Equal[K, V any](h Hasher[K], valEq func(a, b V) bool, a, b Node[K, V]) bool {
	return a.equalNode(h, valEq, b)
}

// Each calls yield for every entry reachable from root, in unspecified
// order, stopping early if yield returns false.
func Each[K, V any](root Node[K, V], yield func(key K, val V) bool) bool {
	return root.each(yield)
}

// Arity returns root's direct fan-out (see Node.arity).
func Arity[K, V any](root Node[K, V]) int {
	return root.arity()
}
