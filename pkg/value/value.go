// Package value implements the concrete value algebra the core library
// exists to serve: immutable, hash-consed primitives, containers and
// terms, built exclusively through a Factory and compared, hashed and
// printed through one shared capability set.
//
// Grounded on anyhash/map.go's Hasher[T] typeclass pattern (a pluggable
// Hash/Equal contract, here realized as the Value interface's own
// methods rather than an external typeclass, since every concrete kind
// here knows how to hash and compare itself) and on spec.md §9's note
// that the source's deep value-kind inheritance hierarchy maps to a
// single tagged-variant capability set rather than per-kind dispatch
// tables: callers never type-switch on a concrete kind, they call
// Value's methods or its Accept visitor hook.
package value

import (
	"github.com/usethesource/pdb.values/internal/hamt"
	"github.com/usethesource/pdb.values/internal/hash"
)

// Value is the capability set every value kind implements. It mirrors
// spec.md's Data Model entry for "Value": an opaque tag plus
// kind-specific payload, with hash/equals/print as the externally
// observable contract.
type Value interface {
	// Hash returns a 64-bit hash consistent with Equal: a.Equal(b)
	// implies a.Hash() == b.Hash() (invariant 2).
	Hash() uint64

	// Equal reports structural equality under this library's equality
	// flavor: cross-kind comparisons are always false, and for node/
	// constructor values keyword parameters do not participate (see
	// identityEqual for the stricter relation hash-consing uses).
	Equal(other Value) bool

	// Type returns this value's dynamic type.
	Type() Type

	// String returns the canonical textual form (see pkg/text, which
	// is the authoritative writer; String is provided for convenience
	// and debugging and matches pkg/text.Writer.ValueToString exactly).
	String() string

	// Accept invokes the Visitor method matching this value's kind and
	// returns its result, flattening what would otherwise be per-kind
	// dispatch into a single visitor call.
	Accept(v Visitor) any
}

// identity is implemented by every concrete Value kind alongside Value
// itself. For most kinds identityHash/identityEqual simply delegate to
// Hash/Equal; node and constructor values additionally fold in their
// keyword parameters, per the Open Question decision recorded in
// DESIGN.md: the public Equal ignores keyword parameters, but the
// hash-consing cache must still keep values with different keyword
// parameters as distinct canonical instances.
type identity interface {
	identityHash() uint64
	identityEqual(other Value) bool
}

// Visitor is the traversal capability spec.md §9 calls for in place of
// per-kind virtual dispatch tables. Each method receives the
// already-typed payload for its kind.
type Visitor interface {
	VisitInteger(*Integer) any
	VisitRational(*Rational) any
	VisitReal(*Real) any
	VisitBoolean(Boolean) any
	VisitString(String) any
	VisitDateTime(*DateTime) any
	VisitSourceLocation(*SourceLocation) any
	VisitList(*List) any
	VisitSet(*Set) any
	VisitMap(*Map) any
	VisitTuple(*Tuple) any
	VisitNode(*Node) any
	VisitConstructor(*Constructor) any
}

// mixedHashOf narrows a Value's wide hash down to the 32-bit dispatch
// hash internal/hamt's tries need, applying the library's single bit
// mixer exactly once, per spec.md §4.1.
func mixedHashOf(v Value) hamt.MixedHash {
	return hash.Mix64(v.Hash())
}

// combineOrdered folds h2 into an order-sensitive running hash h1: used
// by list/tuple/node positional children, where swapping two elements
// must change the result (unlike a set or map's XOR accumulation, which
// is deliberately order-insensitive).
func combineOrdered(h1, h2 uint64) uint64 {
	return h1*1099511628211 ^ h2
}

const fnvOffset64 uint64 = 14695981039346656037

func fnvString(s string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
