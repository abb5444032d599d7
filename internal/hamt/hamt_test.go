package hamt

import (
	"strconv"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/usethesource/pdb.values/internal/hash"
)

// stringHasher hashes strings by feeding their bytes through the FNV-ish
// accumulator below then the package's own bit mixer, so tests exercise
// the real Mix/Slice dispatch path rather than a stand-in.
type stringHasher struct{}

func (stringHasher) Hash(key string) MixedHash {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return hash.Mix(h)
}

func (stringHasher) Equal(a, b string) bool { return a == b }

func intEq(a, b int) bool { return a == b }

func TestInsertGetBasic(t *testing.T) {
	c := qt.New(t)
	h := stringHasher{}
	var root Node[string, int] = Empty[string, int](nil)

	_, ok := Get(root, h, "foo")
	c.Assert(ok, qt.IsFalse)

	root, _, hadOld := Insert(root, h, "foo", 1, nil)
	c.Assert(hadOld, qt.IsFalse)

	v, ok := Get(root, h, "foo")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 1)

	root, old, hadOld := Insert(root, h, "foo", 2, nil)
	c.Assert(hadOld, qt.IsTrue)
	c.Assert(old, qt.Equals, 1)

	v, ok = Get(root, h, "foo")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 2)
}

func TestInsertManyAndGetAll(t *testing.T) {
	c := qt.New(t)
	h := stringHasher{}
	var root Node[string, int] = Empty[string, int](nil)

	const n = 500
	for i := 0; i < n; i++ {
		root, _, _ = Insert(root, h, strconv.Itoa(i), i, nil)
	}
	c.Assert(Arity(root) > 0, qt.IsTrue)

	for i := 0; i < n; i++ {
		v, ok := Get(root, h, strconv.Itoa(i))
		c.Assert(ok, qt.IsTrue)
		c.Assert(v, qt.Equals, i)
	}

	seen := 0
	Each(root, func(key string, val int) bool {
		seen++
		return true
	})
	c.Assert(seen, qt.Equals, n)
}

func TestRemoveShrinksAndForgets(t *testing.T) {
	c := qt.New(t)
	h := stringHasher{}
	var root Node[string, int] = Empty[string, int](nil)

	const n = 200
	for i := 0; i < n; i++ {
		root, _, _ = Insert(root, h, strconv.Itoa(i), i, nil)
	}
	for i := 0; i < n; i++ {
		var old int
		var removed bool
		root, old, removed = Remove(root, h, strconv.Itoa(i))
		c.Assert(removed, qt.IsTrue)
		c.Assert(old, qt.Equals, i)
	}
	c.Assert(Arity(root), qt.Equals, 0)

	_, ok := Get(root, h, "0")
	c.Assert(ok, qt.IsFalse)
}

func TestRemoveMissingKeyIsNoop(t *testing.T) {
	c := qt.New(t)
	h := stringHasher{}
	var root Node[string, int] = Empty[string, int](nil)
	root, _, _ = Insert(root, h, "a", 1, nil)

	same, _, removed := Remove(root, h, "does-not-exist")
	c.Assert(removed, qt.IsFalse)
	c.Assert(same, qt.Equals, root)
}

func TestEqualIgnoresInsertionOrder(t *testing.T) {
	c := qt.New(t)
	h := stringHasher{}
	var a Node[string, int] = Empty[string, int](nil)
	var b Node[string, int] = Empty[string, int](nil)

	keys := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	for _, k := range keys {
		a, _, _ = Insert(a, h, k, len(k), nil)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		b, _, _ = Insert(b, h, k, len(k), nil)
	}

	c.Assert(Equal(h, intEq, a, b), qt.IsTrue)

	b, _, _ = Insert(b, h, "alpha", 999, nil)
	c.Assert(Equal(h, intEq, a, b), qt.IsFalse)
}

// constantHasher forces every key into a single collisionNode, exercising
// the merge-on-collision and multiset-equality paths directly.
type constantHasher struct{}

func (constantHasher) Hash(string) MixedHash { return MixedHash(0) }
func (constantHasher) Equal(a, b string) bool { return a == b }

// bottomNode follows a chain of branch nodes that hold nothing but a single
// sub-node down to the first node that is not such a link. The root is
// always a branchNode; a collision sits at the end of that chain.
func bottomNode(n Node[string, int]) Node[string, int] {
	for {
		b, ok := n.(*branchNode[string, int])
		if !ok || len(b.entries) != 0 || len(b.subs) != 1 {
			return n
		}
		n = b.subs[0]
	}
}

func TestCollisionNodeLifecycle(t *testing.T) {
	c := qt.New(t)
	h := constantHasher{}
	var root Node[string, int] = Empty[string, int](nil)

	root, _, _ = Insert(root, h, "a", 1, nil)
	root, _, _ = Insert(root, h, "b", 2, nil)
	root, _, _ = Insert(root, h, "c", 3, nil)

	if bottom, ok := bottomNode(root).(*collisionNode[string, int]); !ok {
		// The constant hasher puts all three keys in the same slot at every
		// depth, so the trie must bottom out in a single collisionNode.
		t.Fatalf("expected the trie to bottom out in a *collisionNode, got %T", bottom)
	}

	v, ok := Get(root, h, "b")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 2)

	root, old, removed := Remove(root, h, "a")
	c.Assert(removed, qt.IsTrue)
	c.Assert(old, qt.Equals, 1)

	// Two entries remain: still a collisionNode (arity 2 is the minimum
	// a collisionNode ever holds).
	if bottom, ok := bottomNode(root).(*collisionNode[string, int]); !ok {
		t.Fatalf("expected the trie to still bottom out in a *collisionNode with 2 entries, got %T", bottom)
	}

	// S5: removing all-but-one of a set of colliding keys must re-inline
	// the survivor as an ordinary payload entry, never leaving a
	// degenerate one-entry collisionNode behind.
	root, _, removed = Remove(root, h, "b")
	c.Assert(removed, qt.IsTrue)

	key, val, ok := root.trySingleton()
	c.Assert(ok, qt.IsTrue)
	c.Assert(key, qt.Equals, "c")
	c.Assert(val, qt.Equals, 3)

	if _, isCollision := root.(*collisionNode[string, int]); isCollision {
		t.Fatalf("collision node must not survive with a single entry")
	}
}

func TestHundredWayCollisionSingletonReinlining(t *testing.T) {
	c := qt.New(t)
	h := constantHasher{}
	var root Node[string, int] = Empty[string, int](nil)

	const n = 100
	for i := 0; i < n; i++ {
		root, _, _ = Insert(root, h, strconv.Itoa(i), i, nil)
	}
	for i := 0; i < n-1; i++ {
		var removed bool
		root, _, removed = Remove(root, h, strconv.Itoa(i))
		c.Assert(removed, qt.IsTrue)
	}

	key, val, ok := root.trySingleton()
	c.Assert(ok, qt.IsTrue)
	c.Assert(key, qt.Equals, strconv.Itoa(n-1))
	c.Assert(val, qt.Equals, n-1)
	c.Assert(Arity(root), qt.Equals, 1)
}

func TestTransientOwnerMutatesInPlace(t *testing.T) {
	c := qt.New(t)
	h := stringHasher{}
	owner := NewOwner()
	var root Node[string, int] = Empty[string, int](nil)

	root, _, _ = Insert(root, h, "a", 1, owner)
	first := root
	root, _, _ = Insert(root, h, "b", 2, owner)

	// Same owner reused: the branch node is mutated in place, so the
	// result shares identity with the first insert's returned root.
	c.Assert(root, qt.Equals, first)

	// A persistent insert (nil owner) against the same root must not
	// mutate it, and must therefore return a different node.
	persistentRoot, _, _ := Insert(root, h, "c", 3, nil)
	c.Assert(persistentRoot, qt.Not(qt.Equals), root)

	_, ok := Get(root, h, "c")
	c.Assert(ok, qt.IsFalse)
}
