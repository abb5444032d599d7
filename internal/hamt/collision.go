package hamt

// collisionNode is a HAMT leaf holding two or more entries whose mixed
// hashes are identical at every level the trie can distinguish (the 32
// bits are exhausted by depth hash.MaxDepth-1). Lookup, insert and remove
// degrade to a linear scan under key equality, exactly as a real hash
// table degrades to a list within one overflowing bucket.
type collisionNode[K, V any] struct {
	mixedHash MixedHash
	keys      []K
	vals      []V
	owner     *Owner
}

var _ Node[int, int] = (*collisionNode[int, int])(nil)

func newCollisionNode[K, V any](mh MixedHash, entries []mapEntry[K, V], owner *Owner) *collisionNode[K, V] {
	keys := make([]K, len(entries))
	vals := make([]V, len(entries))
	for i, e := range entries {
		keys[i] = e.key
		vals[i] = e.val
	}
	return &collisionNode[K, V]{mixedHash: mh, keys: keys, vals: vals, owner: owner}
}

func (n *collisionNode[K, V]) arity() int { return len(n.keys) }

func (n *collisionNode[K, V]) trySingleton() (K, V, bool) {
	var zk K
	var zv V
	return zk, zv, false
}

func (n *collisionNode[K, V]) indexOf(h Hasher[K], key K) int {
	for i, k := range n.keys {
		if h.Equal(k, key) {
			return i
		}
	}
	return -1
}

func (n *collisionNode[K, V]) get(h Hasher[K], key K, mh MixedHash, depth uint) (V, bool) {
	if mh != n.mixedHash {
		var zero V
		return zero, false
	}
	if i := n.indexOf(h, key); i >= 0 {
		return n.vals[i], true
	}
	var zero V
	return zero, false
}

func (n *collisionNode[K, V]) writable(owner *Owner) *collisionNode[K, V] {
	if owner != nil && n.owner == owner {
		return n
	}
	return &collisionNode[K, V]{
		mixedHash: n.mixedHash,
		keys:      append([]K(nil), n.keys...),
		vals:      append([]V(nil), n.vals...),
		owner:     owner,
	}
}

func (n *collisionNode[K, V]) insert(h Hasher[K], key K, val V, mh MixedHash, depth uint, owner *Owner) (Node[K, V], V, bool) {
	if mh != n.mixedHash {
		// Can only happen during an internal merge where a third key's
		// hash diverges from this collision node's hash: wrap the
		// collision node as an ordinary sub-node of a fresh branch at
		// the current depth, then insert there.
		wrapped := &branchNode[K, V]{owner: owner}
		slot := n.mixedHash.Slice(depth)
		wrapped.nodeMap = bitFor(slot)
		wrapped.subs = []Node[K, V]{n}
		return wrapped.insert(h, key, val, mh, depth, owner)
	}
	if i := n.indexOf(h, key); i >= 0 {
		w := n.writable(owner)
		old := w.vals[i]
		w.vals[i] = val
		return w, old, true
	}
	w := n.writable(owner)
	w.keys = append(w.keys, key)
	w.vals = append(w.vals, val)
	var zero V
	return w, zero, false
}

func (n *collisionNode[K, V]) remove(h Hasher[K], key K, mh MixedHash, depth uint) (Node[K, V], V, bool) {
	if mh != n.mixedHash {
		var zero V
		return n, zero, false
	}
	i := n.indexOf(h, key)
	if i < 0 {
		var zero V
		return n, zero, false
	}
	old := n.vals[i]
	if len(n.keys) == 2 {
		// One entry remains: hand back an ordinary branch node holding it
		// inline, at depth 0, so the caller can fold it into itself (or,
		// at the root, keep it as the new root outright). See spec.md
		// §4.2 "Collision node" and scenario S5.
		other := 1 - i
		leaf := &branchNode[K, V]{}
		slot := n.mixedHash.Slice(0)
		leaf.dataMap = bitFor(slot)
		leaf.entries = []mapEntry[K, V]{{key: n.keys[other], val: n.vals[other]}}
		return leaf, old, true
	}
	cp := &collisionNode[K, V]{
		mixedHash: n.mixedHash,
		keys:      append(append([]K(nil), n.keys[:i]...), n.keys[i+1:]...),
		vals:      append(append([]V(nil), n.vals[:i]...), n.vals[i+1:]...),
	}
	return cp, old, true
}

func (n *collisionNode[K, V]) equalNode(h Hasher[K], valEq func(a, b V) bool, other Node[K, V]) bool {
	o, ok := other.(*collisionNode[K, V])
	if !ok || n.mixedHash != o.mixedHash || len(n.keys) != len(o.keys) {
		return false
	}
	// Order-independent multiset comparison: for every entry in n, some
	// entry in o (not yet matched) must be equal.
	matched := make([]bool, len(o.keys))
	for i, k := range n.keys {
		found := false
		for j, ok2 := range o.keys {
			if matched[j] {
				continue
			}
			if h.Equal(k, ok2) && valEq(n.vals[i], o.vals[j]) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (n *collisionNode[K, V]) each(yield func(K, V) bool) bool {
	for i := range n.keys {
		if !yield(n.keys[i], n.vals[i]) {
			return false
		}
	}
	return true
}
