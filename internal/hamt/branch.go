package hamt

import "github.com/usethesource/pdb.values/internal/hash"

// branchNode is the 32-way bitmap-indexed HAMT node.
//
// dataMap and nodeMap are disjoint: bit i of dataMap means slot i holds a
// payload entry; bit i of nodeMap means slot i holds a sub-node. entries
// holds payloads in ascending slot order, subs holds sub-nodes in
// ascending slot order — the spec's single packed "children array" split
// here into two slices instead of one mixed-type array, since Go generics
// have no ergonomic way to pack two different element shapes into one
// slice without boxing through `any` (which `ctrie.go`'s own `branch`
// interface-typed slice does, but only because Key/Value there are a
// single type parameter each; here entries and sub-nodes have genuinely
// different shapes).
type branchNode[K, V any] struct {
	dataMap uint32
	nodeMap uint32
	entries []mapEntry[K, V]
	subs    []Node[K, V]
	owner   *Owner
}

var _ Node[int, int] = (*branchNode[int, int])(nil)

func bitFor(slot uint32) uint32 { return uint32(1) << slot }

func (n *branchNode[K, V]) arity() int {
	return popcount(n.dataMap) + popcount(n.nodeMap)
}

func (n *branchNode[K, V]) trySingleton() (K, V, bool) {
	if len(n.entries) == 1 && len(n.subs) == 0 {
		e := n.entries[0]
		return e.key, e.val, true
	}
	var zk K
	var zv V
	return zk, zv, false
}

func (n *branchNode[K, V]) get(h Hasher[K], key K, mh MixedHash, depth uint) (V, bool) {
	slot := mh.Slice(depth)
	bit := bitFor(slot)
	switch {
	case n.dataMap&bit != 0:
		e := n.entries[denseIndex(n.dataMap, slot)]
		if h.Equal(e.key, key) {
			return e.val, true
		}
		var zero V
		return zero, false
	case n.nodeMap&bit != 0:
		return n.subs[denseIndex(n.nodeMap, slot)].get(h, key, mh, depth+1)
	default:
		var zero V
		return zero, false
	}
}

// writable returns a node n can write through in place: either n itself
// (when n is already owned by owner) or a shallow copy owned by owner.
// owner may be nil, meaning "persistent": writable then always copies.
func (n *branchNode[K, V]) writable(owner *Owner) *branchNode[K, V] {
	if owner != nil && n.owner == owner {
		return n
	}
	cp := &branchNode[K, V]{
		dataMap: n.dataMap,
		nodeMap: n.nodeMap,
		entries: append([]mapEntry[K, V](nil), n.entries...),
		subs:    append([]Node[K, V](nil), n.subs...),
		owner:   owner,
	}
	return cp
}

func (n *branchNode[K, V]) insert(h Hasher[K], key K, val V, mh MixedHash, depth uint, owner *Owner) (Node[K, V], V, bool) {
	slot := mh.Slice(depth)
	bit := bitFor(slot)

	switch {
	case n.dataMap&bit == 0 && n.nodeMap&bit == 0:
		// Empty slot: insert a fresh payload entry.
		w := n.writable(owner)
		idx := denseIndex(w.dataMap, slot)
		w.entries = insertEntryAt(w.entries, idx, mapEntry[K, V]{key: key, val: val})
		w.dataMap |= bit
		var zero V
		return w, zero, false

	case n.dataMap&bit != 0:
		idx := denseIndex(n.dataMap, slot)
		existing := n.entries[idx]
		if h.Equal(existing.key, key) {
			w := n.writable(owner)
			w.entries[idx] = mapEntry[K, V]{key: key, val: val}
			return w, existing.val, true
		}
		// Two distinct keys in the same slot: split into a sub-node.
		existingHash := h.Hash(existing.key)
		child := mergeEntries(h, existing, mapEntry[K, V]{key: key, val: val}, existingHash, mh, depth+1, owner)
		w := n.writable(owner)
		w.entries = removeEntryAt(w.entries, idx)
		w.dataMap &^= bit
		nidx := denseIndex(w.nodeMap, slot)
		w.subs = insertNodeAt(w.subs, nidx, child)
		w.nodeMap |= bit
		var zero V
		return w, zero, false

	default: // n.nodeMap&bit != 0
		idx := denseIndex(n.nodeMap, slot)
		newChild, oldVal, hadOld := n.subs[idx].insert(h, key, val, mh, depth+1, owner)
		w := n.writable(owner)
		w.subs[idx] = newChild
		return w, oldVal, hadOld
	}
}

func (n *branchNode[K, V]) remove(h Hasher[K], key K, mh MixedHash, depth uint) (Node[K, V], V, bool) {
	slot := mh.Slice(depth)
	bit := bitFor(slot)

	switch {
	case n.dataMap&bit != 0:
		idx := denseIndex(n.dataMap, slot)
		existing := n.entries[idx]
		if !h.Equal(existing.key, key) {
			var zero V
			return n, zero, false
		}
		cp := &branchNode[K, V]{
			dataMap: n.dataMap &^ bit,
			nodeMap: n.nodeMap,
			entries: removeEntryAt(n.entries, idx),
			subs:    append([]Node[K, V](nil), n.subs...),
		}
		return cp, existing.val, true

	case n.nodeMap&bit != 0:
		idx := denseIndex(n.nodeMap, slot)
		newChild, oldVal, removed := n.subs[idx].remove(h, key, mh, depth+1)
		if !removed {
			return n, oldVal, false
		}
		cp := &branchNode[K, V]{
			dataMap: n.dataMap,
			nodeMap: n.nodeMap,
			entries: append([]mapEntry[K, V](nil), n.entries...),
			subs:    append([]Node[K, V](nil), n.subs...),
		}
		switch {
		case newChild.arity() == 0:
			// The whole sub-tree vanished: drop the slot entirely.
			cp.subs = removeNodeAt(cp.subs, idx)
			cp.nodeMap &^= bit
		default:
			if ck, cv, ok := newChild.trySingleton(); ok {
				// The child collapsed to a single payload: inline it
				// directly into this node's data slots, discarding the
				// child wrapper entirely. This is the step that walks
				// a singleton payload all the way back up to the root
				// (scenario S5), one level at a time.
				cp.subs = removeNodeAt(cp.subs, idx)
				cp.nodeMap &^= bit
				didx := denseIndex(cp.dataMap, slot)
				cp.entries = insertEntryAt(cp.entries, didx, mapEntry[K, V]{key: ck, val: cv})
				cp.dataMap |= bit
			} else {
				cp.subs[idx] = newChild
			}
		}
		return cp, oldVal, true

	default:
		var zero V
		return n, zero, false
	}
}

func (n *branchNode[K, V]) equalNode(h Hasher[K], valEq func(a, b V) bool, other Node[K, V]) bool {
	o, ok := other.(*branchNode[K, V])
	if !ok {
		return false
	}
	if n.dataMap != o.dataMap || n.nodeMap != o.nodeMap {
		return false
	}
	for i := range n.entries {
		if !h.Equal(n.entries[i].key, o.entries[i].key) {
			return false
		}
		if !valEq(n.entries[i].val, o.entries[i].val) {
			return false
		}
	}
	for i := range n.subs {
		if !n.subs[i].equalNode(h, valEq, o.subs[i]) {
			return false
		}
	}
	return true
}

func (n *branchNode[K, V]) each(yield func(K, V) bool) bool {
	for _, e := range n.entries {
		if !yield(e.key, e.val) {
			return false
		}
	}
	for _, s := range n.subs {
		if !s.each(yield) {
			return false
		}
	}
	return true
}

func insertEntryAt[K, V any](s []mapEntry[K, V], idx int, e mapEntry[K, V]) []mapEntry[K, V] {
	s = append(s, mapEntry[K, V]{})
	copy(s[idx+1:], s[idx:])
	s[idx] = e
	return s
}

func removeEntryAt[K, V any](s []mapEntry[K, V], idx int) []mapEntry[K, V] {
	out := append([]mapEntry[K, V](nil), s[:idx]...)
	return append(out, s[idx+1:]...)
}

func insertNodeAt[K, V any](s []Node[K, V], idx int, node Node[K, V]) []Node[K, V] {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = node
	return s
}

func removeNodeAt[K, V any](s []Node[K, V], idx int) []Node[K, V] {
	out := append([]Node[K, V](nil), s[:idx]...)
	return append(out, s[idx+1:]...)
}

var _ = hash.MaxDepth
