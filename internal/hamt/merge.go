package hamt

import "github.com/usethesource/pdb.values/internal/hash"

// mergeEntries builds the sub-node that replaces a slot once two distinct
// keys land on it. It walks deeper only while the two keys' mixed hashes
// keep agreeing at the next 5-bit slice; as soon as they diverge it stops
// with a two-entry branchNode, and if they never diverge all the way to
// the last level it stops with a collisionNode instead, per spec.md
// §4.2's "When the two keys' mixed hashes agree at every remaining level,
// the sub-node is a collision node."
func mergeEntries[K, V any](h Hasher[K], e1, e2 mapEntry[K, V], mh1, mh2 MixedHash, depth uint, owner *Owner) Node[K, V] {
	s1 := mh1.Slice(depth)
	s2 := mh2.Slice(depth)
	if s1 != s2 {
		return newBranchTwo(e1, e2, s1, s2, owner)
	}
	if depth >= hash.MaxDepth-1 {
		// Last distinguishable level and still equal: the two keys share
		// their entire mixed hash.
		return newCollisionNode(mh1, []mapEntry[K, V]{e1, e2}, owner)
	}
	child := mergeEntries(h, e1, e2, mh1, mh2, depth+1, owner)
	return newBranchSingleSub(s1, child, owner)
}

func newBranchTwo[K, V any](e1, e2 mapEntry[K, V], s1, s2 uint32, owner *Owner) *branchNode[K, V] {
	n := &branchNode[K, V]{owner: owner}
	n.dataMap = bitFor(s1) | bitFor(s2)
	if s1 < s2 {
		n.entries = []mapEntry[K, V]{e1, e2}
	} else {
		n.entries = []mapEntry[K, V]{e2, e1}
	}
	return n
}

func newBranchSingleSub[K, V any](slot uint32, child Node[K, V], owner *Owner) *branchNode[K, V] {
	n := &branchNode[K, V]{owner: owner}
	n.nodeMap = bitFor(slot)
	n.subs = []Node[K, V]{child}
	return n
}
