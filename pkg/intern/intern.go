// Package intern implements a concurrent, garbage-collection-friendly
// hash-consing cache: Cache[T].Intern(candidate) returns the single
// canonical *T equivalent to candidate under a caller-supplied
// equivalence relation, reusing a previously interned instance whenever
// one is still reachable and allocating a fresh canonical instance
// otherwise.
//
// Canonical instances are held by weak reference ([weak.Pointer]), so the
// cache never keeps a value alive purely because it was once interned;
// entries whose referent the garbage collector has reclaimed are unlinked
// lazily, during later Intern calls, a batch at a time.
//
// Grounded on anyunique/anyunique.go for the weak-pointer-per-canonical-
// value idea itself (Set[T,H].Make boxing a value behind weak.Make, the
// zero-value short-circuit); restructured from anyunique's single
// sync.Map-of-slices Set into an explicit chained-bucket table because
// this cache additionally needs the resize-under-load and bounded-
// cleanup-drain behavior anyunique does not attempt. The chained-bucket
// table and its lock-guarded writes / lock-free reads split is grounded
// on decillion-go-cmap's cmap.go (Map.mu guarding Store/Delete and
// resizeIfNeeded, Load going through an atomic.Value-held table with no
// lock) and hmap/hmap.go (bucket.first / entry.next as atomic pointers,
// singly linked chains per bucket); adapted onto the generic,
// type-safe atomic.Pointer[T] that gatomic/loadptr.go shows as the
// modern replacement for hmap's raw unsafe.Pointer triplet. The
// reference-cleared notification queue is internal/rbuf, itself grounded
// on ring/buffer.go.
package intern

import (
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/usethesource/pdb.values/internal/logging"
	"github.com/usethesource/pdb.values/internal/rbuf"
)

const (
	initialBuckets   = 16
	growLoadFactor   = 0.8
	shrinkLoadFactor = 0.25

	cleanupBatch = 64
)

// Hasher defines the equivalence relation and hash function a Cache
// canonicalizes under. Hash and Equal must agree: Equal(a, b) implies
// Hash(a) == Hash(b).
type Hasher[T any] interface {
	Hash(x *T) uint64
	Equal(a, b *T) bool
}

type entry[T any] struct {
	hash uint64
	ref  weak.Pointer[T]
	next atomic.Pointer[entry[T]]
}

type bucketTable[T any] struct {
	buckets []atomic.Pointer[entry[T]]
}

func newBucketTable[T any](n int) *bucketTable[T] {
	return &bucketTable[T]{buckets: make([]atomic.Pointer[entry[T]], n)}
}

func (t *bucketTable[T]) index(hash uint64) int {
	return int(hash & uint64(len(t.buckets)-1))
}

// Cache is a concurrent hash-consing table of canonical *T values.
//
// Reads (the common case: the value being interned already has a
// canonical instance) take no lock. Writes — inserting a new canonical
// instance, resizing, or unlinking dead entries — are serialized behind
// writerMu, mirroring decillion-go-cmap's single-writer/many-reader
// design.
type Cache[T any] struct {
	hasher Hasher[T]
	table  atomic.Pointer[bucketTable[T]]
	size   atomic.Int64

	writerMu sync.Mutex
	cleared  rbuf.Queue[uint64]
	log      logging.Logger
}

// New returns an empty cache that canonicalizes values under h.
func New[T any](h Hasher[T]) *Cache[T] {
	c := &Cache[T]{hasher: h, log: logging.Default}
	c.table.Store(newBucketTable[T](initialBuckets))
	return c
}

// SetLogger overrides the destination for resize/cleanup diagnostics,
// logging.Discard to silence them.
func (c *Cache[T]) SetLogger(l logging.Logger) { c.log = l }

// Len reports the cache's approximate live entry count: a snapshot that
// may already be stale by the time the caller observes it, since other
// goroutines may be interning or the garbage collector may be reclaiming
// entries concurrently.
func (c *Cache[T]) Len() int64 { return c.size.Load() }

// Intern returns the canonical instance equivalent to candidate. If no
// equivalent instance is currently reachable from the cache, candidate
// itself becomes the new canonical instance and is returned unchanged;
// otherwise the previously interned instance is returned and candidate
// may be discarded by the caller.
func (c *Cache[T]) Intern(candidate *T) *T {
	hash := c.hasher.Hash(candidate)

	if found := c.lookup(hash, candidate); found != nil {
		return found
	}

	c.writerMu.Lock()
	defer c.writerMu.Unlock()

	c.drainCleared()

	// Re-check under the lock: another goroutine may have inserted an
	// equivalent value between our lock-free lookup and acquiring the
	// lock.
	if found := c.lookup(hash, candidate); found != nil {
		return found
	}

	tbl := c.table.Load()
	idx := tbl.index(hash)
	e := &entry[T]{hash: hash, ref: weak.Make(candidate)}
	e.next.Store(tbl.buckets[idx].Load())
	tbl.buckets[idx].Store(e)
	c.size.Add(1)

	runtime.AddCleanup(candidate, c.onCleared, hash)

	c.resizeIfNeeded()

	return candidate
}

// lookup scans the bucket for hash without taking writerMu, returning a
// live equivalent instance if one is found.
func (c *Cache[T]) lookup(hash uint64, candidate *T) *T {
	tbl := c.table.Load()
	idx := tbl.index(hash)
	for e := tbl.buckets[idx].Load(); e != nil; e = e.next.Load() {
		if e.hash != hash {
			continue
		}
		v := e.ref.Value()
		if v == nil {
			continue // cleared; will be unlinked by a later cleanup pass
		}
		if c.hasher.Equal(v, candidate) {
			return v
		}
	}
	return nil
}

// onCleared runs as a runtime cleanup when a canonical instance is
// collected. It must not block or allocate unboundedly, so it only
// records the bucket to revisit; the actual unlinking happens later,
// under writerMu, in drainCleared.
func (c *Cache[T]) onCleared(hash uint64) {
	c.cleared.Push(hash)
}

// drainCleared unlinks entries whose referent has been collected. It
// must be called with writerMu held. Draining is bounded per call
// (spec's "bounded cleanup drains"): a cache under heavy churn makes
// steady progress across many Intern calls rather than pausing one
// caller to fully empty the queue.
func (c *Cache[T]) drainCleared() {
	hashes := c.cleared.Drain(cleanupBatch)
	if len(hashes) == 0 {
		return
	}
	tbl := c.table.Load()
	removed := 0
	for _, hash := range hashes {
		idx := tbl.index(hash)
		removed += unlinkCleared(&tbl.buckets[idx], hash)
	}
	if removed > 0 {
		c.size.Add(-int64(removed))
		c.log.Printf("cleanup: unlinked %d dead entr(y/ies)", removed)
	}
}

// unlinkCleared removes every entry matching hash whose weak reference
// has gone nil from the chain rooted at head. Only entries actually
// cleared are removed; a matching hash with a live referent (a
// once-cleared slot that was already reused, or simply a different live
// value sharing the hash) is left untouched.
func unlinkCleared[T any](head *atomic.Pointer[entry[T]], hash uint64) int {
	removed := 0
	prev := head
	e := prev.Load()
	for e != nil {
		next := e.next.Load()
		if e.hash == hash && e.ref.Value() == nil {
			prev.Store(next)
			removed++
			e = next
			continue
		}
		prev = &e.next
		e = next
	}
	return removed
}

func (c *Cache[T]) resizeIfNeeded() {
	tbl := c.table.Load()
	n := len(tbl.buckets)
	size := c.size.Load()
	loadFactor := float64(size) / float64(n)

	switch {
	case loadFactor > growLoadFactor:
		c.rehash(nextPowerOfTwo(n * 2))
	case loadFactor < shrinkLoadFactor && n > initialBuckets:
		newN := nextPowerOfTwo(n / 2)
		if newN < initialBuckets {
			newN = initialBuckets
		}
		c.rehash(newN)
	}
}

// rehash must be called with writerMu held. It builds a new table of the
// given size, redistributes every currently live entry into it, and
// publishes it atomically; readers never observe a partially rehashed
// table, since they only ever see the old table or the new one, never a
// mix.
func (c *Cache[T]) rehash(newSize int) {
	old := c.table.Load()
	if newSize == len(old.buckets) {
		return
	}
	newTbl := newBucketTable[T](newSize)
	live := 0
	for i := range old.buckets {
		for e := old.buckets[i].Load(); e != nil; e = e.next.Load() {
			if e.ref.Value() == nil {
				continue // drop dead entries while we're here
			}
			idx := newTbl.index(e.hash)
			ne := &entry[T]{hash: e.hash, ref: e.ref}
			ne.next.Store(newTbl.buckets[idx].Load())
			newTbl.buckets[idx].Store(ne)
			live++
		}
	}
	c.table.Store(newTbl)
	c.size.Store(int64(live))
	c.log.Printf("resize: %d -> %d buckets (%d live entries)", len(old.buckets), newSize, live)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
