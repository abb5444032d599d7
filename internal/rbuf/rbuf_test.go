package rbuf

import (
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPushDrainFIFOOrder(t *testing.T) {
	c := qt.New(t)
	var q Queue[int]

	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	c.Assert(q.Len(), qt.Equals, 10)

	got := q.Drain(5)
	c.Assert(got, qt.DeepEquals, []int{0, 1, 2, 3, 4})
	c.Assert(q.Len(), qt.Equals, 5)

	got = q.Drain(100)
	c.Assert(got, qt.DeepEquals, []int{5, 6, 7, 8, 9})
	c.Assert(q.Len(), qt.Equals, 0)
}

func TestDrainEmptyReturnsNil(t *testing.T) {
	c := qt.New(t)
	var q Queue[string]
	c.Assert(q.Drain(10), qt.IsNil)
}

func TestGrowsAcrossWraparound(t *testing.T) {
	c := qt.New(t)
	var q Queue[int]

	for i := 0; i < 4; i++ {
		q.Push(i)
	}
	q.Drain(3) // leaves one element, i0 advanced past the old start
	for i := 4; i < 20; i++ {
		q.Push(i)
	}
	var all []int
	for {
		batch := q.Drain(3)
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}
	want := []int{3}
	for i := 4; i < 20; i++ {
		want = append(want, i)
	}
	c.Assert(all, qt.DeepEquals, want)
}

func TestConcurrentPush(t *testing.T) {
	c := qt.New(t)
	var q Queue[int]
	var wg sync.WaitGroup
	const perGoroutine = 200
	const goroutines = 8

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()
	c.Assert(q.Len(), qt.Equals, perGoroutine*goroutines)
}
