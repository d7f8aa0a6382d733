package engine

import (
	"reflect"
	"sync"
	"testing"
)

func TestQueue_RunsInPostOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}

	if n := q.Drain(); n != 5 {
		t.Errorf("expected 5 closures, ran %d", n)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("unexpected order %v", got)
	}
}

func TestQueue_PostNeverBlocks(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Post(func() {})
			}
		}()
	}
	wg.Wait()

	select {
	case <-q.Ready():
	default:
		t.Fatal("queue should signal readiness")
	}
	if n := q.Drain(); n != 400 {
		t.Errorf("expected 400 closures, ran %d", n)
	}
}

func TestQueue_DrainRunsNestedPosts(t *testing.T) {
	q := NewQueue()
	ran := 0
	q.Post(func() {
		ran++
		q.Post(func() { ran++ })
	})

	if n := q.Drain(); n != 2 || ran != 2 {
		t.Errorf("expected nested post to run in the same drain, ran %d (%d)", ran, n)
	}
}

func TestQueue_CloseDropsPosts(t *testing.T) {
	q := NewQueue()
	q.Post(func() { t.Error("queued closure ran after Close") })
	q.Close()
	q.Post(func() { t.Error("closure posted after Close ran") })

	if n := q.Drain(); n != 0 {
		t.Errorf("expected nothing to run, ran %d", n)
	}
}
