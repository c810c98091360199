package syncs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSemaphoreBound(t *testing.T) {
	sem := NewSemaphore(2)
	var current, peak atomic.Int64
	var wg sync.WaitGroup
	for range 16 {
		sem.Acquire()
		wg.Go(func() {
			defer sem.Release()
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			current.Add(-1)
		})
	}
	wg.Wait()
	if peak.Load() > 2 {
		t.Fatalf("peak %d", peak.Load())
	}
}

func TestSemaphoreContext(t *testing.T) {
	sem := NewSemaphore(1)
	if err := sem.AcquireContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sem.AcquireContext(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	sem.Release()
	if err := sem.AcquireContext(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSemaphoreZero(t *testing.T) {
	sem := NewSemaphore(0)
	sem.Acquire()
	sem.Release()
}
