package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startDispatcher(t *testing.T, workers int) *Dispatcher {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	d := NewDispatcher(workers, zerolog.Nop())
	d.Start(ctx)
	return d
}

func TestDispatcher_SerializesSameKey(t *testing.T) {
	d := startDispatcher(t, 4)

	var running, maxRunning int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(context.Background(), "202610", func(context.Context) error {
				n := atomic.AddInt32(&running, 1)
				for {
					m := atomic.LoadInt32(&maxRunning)
					if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if maxRunning != 1 {
		t.Fatalf("jobs sharing a key overlapped: %d at once", maxRunning)
	}
}

func TestDispatcher_ReturnsJobError(t *testing.T) {
	d := startDispatcher(t, 2)
	want := errors.New("boom")

	if err := d.Do(context.Background(), "k", func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected job error, got %v", err)
	}
	if err := d.Do(context.Background(), "k", func(context.Context) error { panic("bad") }); err == nil {
		t.Fatalf("expected panic to surface as an error")
	}
	if err := d.Do(context.Background(), "k", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("worker should survive a panic, got %v", err)
	}
}

func TestDispatcher_CallerCancel(t *testing.T) {
	d := startDispatcher(t, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), "k", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	defer close(release)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Do(ctx, "k", func(context.Context) error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcher_Stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx)
	cancel()

	deadline := time.After(time.Second)
	for {
		err := d.Do(context.Background(), "k", func(context.Context) error { return nil })
		if errors.Is(err, ErrStopped) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected ErrStopped, got %v", err)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	if d.shardIndex("202610") != d.shardIndex("202610") {
		t.Fatalf("shard index must be deterministic")
	}
	if idx := d.shardIndex("anything"); idx < 0 || idx >= 8 {
		t.Fatalf("index out of range: %d", idx)
	}
}
