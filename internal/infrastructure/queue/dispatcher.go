package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrStopped is returned by Do once the dispatcher's context is done.
var ErrStopped = errors.New("dispatcher stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(ctx context.Context) error
	done chan error
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing
// on the job key. Jobs sharing a key always land on the same worker and run
// one after another; different keys may run in parallel.
type Dispatcher struct {
	workers []chan job
	stopped chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Do runs fn on the worker owning key and waits for its result. It returns
// early with ctx.Err() if the caller gives up first; the job then still runs
// but its result is dropped.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	idx := d.shardIndex(key)
	depth := metrics.DispatcherQueueDepth.WithLabelValues(strconv.Itoa(idx))
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}

	depth.Inc()
	select {
	case d.workers[idx] <- j:
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	case <-d.stopped:
		depth.Dec()
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			metrics.DispatcherQueueDepth.WithLabelValues(label).Dec()
			j.done <- d.run(id, j)
		}
	}
}

func (d *Dispatcher) run(id int, j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %q panicked: %v", j.key, r)
			d.log.Error().Interface("panic", r).Str("key", j.key).Int("worker_id", id).Msg("job panicked")
		}
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.DispatcherJobDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	if err = j.fn(j.ctx); err != nil {
		d.log.Debug().Err(err).Str("key", j.key).Int("worker_id", id).Msg("job failed")
	}
	return err
}
