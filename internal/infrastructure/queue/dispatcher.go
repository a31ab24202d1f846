// Package queue moves audit writes off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the target record, so the events for one station or user are
// written in the order they were recorded.
//
// Dispatcher satisfies ports.AuditRepository and can stand in front of any
// other implementation.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sink    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers writing
// to sink. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes what is already buffered and exits.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// InsertEvent enqueues event for its shard. It blocks only while the shard's
// buffer is full, and gives up when ctx is done.
func (d *Dispatcher) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	select {
	case d.workers[d.shardIndex(event)] <- *event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an event's target deterministically to a worker index.
func (d *Dispatcher) shardIndex(event *domain.AuditEvent) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(event.TargetID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.write(context.Background(), id, event)
		}
	}
}

func (d *Dispatcher) drain(id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case event := <-ch:
			d.write(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := d.sink.InsertEvent(ctx, &event); err != nil {
		d.log.Error().Err(err).
			Str("action", string(event.Action)).
			Int64("target_id", event.TargetID).
			Int("worker_id", id).
			Msg("audit write failed")
	}
}
