package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
	"github.com/quillpost/blog-api/internal/pkg/metrics"
)

const (
	defaultWorkers        = 4
	channelBuffer         = 256
	defaultPublishTimeout = 5 * time.Second
)

// Dispatcher is the PresenceNotifier used by the auth flow. Events are routed
// to a fixed set of workers by hashing the account id, so the login/logout
// events of one account are published in order. Notify never blocks: when a
// worker queue is full the event is dropped.
type Dispatcher struct {
	workers        []chan domain.PresenceEvent
	publisher      ports.PresencePublisher
	publishTimeout time.Duration
	log            zerolog.Logger
	wg             sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.PresencePublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:        make([]chan domain.PresenceEvent, numWorkers),
		publisher:      publisher,
		publishTimeout: defaultPublishTimeout,
		log:            log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PresenceEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Notify enqueues event on the worker owning its account. ctx is not
// retained: the request that triggered the event may end before it is published.
func (d *Dispatcher) Notify(_ context.Context, event domain.PresenceEvent) {
	idx := d.shardIndex(event.AccountID)
	select {
	case d.workers[idx] <- event:
		metrics.PresenceQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.PresenceEventsTotal.WithLabelValues(event.Name, "dropped").Inc()
		d.log.Warn().
			Str("event", event.Name).
			Str("account_id", event.AccountID).
			Int("worker_id", idx).
			Msg("presence queue full, event dropped")
	}
}

// shardIndex maps an account id deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.PresenceEvent) {
	defer d.wg.Done()
	depth := metrics.PresenceQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			depth.Set(float64(len(ch)))
			d.publish(ctx, id, event)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, workerID int, event domain.PresenceEvent) {
	pubCtx, cancel := context.WithTimeout(ctx, d.publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.publisher.Publish(pubCtx, event)
	metrics.PresencePublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PresenceEventsTotal.WithLabelValues(event.Name, "failed").Inc()
		d.log.Error().Err(err).
			Str("event", event.Name).
			Str("account_id", event.AccountID).
			Int("worker_id", workerID).
			Msg("presence publish failed")
		return
	}
	metrics.PresenceEventsTotal.WithLabelValues(event.Name, "published").Inc()
}
