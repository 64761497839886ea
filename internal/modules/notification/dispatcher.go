package notification

import (
	"context"
	"log"
	"sync"
	"time"

	"craftmarket/internal/domain"
)

const (
	queueCapacity   = 256
	deliveryRetries = 3
	retryBackoff    = 100 * time.Millisecond
)

// Dispatcher decouples notification delivery from the triggering request:
// the primary write commits first, then the notification row is enqueued
// here and inserted by a single worker with bounded retries. A terminal
// failure is logged and dropped; it never fails or rolls back the
// request that produced it.
type Dispatcher struct {
	store Store
	tasks chan domain.Notification

	wg      sync.WaitGroup // in-flight tasks
	stopped sync.Once
	done    chan struct{}

	mu     sync.Mutex
	closed bool // set by Stop; Enqueue drops instead of sending
}

func NewDispatcher(store Store) *Dispatcher {
	return &Dispatcher{
		store: store,
		tasks: make(chan domain.Notification, queueCapacity),
		done:  make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop drains the queue and stops the worker.
func (d *Dispatcher) Stop() {
	d.stopped.Do(func() {
		d.wg.Wait()
		d.mu.Lock()
		d.closed = true
		close(d.tasks)
		d.mu.Unlock()
		<-d.done
	})
}

// Wait blocks until every enqueued notification has been attempted.
// Test suites use it to assert on inbox contents deterministically.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue schedules a notification for delivery. If the queue is full,
// or the dispatcher has already stopped, the event is dropped and
// logged; delivery is at-most-once.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("notification_dropped_after_stop user_id=%d type=%s", n.UserID, n.Type)
		return
	}

	d.wg.Add(1)
	select {
	case d.tasks <- n:
	default:
		d.wg.Done()
		log.Printf("notification_queue_full user_id=%d type=%s", n.UserID, n.Type)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.tasks {
		d.deliver(n)
		d.wg.Done()
	}
}

func (d *Dispatcher) deliver(n domain.Notification) {
	var err error
	for attempt := 1; attempt <= deliveryRetries; attempt++ {
		row := n
		err = d.store.Create(context.Background(), &row)
		if err == nil {
			return
		}
		time.Sleep(retryBackoff * time.Duration(attempt))
	}
	log.Printf("notification_delivery_failed user_id=%d type=%s error=%q", n.UserID, n.Type, err)
}
