package worker

import (
	"context"
	"sync"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// AuditWorker drains domain events into the audit_log table. Events are
// buffered in a bounded queue so publishers never block on the database.
type AuditWorker struct {
	db          *database.DB
	retryPolicy RetryPolicy
	queue       chan *events.Event
	logger      *zerolog.Logger

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewAuditWorker(db *database.DB, retry RetryPolicy, logger *zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		db:          db,
		retryPolicy: retry.withDefaults(),
		queue:       make(chan *events.Event, models.WorkerQueueSize),
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// SubscribeAll attaches the worker to every booking and comment event type.
func (w *AuditWorker) SubscribeAll(bus *events.EventBus) {
	types := []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventBookingDeleted,
		events.EventCommentCreated,
	}
	for _, eventType := range types {
		bus.Subscribe(eventType, w.handle)
	}
}

func (w *AuditWorker) handle(event *events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn().Str("event_type", event.Type).Msg("audit queue full, event dropped")
	}
	return nil
}

// Start launches the drain loop. It runs until Stop is called or the
// context is canceled; buffered events are flushed on either exit path.
func (w *AuditWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				w.flush()
				return
			case <-w.done:
				w.flush()
				return
			case event := <-w.queue:
				// ctx is only a shutdown signal; a write already in
				// flight gets to finish its retries
				w.persist(context.Background(), event)
			}
		}
	}()
}

// flush drains with its own deadline; the loop context may already be
// canceled here and would fail every insert.
func (w *AuditWorker) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	w.drain(ctx)
}

// drain flushes the remaining buffered events before shutdown.
func (w *AuditWorker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.persist(ctx, event)
		default:
			return
		}
	}
}

func (w *AuditWorker) persist(ctx context.Context, event *events.Event) {
	entry := &database.AuditEntry{
		EventType: event.Type,
		Payload:   string(event.Payload),
		CreatedAt: event.CreatedAt,
	}

	var err error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		if err = w.db.InsertAuditEntry(ctx, entry); err == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
	w.logger.Error().Err(err).Str("event_type", event.Type).Msg("audit entry dropped after retries")
}

// Stop flushes the queue and waits for the drain loop to exit.
func (w *AuditWorker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
}
