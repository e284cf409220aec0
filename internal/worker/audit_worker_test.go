package worker

import (
	"context"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 5*time.Second, policy.NextDelay(4))

	// out-of-range attempts clamp instead of panicking
	assert.Equal(t, time.Second, policy.NextDelay(0))
}

func TestAuditWorkerPersistsEvents(t *testing.T) {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	bus := events.NewEventBus()
	worker := NewAuditWorker(db, RetryPolicy{}, &logger)
	worker.SubscribeAll(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	require.NoError(t, bus.PublishJSON(events.EventBookingCreated,
		events.BookingEventPayload{BookingID: 9, ItemID: 5, BookerID: 1, Status: "WAITING"}))
	require.NoError(t, bus.PublishJSON(events.EventCommentCreated,
		events.CommentEventPayload{CommentID: 3, ItemID: 5, AuthorID: 1}))

	worker.Stop()

	created, err := db.ListAuditEntries(context.Background(), events.EventBookingCreated, 10)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Contains(t, created[0].Payload, `"booking_id":9`)

	comments, err := db.ListAuditEntries(context.Background(), events.EventCommentCreated, 10)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestAuditWorkerFlushesOnContextCancel(t *testing.T) {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	bus := events.NewEventBus()
	worker := NewAuditWorker(db, RetryPolicy{}, &logger)
	worker.SubscribeAll(bus)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	require.NoError(t, bus.PublishJSON(events.EventBookingDeleted,
		events.BookingEventPayload{BookingID: 4, ItemID: 2, BookerID: 7, Status: "WAITING"}))
	require.NoError(t, bus.PublishJSON(events.EventBookingApproved,
		events.BookingEventPayload{BookingID: 5, ItemID: 2, BookerID: 7, Status: "APPROVED"}))

	// mirrors the server's shutdown ordering: the signal context cancels
	// before Stop is called
	cancel()
	worker.Stop()

	deleted, err := db.ListAuditEntries(context.Background(), events.EventBookingDeleted, 10)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Contains(t, deleted[0].Payload, `"booking_id":4`)

	approved, err := db.ListAuditEntries(context.Background(), events.EventBookingApproved, 10)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}
