package export

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubBookings struct {
	domain.BookingService
	bookings []*models.Booking
}

func (s *stubBookings) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	return s.bookings, nil
}

func TestBookingsReport(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	stub := &stubBookings{bookings: []*models.Booking{
		{
			ID:     9,
			Start:  start.Add(24 * time.Hour),
			End:    start.Add(48 * time.Hour),
			Status: models.StatusApproved,
			Item:   &models.Item{ID: 5, Name: "Drill"},
			Booker: &models.User{ID: 1, Name: "Alice"},
		},
	}}

	logger := zerolog.Nop()
	exporter := NewExporter(stub, t.TempDir(), &logger)

	path, err := exporter.BookingsReport(context.Background(), start, end)
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	item, err := f.GetCellValue("Bookings", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Drill", item)

	status, err := f.GetCellValue("Bookings", "F3")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", status)
}
