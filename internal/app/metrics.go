package app

import (
	"context"

	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// RoomMetrics counts booking slots written to and removed from room schedules.
type RoomMetrics struct {
	bookingsAdded   otelmetric.Int64Counter
	bookingsRemoved otelmetric.Int64Counter
}

// NewRoomMetrics registers the counters on the global meter provider. Without a
// configured collector the global provider is a no-op.
func NewRoomMetrics() (*RoomMetrics, error) {
	meter := otel.Meter(serviceName)

	added, err := meter.Int64Counter("room.bookings.added",
		otelmetric.WithDescription("Booking slots added to room schedules"),
		otelmetric.WithUnit("{booking}"))
	if err != nil {
		return nil, err
	}

	removed, err := meter.Int64Counter("room.bookings.removed",
		otelmetric.WithDescription("Booking slots removed from room schedules"),
		otelmetric.WithUnit("{booking}"))
	if err != nil {
		return nil, err
	}

	return &RoomMetrics{bookingsAdded: added, bookingsRemoved: removed}, nil
}

func (m *RoomMetrics) recordBookings(ctx context.Context, roomUID domain.RoomUID, added, removed []domain.BookingSlot) {
	if m == nil {
		return
	}

	for _, slot := range added {
		m.bookingsAdded.Add(ctx, 1, bookingAttributes(roomUID, slot))
	}

	for _, slot := range removed {
		m.bookingsRemoved.Add(ctx, 1, bookingAttributes(roomUID, slot))
	}
}

func bookingAttributes(roomUID domain.RoomUID, slot domain.BookingSlot) otelmetric.AddOption {
	return otelmetric.WithAttributes(
		attribute.String("room.uid", roomUID.String()),
		attribute.String("booking.type", string(slot.Type())),
	)
}
