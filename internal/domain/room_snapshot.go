package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomSnapshot is the primitive form of a Room used by storage and caches.
type RoomSnapshot struct {
	UID        string            `json:"uid"`
	Identifier int               `json:"identifier"`
	Status     string            `json:"status"`
	ScreenSize decimal.Decimal   `json:"screenSize"`
	ScreenType string            `json:"screenType"`
	SeatConfig []SeatRowConfig   `json:"seatConfig"`
	Bookings   []BookingSnapshot `json:"bookings"`
	Version    int               `json:"version"`
}

type BookingSnapshot struct {
	UID          string    `json:"uid"`
	ScreeningUID string    `json:"screeningUid,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Type         string    `json:"type"`
}

func (r *Room) Snapshot() RoomSnapshot {
	bookings := make([]BookingSnapshot, 0, r.schedule.Len())
	for _, b := range r.schedule.slots {
		bookings = append(bookings, SnapshotBooking(b))
	}

	return RoomSnapshot{
		UID:        r.uid.String(),
		Identifier: r.identifier.Int(),
		Status:     string(r.status),
		ScreenSize: r.screen.Size(),
		ScreenType: string(r.screen.Type()),
		SeatConfig: r.layout.config(),
		Bookings:   bookings,
		Version:    r.version,
	}
}

func SnapshotBooking(b BookingSlot) BookingSnapshot {
	return BookingSnapshot{
		UID:          b.UID().String(),
		ScreeningUID: b.ScreeningUID().String(),
		StartTime:    b.StartTime(),
		EndTime:      b.EndTime(),
		Type:         string(b.Type()),
	}
}

// HydrateRoom rebuilds a Room from trusted storage without running business
// validation. Structurally broken input yields an error wrapping ErrCorruptData.
func HydrateRoom(s RoomSnapshot) (*Room, error) {
	if s.UID == "" {
		return nil, corrupt("room uid is empty")
	}

	status := RoomStatus(s.Status)
	if status != RoomAvailable && status != RoomClosed {
		return nil, corrupt("room %s has unknown status %q", s.UID, s.Status)
	}

	layout, err := hydrateSeatLayout(s.SeatConfig)
	if err != nil {
		return nil, err
	}

	screen, err := hydrateScreen(s.ScreenSize, s.ScreenType)
	if err != nil {
		return nil, err
	}

	slots := make([]BookingSlot, 0, len(s.Bookings))
	for _, b := range s.Bookings {
		slot, err := HydrateBookingSlot(
			BookingUID(b.UID),
			ScreeningUID(b.ScreeningUID),
			b.StartTime,
			b.EndTime,
			BookingType(b.Type),
		)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return &Room{
		uid:        RoomUID(s.UID),
		identifier: RoomIdentifier(s.Identifier),
		layout:     layout,
		screen:     screen,
		schedule:   NewRoomSchedule(slots...),
		status:     status,
		version:    s.Version,
	}, nil
}
