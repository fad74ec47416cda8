package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomClosed    RoomStatus = "CLOSED"
)

// Fixed footprint around every screening, in minutes.
const (
	EntryTimeMinutes = 15
	ExitTimeMinutes  = 15
	CleaningMinutes  = 30
)

func ParseRoomStatus(s string) (RoomStatus, error) {
	switch RoomStatus(s) {
	case RoomAvailable, RoomClosed:
		return RoomStatus(s), nil
	case "":
		return "", missing("status")
	default:
		return "", NewFailure(CodeInvalidEnumValue, map[string]any{
			"field":   "status",
			"value":   s,
			"allowed": []RoomStatus{RoomAvailable, RoomClosed},
		})
	}
}

type CreateRoomParams struct {
	Identifier int
	SeatConfig []SeatRowConfig
	ScreenSize decimal.Decimal
	ScreenType string
	// Status defaults to AVAILABLE when empty.
	Status string
}

// Room is the aggregate root of the scheduling model. All mutating operations
// return a new *Room and leave the receiver untouched.
type Room struct {
	uid        RoomUID
	identifier RoomIdentifier
	layout     SeatLayout
	screen     Screen
	schedule   RoomSchedule
	status     RoomStatus
	version    int
}

func CreateRoom(p CreateRoomParams) (*Room, error) {
	identifier, identifierErr := NewRoomIdentifier(p.Identifier)
	layout, layoutErr := NewSeatLayout(p.SeatConfig)
	screen, screenErr := NewScreen(p.ScreenSize, p.ScreenType)

	status := RoomAvailable
	var statusErr error
	if p.Status != "" {
		status, statusErr = ParseRoomStatus(p.Status)
	}

	if err := Combine(identifierErr, layoutErr, screenErr, statusErr); err != nil {
		return nil, err
	}

	return &Room{
		uid:        NewRoomUID(),
		identifier: identifier,
		layout:     layout,
		screen:     screen,
		schedule:   NewRoomSchedule(),
		status:     status,
		version:    1,
	}, nil
}

func (r *Room) UID() RoomUID               { return r.uid }
func (r *Room) Identifier() RoomIdentifier { return r.identifier }
func (r *Room) Layout() SeatLayout         { return r.layout }
func (r *Room) Screen() Screen             { return r.screen }
func (r *Room) Status() RoomStatus         { return r.status }
func (r *Room) Version() int               { return r.version }
func (r *Room) TotalSeats() int            { return r.layout.TotalCapacity() }

// AtVersion returns the room as stored at the given version.
func (r *Room) AtVersion(version int) *Room {
	if version == r.version {
		return r
	}

	return r.with(func(n *Room) { n.version = version })
}

func (r *Room) with(apply func(*Room)) *Room {
	next := *r
	apply(&next)
	return &next
}

// AddScreening books the entry, screening, exit and cleaning slots of a
// screening back to back, starting at startTime.
func (r *Room) AddScreening(screeningUID ScreeningUID, startTime time.Time, durationInMinutes int) (*Room, error) {
	var errs []error
	if screeningUID == "" {
		errs = append(errs, missing("screeningUID"))
	}
	if startTime.IsZero() {
		errs = append(errs, missing("startTime"))
	}
	if err := Combine(errs...); err != nil {
		return nil, err
	}

	if err := r.ensureAcceptsBookings(); err != nil {
		return nil, err
	}

	if _, ok := r.schedule.FindScreening(screeningUID); ok {
		return nil, NewFailure(CodeResourceAlreadyExists, map[string]any{"screeningUID": screeningUID})
	}

	if err := ensurePositiveDuration(startTime, durationInMinutes); err != nil {
		return nil, err
	}

	footprint := EntryTimeMinutes + durationInMinutes + ExitTimeMinutes + CleaningMinutes
	if err := r.schedule.IsAvailable(startTime, startTime.Add(minutes(footprint))); err != nil {
		return nil, err
	}

	steps := []struct {
		bookingType BookingType
		minutes     int
	}{
		{BookingEntryTime, EntryTimeMinutes},
		{BookingScreening, durationInMinutes},
		{BookingExitTime, ExitTimeMinutes},
		{BookingCleaning, CleaningMinutes},
	}

	schedule := r.schedule
	cursor := startTime

	for _, step := range steps {
		end := cursor.Add(minutes(step.minutes))

		slot, err := NewBookingSlot(screeningUID, cursor, end, step.bookingType)
		if err != nil {
			return nil, err
		}

		schedule, err = schedule.Add(slot)
		if err != nil {
			return nil, err
		}

		cursor = end
	}

	return r.with(func(n *Room) { n.schedule = schedule }), nil
}

func (r *Room) ScheduleCleaning(startTime time.Time, durationInMinutes int) (*Room, error) {
	return r.scheduleActivity(BookingCleaning, startTime, durationInMinutes)
}

func (r *Room) ScheduleMaintenance(startTime time.Time, durationInMinutes int) (*Room, error) {
	return r.scheduleActivity(BookingMaintenance, startTime, durationInMinutes)
}

func (r *Room) scheduleActivity(bookingType BookingType, startTime time.Time, durationInMinutes int) (*Room, error) {
	if startTime.IsZero() {
		return nil, missing("startTime")
	}

	if err := r.ensureAcceptsBookings(); err != nil {
		return nil, err
	}

	if err := ensurePositiveDuration(startTime, durationInMinutes); err != nil {
		return nil, err
	}

	end := startTime.Add(minutes(durationInMinutes))
	if err := r.schedule.IsAvailable(startTime, end); err != nil {
		return nil, err
	}

	slot, err := NewBookingSlot("", startTime, end, bookingType)
	if err != nil {
		return nil, err
	}

	schedule, err := r.schedule.Add(slot)
	if err != nil {
		return nil, err
	}

	return r.with(func(n *Room) { n.schedule = schedule }), nil
}

// ensurePositiveDuration rejects windows that would end at or before their start.
func ensurePositiveDuration(startTime time.Time, durationInMinutes int) error {
	if durationInMinutes > 0 {
		return nil
	}

	return NewFailure(CodeDateWithInvalidSequence, map[string]any{
		"startTime": startTime,
		"endTime":   startTime.Add(minutes(durationInMinutes)),
	})
}

func (r *Room) ensureAcceptsBookings() error {
	if r.status == RoomClosed {
		return NewFailure(CodeRoomIsClosed, map[string]any{"roomUID": r.uid})
	}

	return nil
}

func (r *Room) RemoveBookingByUID(uid BookingUID) (*Room, error) {
	if uid == "" {
		return nil, missing("bookingUID")
	}

	schedule, err := r.schedule.RemoveByUID(uid)
	if err != nil {
		return nil, err
	}

	return r.with(func(n *Room) { n.schedule = schedule }), nil
}

func (r *Room) RemoveScreening(screeningUID ScreeningUID) (*Room, error) {
	schedule, err := r.schedule.RemoveScreening(screeningUID)
	if err != nil {
		return nil, err
	}

	return r.with(func(n *Room) { n.schedule = schedule }), nil
}

// ChangeStatus returns the receiver itself when the status does not change.
func (r *Room) ChangeStatus(status string) (*Room, error) {
	next, err := ParseRoomStatus(status)
	if err != nil {
		return nil, err
	}

	if next == RoomClosed && r.schedule.HasBookings() {
		return nil, NewFailure(CodeRoomHasFutureBookings, map[string]any{
			"roomUID":  r.uid,
			"bookings": r.schedule.Len(),
		})
	}

	if next == r.status {
		return r, nil
	}

	return r.with(func(n *Room) { n.status = next }), nil
}

// EnsureDeletable fails while the room still holds bookings.
func (r *Room) EnsureDeletable() error {
	if r.schedule.HasBookings() {
		return NewFailure(CodeRoomHasFutureBookings, map[string]any{
			"roomUID":  r.uid,
			"bookings": r.schedule.Len(),
		})
	}

	return nil
}

func (r *Room) ChangeScreen(size decimal.Decimal, screenType string) (*Room, error) {
	screen, err := NewScreen(size, screenType)
	if err != nil {
		return nil, err
	}

	if screen.Equal(r.screen) {
		return r, nil
	}

	return r.with(func(n *Room) { n.screen = screen }), nil
}

func (r *Room) IsPeriodAvailable(start, end time.Time) error {
	var errs []error
	if start.IsZero() {
		errs = append(errs, missing("startTime"))
	}
	if end.IsZero() {
		errs = append(errs, missing("endTime"))
	}
	if err := Combine(errs...); err != nil {
		return err
	}

	if !end.After(start) {
		return NewFailure(CodeDateWithInvalidSequence, map[string]any{"startTime": start, "endTime": end})
	}

	return r.schedule.IsAvailable(start, end)
}

func (r *Room) FreeSlotsForDate(date time.Time, minMinutes int) []TimeSlot {
	return r.schedule.FreeSlotsForDate(date, minMinutes)
}

func (r *Room) Bookings() []BookingSlot {
	return r.schedule.Bookings()
}

func (r *Room) HasBookings() bool {
	return r.schedule.HasBookings()
}

func (r *Room) FindBookingByUID(uid BookingUID) (BookingSlot, bool) {
	return r.schedule.FindByUID(uid)
}

func (r *Room) FindScreening(screeningUID ScreeningUID) (BookingSlot, bool) {
	return r.schedule.FindScreening(screeningUID)
}

func (r *Room) HasSeat(rowNumber int, letter string) bool {
	return r.layout.HasSeat(rowNumber, letter)
}

func (r *Room) IsPreferentialSeat(rowNumber int, letter string) bool {
	return r.layout.IsPreferentialSeat(rowNumber, letter)
}

// DiffBookings reports which bookings must be inserted and deleted to turn
// before into after.
func DiffBookings(before, after *Room) (added []BookingSlot, removed []BookingUID) {
	for _, slot := range after.schedule.slots {
		if _, ok := before.schedule.FindByUID(slot.UID()); !ok {
			added = append(added, slot)
		}
	}

	for _, slot := range before.schedule.slots {
		if _, ok := after.schedule.FindByUID(slot.UID()); !ok {
			removed = append(removed, slot.UID())
		}
	}

	return added, removed
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

type RoomRepository interface {
	FindByID(ctx context.Context, uid RoomUID) (*Room, error)
	ExistsByIdentifier(ctx context.Context, identifier RoomIdentifier) (bool, error)
	List(ctx context.Context, pagination Pagination) ([]*Room, *Metadata, error)
	Create(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) (int, error)
	Delete(ctx context.Context, uid RoomUID) error
	AddBookings(ctx context.Context, roomUID RoomUID, slots ...BookingSlot) error
	DeleteBookings(ctx context.Context, roomUID RoomUID, uids ...BookingUID) error
}
