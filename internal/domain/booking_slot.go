package domain

import "time"

type BookingType string

const (
	BookingScreening   BookingType = "SCREENING"
	BookingCleaning    BookingType = "CLEANING"
	BookingMaintenance BookingType = "MAINTENANCE"
	BookingEntryTime   BookingType = "ENTRY_TIME"
	BookingExitTime    BookingType = "EXIT_TIME"
)

type durationBounds struct {
	min, max int
}

// allowed duration per booking type, in minutes
var bookingDurations = map[BookingType]durationBounds{
	BookingScreening:   {min: 30, max: 360},
	BookingCleaning:    {min: 20, max: 120},
	BookingMaintenance: {min: 0, max: 4320},
	BookingExitTime:    {min: 15, max: 30},
	BookingEntryTime:   {min: 15, max: 20},
}

func ParseBookingType(s string) (BookingType, error) {
	if s == "" {
		return "", missing("type")
	}

	t := BookingType(s)
	if _, ok := bookingDurations[t]; !ok {
		return "", NewFailure(CodeInvalidEnumValue, map[string]any{"field": "type", "value": s})
	}

	return t, nil
}

// RequiresScreening reports whether slots of this type must reference a screening.
func (t BookingType) RequiresScreening() bool {
	return t == BookingScreening || t == BookingEntryTime || t == BookingExitTime
}

// now is replaced in tests that need a fixed clock.
var now = time.Now

// BookingSlot is a reserved [start, end) interval in a room.
type BookingSlot struct {
	uid          BookingUID
	screeningUID ScreeningUID
	start        time.Time
	end          time.Time
	bookingType  BookingType
}

// NewBookingSlot validates and builds a new slot. screeningUID may be empty for
// cleaning and maintenance.
func NewBookingSlot(screeningUID ScreeningUID, start, end time.Time, bookingType BookingType) (BookingSlot, error) {
	var errs []error
	if start.IsZero() {
		errs = append(errs, missing("startTime"))
	}
	if end.IsZero() {
		errs = append(errs, missing("endTime"))
	}
	if bookingType == "" {
		errs = append(errs, missing("type"))
	}
	if bookingType.RequiresScreening() && screeningUID == "" {
		errs = append(errs, missing("screeningUID"))
	}
	if err := Combine(errs...); err != nil {
		return BookingSlot{}, err
	}

	bounds, ok := bookingDurations[bookingType]
	if !ok {
		return BookingSlot{}, NewFailure(CodeInvalidEnumValue, map[string]any{"field": "type", "value": bookingType})
	}

	var pastErr, sequenceErr error

	if !start.After(now()) {
		pastErr = NewFailure(CodeDateCannotBePast, map[string]any{"field": "startTime", "value": start})
	}

	if !end.After(start) {
		sequenceErr = NewFailure(CodeDateWithInvalidSequence, map[string]any{
			"startTime": start,
			"endTime":   end,
		})
	}

	if err := Combine(pastErr, sequenceErr); err != nil {
		return BookingSlot{}, err
	}

	minutes := end.Sub(start).Minutes()
	if minutes < float64(bounds.min) || minutes > float64(bounds.max) {
		return BookingSlot{}, NewFailure(CodeInvalidOperationDuration, map[string]any{
			"type":     bookingType,
			"minutes":  minutes,
			"min":      bounds.min,
			"max":      bounds.max,
			"startsAt": start,
		})
	}

	return BookingSlot{
		uid:          NewBookingUID(),
		screeningUID: screeningUID,
		start:        start,
		end:          end,
		bookingType:  bookingType,
	}, nil
}

// HydrateBookingSlot rebuilds a slot from trusted storage. Only structurally
// impossible data is rejected.
func HydrateBookingSlot(uid BookingUID, screeningUID ScreeningUID, start, end time.Time, bookingType BookingType) (BookingSlot, error) {
	if uid == "" || start.IsZero() || end.IsZero() || bookingType == "" {
		return BookingSlot{}, corrupt("booking slot %q is missing required fields", uid)
	}

	if bookingType.RequiresScreening() && screeningUID == "" {
		return BookingSlot{}, corrupt("booking slot %q of type %s has no screening", uid, bookingType)
	}

	return BookingSlot{
		uid:          uid,
		screeningUID: screeningUID,
		start:        start,
		end:          end,
		bookingType:  bookingType,
	}, nil
}

func (b BookingSlot) UID() BookingUID            { return b.uid }
func (b BookingSlot) ScreeningUID() ScreeningUID { return b.screeningUID }
func (b BookingSlot) StartTime() time.Time       { return b.start }
func (b BookingSlot) EndTime() time.Time         { return b.end }
func (b BookingSlot) Type() BookingType          { return b.bookingType }

func (b BookingSlot) Duration() time.Duration {
	return b.end.Sub(b.start)
}

func (b BookingSlot) HasScreening() bool {
	return b.screeningUID != ""
}

func (b BookingSlot) HasStarted(at time.Time) bool {
	return !b.start.After(at)
}

// Overlaps uses half-open intervals, so touching endpoints do not overlap.
func (b BookingSlot) Overlaps(start, end time.Time) bool {
	return b.start.Before(end) && start.Before(b.end)
}

func (b BookingSlot) Equal(other BookingSlot) bool {
	return b.uid == other.uid
}
