package domain

import (
	"slices"
	"time"
)

// TimeSlot is a free [Start, End) interval.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

func (t TimeSlot) Minutes() int {
	return int(t.End.Sub(t.Start).Minutes())
}

// RoomSchedule holds the bookings of one room ordered by start time. Values are
// never mutated; every change returns a new schedule.
type RoomSchedule struct {
	slots []BookingSlot
}

func NewRoomSchedule(slots ...BookingSlot) RoomSchedule {
	sorted := slices.Clone(slots)
	sortSlots(sorted)

	return RoomSchedule{slots: sorted}
}

// IsAvailable fails with ROOM_NOT_AVAILABLE_FOR_PERIOD when [start, end)
// intersects any booking.
func (s RoomSchedule) IsAvailable(start, end time.Time) error {
	var conflicts []BookingUID

	for _, slot := range s.slots {
		if slot.Overlaps(start, end) {
			conflicts = append(conflicts, slot.UID())
		}
	}

	if len(conflicts) > 0 {
		return NewFailure(CodeRoomNotAvailableForPeriod, map[string]any{
			"startTime":   start,
			"endTime":     end,
			"conflicting": conflicts,
		})
	}

	return nil
}

func (s RoomSchedule) Add(slot BookingSlot) (RoomSchedule, error) {
	if err := s.IsAvailable(slot.StartTime(), slot.EndTime()); err != nil {
		return s, err
	}

	slots := make([]BookingSlot, 0, len(s.slots)+1)
	slots = append(slots, s.slots...)
	slots = append(slots, slot)
	sortSlots(slots)

	return RoomSchedule{slots: slots}, nil
}

func (s RoomSchedule) RemoveByUID(uid BookingUID) (RoomSchedule, error) {
	idx := slices.IndexFunc(s.slots, func(b BookingSlot) bool { return b.UID() == uid })
	if idx < 0 {
		return s, NewFailure(CodeBookingNotFoundInRoom, map[string]any{"bookingUID": uid})
	}

	return RoomSchedule{slots: slices.Delete(slices.Clone(s.slots), idx, idx+1)}, nil
}

// RemoveScreening drops every slot linked to the screening: the screening itself
// and its entry, exit and cleaning slots.
func (s RoomSchedule) RemoveScreening(screeningUID ScreeningUID) (RoomSchedule, error) {
	if screeningUID == "" {
		return s, missing("screeningUID")
	}

	kept := make([]BookingSlot, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.ScreeningUID() != screeningUID {
			kept = append(kept, slot)
		}
	}

	if len(kept) == len(s.slots) {
		return s, NewFailure(CodeBookingNotFoundForScreening, map[string]any{"screeningUID": screeningUID})
	}

	return RoomSchedule{slots: kept}, nil
}

// FreeSlotsForDate returns the gaps of at least minMinutes between bookings on
// the calendar day of date, in date's location.
func (s RoomSchedule) FreeSlotsForDate(date time.Time, minMinutes int) []TimeSlot {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	minGap := time.Duration(max(minMinutes, 1)) * time.Minute

	free := make([]TimeSlot, 0)
	cursor := dayStart

	for _, slot := range s.slots {
		if !slot.Overlaps(dayStart, dayEnd) {
			continue
		}

		if slot.StartTime().After(cursor) && slot.StartTime().Sub(cursor) >= minGap {
			free = append(free, TimeSlot{Start: cursor, End: slot.StartTime()})
		}

		if slot.EndTime().After(cursor) {
			cursor = slot.EndTime()
		}
	}

	if cursor.Before(dayEnd) && dayEnd.Sub(cursor) >= minGap {
		free = append(free, TimeSlot{Start: cursor, End: dayEnd})
	}

	return free
}

func (s RoomSchedule) Bookings() []BookingSlot {
	return slices.Clone(s.slots)
}

func (s RoomSchedule) Len() int {
	return len(s.slots)
}

func (s RoomSchedule) HasBookings() bool {
	return len(s.slots) > 0
}

func (s RoomSchedule) FindByUID(uid BookingUID) (BookingSlot, bool) {
	for _, slot := range s.slots {
		if slot.UID() == uid {
			return slot, true
		}
	}

	return BookingSlot{}, false
}

// FindScreening returns the SCREENING slot of a screening, ignoring its
// auxiliary slots.
func (s RoomSchedule) FindScreening(screeningUID ScreeningUID) (BookingSlot, bool) {
	for _, slot := range s.slots {
		if slot.ScreeningUID() == screeningUID && slot.Type() == BookingScreening {
			return slot, true
		}
	}

	return BookingSlot{}, false
}

func sortSlots(slots []BookingSlot) {
	slices.SortStableFunc(slots, func(a, b BookingSlot) int {
		return a.StartTime().Compare(b.StartTime())
	})
}
