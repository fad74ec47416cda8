package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RoomService guards the room aggregate: it validates requests and loads rooms
// through the repository, but never persists anything itself.
type RoomService struct {
	repo RoomRepository
}

func NewRoomService(repo RoomRepository) *RoomService {
	return &RoomService{repo: repo}
}

func (s *RoomService) FindByID(ctx context.Context, uid RoomUID) (*Room, error) {
	if uid == "" {
		return nil, missing("roomUID")
	}

	room, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, NewFailure(CodeResourceNotFound, map[string]any{"resource": "room", "roomUID": uid})
		}

		return nil, fmt.Errorf("find room %s: %w", uid, err)
	}

	return room, nil
}

func (s *RoomService) Create(ctx context.Context, p CreateRoomParams) (*Room, error) {
	exists, err := s.repo.ExistsByIdentifier(ctx, RoomIdentifier(p.Identifier))
	if err != nil {
		return nil, fmt.Errorf("check room %d exists: %w", p.Identifier, err)
	}

	if exists {
		return nil, NewFailure(CodeResourceAlreadyExists, map[string]any{
			"resource":   "room",
			"identifier": p.Identifier,
		})
	}

	return CreateRoom(p)
}

// ScheduleActivity books a cleaning or a maintenance slot. Screening related
// slots can only be created through AddScreening.
func (s *RoomService) ScheduleActivity(
	ctx context.Context,
	roomUID RoomUID,
	activityType string,
	startIn time.Time,
	durationInMinutes int) (*Room, error) {

	var errs []error
	if roomUID == "" {
		errs = append(errs, missing("roomUID"))
	}
	if activityType == "" {
		errs = append(errs, missing("activityType"))
	}
	if startIn.IsZero() {
		errs = append(errs, missing("startIn"))
	}
	if err := Combine(errs...); err != nil {
		return nil, err
	}

	if !startIn.After(now()) {
		return nil, NewFailure(CodeDateCannotBePast, map[string]any{"field": "startIn", "value": startIn})
	}

	room, err := s.FindByID(ctx, roomUID)
	if err != nil {
		return nil, err
	}

	switch t := BookingType(activityType); t {
	case BookingCleaning:
		return room.ScheduleCleaning(startIn, durationInMinutes)
	case BookingMaintenance:
		return room.ScheduleMaintenance(startIn, durationInMinutes)
	case BookingScreening, BookingEntryTime, BookingExitTime:
		return nil, NewFailure(CodeBookingTypeInvalidForRemoval, map[string]any{"activityType": t})
	default:
		return nil, NewFailure(CodeBookingWithInvalidActivityType, map[string]any{"activityType": activityType})
	}
}

// RemoveScheduledActivity checks that a standalone cleaning or maintenance
// booking may be cancelled and returns the room without it.
func (s *RoomService) RemoveScheduledActivity(ctx context.Context, roomUID RoomUID, bookingUID BookingUID) (*Room, error) {
	var errs []error
	if roomUID == "" {
		errs = append(errs, missing("roomUID"))
	}
	if bookingUID == "" {
		errs = append(errs, missing("bookingUID"))
	}
	if err := Combine(errs...); err != nil {
		return nil, err
	}

	room, err := s.FindByID(ctx, roomUID)
	if err != nil {
		return nil, err
	}

	booking, ok := room.FindBookingByUID(bookingUID)
	if !ok {
		return nil, NewFailure(CodeBookingNotFoundInFutureSched, map[string]any{"bookingUID": bookingUID})
	}

	if booking.HasStarted(now()) {
		return nil, NewFailure(CodeBookingAlreadyStarted, map[string]any{
			"bookingUID": bookingUID,
			"startTime":  booking.StartTime(),
		})
	}

	switch booking.Type() {
	case BookingCleaning:
		if booking.HasScreening() {
			return nil, NewFailure(CodeCleaningLinkedToScreening, map[string]any{
				"bookingUID":   bookingUID,
				"screeningUID": booking.ScreeningUID(),
			})
		}
	case BookingMaintenance:
	default:
		return nil, NewFailure(CodeBookingTypeInvalidForRemoval, map[string]any{
			"bookingUID": bookingUID,
			"type":       booking.Type(),
		})
	}

	return room.RemoveBookingByUID(bookingUID)
}
