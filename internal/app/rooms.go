package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-room-scheduling/api"
	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func (app *Application) GetRooms(w http.ResponseWriter, r *http.Request, params api.GetRoomsParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}

	rooms, metadata, err := app.roomRepo.List(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.RoomListResponse{
		Rooms:    make([]api.RoomResponse, len(rooms)),
		Metadata: toApiMetadata(metadata),
	}

	for i, room := range rooms {
		resp.Rooms[i] = toApiRoom(room)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateRoom(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateRoomRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	room, err := app.roomService.Create(r.Context(), toCreateRoomParams(input))
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	err = app.roomRepo.Create(r.Context(), room)
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	logger.Info("room created", "room_uid", room.UID(), "identifier", room.Identifier())

	if err := app.cacheRoom(r.Context(), room); err != nil {
		logger.Warn("failed to cache room", "room_uid", room.UID(), "error", err)
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/rooms/%s", room.UID()))

	err = app.writeJSON(w, http.StatusCreated, toApiRoom(room), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRoomById(w http.ResponseWriter, r *http.Request, roomId string) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	room, err := app.loadRoom(r.Context(), roomUID)
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiRoom(room), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteRoom(w http.ResponseWriter, r *http.Request, roomId string) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	err = app.withRoomLock(r.Context(), roomUID, func(ctx context.Context) error {
		room, err := app.roomService.FindByID(ctx, roomUID)
		if err != nil {
			return err
		}

		if err := room.EnsureDeletable(); err != nil {
			return err
		}

		if err := app.roomRepo.Delete(ctx, roomUID); err != nil {
			app.invalidateRoom(ctx, roomUID)
			return err
		}

		app.markRoomDeleted(ctx, roomUID)
		return nil
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("room deleted", "room_uid", roomUID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) CloseRoom(w http.ResponseWriter, r *http.Request, roomId string) {
	app.changeRoomStatus(w, r, roomId, domain.RoomClosed)
}

func (app *Application) OpenRoom(w http.ResponseWriter, r *http.Request, roomId string) {
	app.changeRoomStatus(w, r, roomId, domain.RoomAvailable)
}

func (app *Application) changeRoomStatus(w http.ResponseWriter, r *http.Request, roomId string, status domain.RoomStatus) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	room, err := app.mutateRoom(r.Context(), roomUID, func(room *domain.Room) (*domain.Room, error) {
		return room.ChangeStatus(string(status))
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiRoom(room), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ChangeRoomScreen(w http.ResponseWriter, r *http.Request, roomId string) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	var input api.ChangeScreenRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	room, err := app.mutateRoom(r.Context(), roomUID, func(room *domain.Room) (*domain.Room, error) {
		return room.ChangeScreen(input.Size, string(input.Type))
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiRoom(room), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRoomBookings(w http.ResponseWriter, r *http.Request, roomId string) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	room, err := app.loadRoom(r.Context(), roomUID)
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		RoomUid:  room.UID().String(),
		Bookings: toApiBookings(room.Bookings()),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRoomFreeSlots(
	w http.ResponseWriter,
	r *http.Request,
	roomId string,
	params api.GetRoomFreeSlotsParams) {

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	room, err := app.loadRoom(r.Context(), roomUID)
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	minMinutes := 0
	if params.MinMinutes != nil {
		minMinutes = *params.MinMinutes
	}

	date := time.Date(params.Date.Year(), params.Date.Month(), params.Date.Day(), 0, 0, 0, 0, time.UTC)
	slots := room.FreeSlotsForDate(date, minMinutes)

	resp := api.FreeSlotsResponse{
		RoomUid:   room.UID().String(),
		Date:      types.Date{Time: date},
		FreeSlots: make([]api.FreeSlot, len(slots)),
	}

	for i, slot := range slots {
		resp.FreeSlots[i] = api.FreeSlot{
			StartTime:         slot.Start,
			EndTime:           slot.End,
			DurationInMinutes: slot.Minutes(),
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRoomAvailability(
	w http.ResponseWriter,
	r *http.Request,
	roomId string,
	params api.GetRoomAvailabilityParams) {

	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	room, err := app.loadRoom(r.Context(), roomUID)
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	resp := api.AvailabilityResponse{
		RoomUid:     room.UID().String(),
		StartTime:   params.Start,
		EndTime:     params.End,
		Available:   true,
		Conflicting: []string{},
	}

	err = room.IsPeriodAvailable(params.Start, params.End)
	switch {
	case err == nil:
	case domain.HasCode(err, domain.CodeRoomNotAvailableForPeriod):
		resp.Available = false
		resp.Conflicting = conflictingBookings(err)
	default:
		app.failureResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ScheduleCleaning(w http.ResponseWriter, r *http.Request, roomId string) {
	app.scheduleActivity(w, r, roomId, domain.BookingCleaning)
}

func (app *Application) ScheduleMaintenance(w http.ResponseWriter, r *http.Request, roomId string) {
	app.scheduleActivity(w, r, roomId, domain.BookingMaintenance)
}

func (app *Application) scheduleActivity(w http.ResponseWriter, r *http.Request, roomId string, activity domain.BookingType) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	var input api.ScheduleActivityRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	var added []domain.BookingSlot

	err = app.withRoomLock(r.Context(), roomUID, func(ctx context.Context) error {
		before, err := app.roomService.FindByID(ctx, roomUID)
		if err != nil {
			return err
		}

		after, err := app.roomService.ScheduleActivity(ctx, roomUID, string(activity), input.StartIn, input.DurationInMinutes)
		if err != nil {
			return err
		}

		added, err = app.persistRoom(ctx, before, after)
		return err
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("activity scheduled", "room_uid", roomUID, "type", activity)

	if len(added) != 1 {
		app.serverErrorResponse(w, r, fmt.Errorf("expected one scheduled booking, got %d", len(added)))
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiBooking(added[0]), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RemoveCleaning(w http.ResponseWriter, r *http.Request, roomId string, bookingUid string) {
	app.removeActivity(w, r, roomId, bookingUid, domain.BookingCleaning)
}

func (app *Application) RemoveMaintenance(w http.ResponseWriter, r *http.Request, roomId string, bookingUid string) {
	app.removeActivity(w, r, roomId, bookingUid, domain.BookingMaintenance)
}

func (app *Application) removeActivity(
	w http.ResponseWriter,
	r *http.Request,
	roomId string,
	bookingUid string,
	activity domain.BookingType) {

	roomUID, roomErr := domain.ParseRoomUID(roomId)
	bookingUID, bookingErr := domain.ParseBookingUID(bookingUid)
	if err := domain.Combine(roomErr, bookingErr); err != nil {
		app.failureResponse(w, r, err)
		return
	}

	err := app.withRoomLock(r.Context(), roomUID, func(ctx context.Context) error {
		before, err := app.roomService.FindByID(ctx, roomUID)
		if err != nil {
			return err
		}

		after, err := app.roomService.RemoveScheduledActivity(ctx, roomUID, bookingUID)
		if err != nil {
			return err
		}

		// the route names the activity type it removes
		if booking, ok := before.FindBookingByUID(bookingUID); ok && booking.Type() != activity {
			return domain.NewFailure(domain.CodeBookingTypeInvalidForRemoval, map[string]any{
				"bookingUID": bookingUID,
				"type":       booking.Type(),
				"expected":   activity,
			})
		}

		_, err = app.persistRoom(ctx, before, after)
		return err
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("activity removed", "room_uid", roomUID, "booking_uid", bookingUID, "type", activity)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) AddScreening(w http.ResponseWriter, r *http.Request, roomId string) {
	roomUID, err := domain.ParseRoomUID(roomId)
	if err != nil {
		app.failureResponse(w, r, err)
		return
	}

	var input api.AddScreeningRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	screeningUID := domain.NewScreeningUID()
	if input.ScreeningUid != nil {
		screeningUID, err = domain.ParseScreeningUID(*input.ScreeningUid)
		if err != nil {
			app.failureResponse(w, r, err)
			return
		}
	}

	var added []domain.BookingSlot

	err = app.withRoomLock(r.Context(), roomUID, func(ctx context.Context) error {
		before, err := app.roomService.FindByID(ctx, roomUID)
		if err != nil {
			return err
		}

		after, err := before.AddScreening(screeningUID, input.StartTime, input.DurationInMinutes)
		if err != nil {
			return err
		}

		added, err = app.persistRoom(ctx, before, after)
		return err
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("screening added", "room_uid", roomUID, "screening_uid", screeningUID)

	resp := api.ScreeningResponse{
		RoomUid:      roomUID.String(),
		ScreeningUid: screeningUID.String(),
		Bookings:     toApiBookings(added),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RemoveScreening(w http.ResponseWriter, r *http.Request, roomId string, screeningUid string) {
	roomUID, roomErr := domain.ParseRoomUID(roomId)
	screeningUID, screeningErr := domain.ParseScreeningUID(screeningUid)
	if err := domain.Combine(roomErr, screeningErr); err != nil {
		app.failureResponse(w, r, err)
		return
	}

	_, err := app.mutateRoom(r.Context(), roomUID, func(room *domain.Room) (*domain.Room, error) {
		return room.RemoveScreening(screeningUID)
	})
	if err != nil {
		app.roomErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("screening removed", "room_uid", roomUID, "screening_uid", screeningUID)

	w.WriteHeader(http.StatusNoContent)
}

// mutateRoom applies op to the stored room under the room lock and persists
// the result.
func (app *Application) mutateRoom(
	ctx context.Context,
	roomUID domain.RoomUID,
	op func(*domain.Room) (*domain.Room, error)) (*domain.Room, error) {

	var result *domain.Room

	err := app.withRoomLock(ctx, roomUID, func(ctx context.Context) error {
		before, err := app.roomService.FindByID(ctx, roomUID)
		if err != nil {
			return err
		}

		after, err := op(before)
		if err != nil {
			return err
		}

		_, err = app.persistRoom(ctx, before, after)
		if err != nil {
			return err
		}

		result = after
		return nil
	})

	return result, err
}

// persistRoom writes the difference between before and after, refreshes the
// cached room and returns the booking slots that were added.
func (app *Application) persistRoom(ctx context.Context, before, after *domain.Room) ([]domain.BookingSlot, error) {
	if before == after {
		return nil, nil
	}

	stored, added, err := app.writeRoom(ctx, before, after)
	if err != nil {
		// earlier writes of this diff may have landed
		app.invalidateRoom(ctx, after.UID())
		return nil, err
	}

	app.refreshRoomCache(ctx, stored)

	return added, nil
}

func (app *Application) writeRoom(ctx context.Context, before, after *domain.Room) (*domain.Room, []domain.BookingSlot, error) {
	stored := after

	if before.Status() != after.Status() || !before.Screen().Equal(after.Screen()) {
		version, err := app.roomRepo.Update(ctx, after)
		if err != nil {
			return nil, nil, err
		}

		stored = after.AtVersion(version)
	}

	added, removedUIDs := domain.DiffBookings(before, after)

	removed := make([]domain.BookingSlot, 0, len(removedUIDs))
	for _, uid := range removedUIDs {
		if slot, ok := before.FindBookingByUID(uid); ok {
			removed = append(removed, slot)
		}
	}

	if len(removedUIDs) > 0 {
		if err := app.roomRepo.DeleteBookings(ctx, after.UID(), removedUIDs...); err != nil {
			return nil, nil, err
		}
	}

	if len(added) > 0 {
		if err := app.roomRepo.AddBookings(ctx, after.UID(), added...); err != nil {
			return nil, nil, err
		}
	}

	app.metrics.recordBookings(ctx, after.UID(), added, removed)

	return stored, added, nil
}

func conflictingBookings(err error) []string {
	conflicting := []string{}

	var f *domain.Failure
	if !errors.As(err, &f) {
		return conflicting
	}

	uids, _ := f.Details["conflicting"].([]domain.BookingUID)
	for _, uid := range uids {
		conflicting = append(conflicting, uid.String())
	}

	return conflicting
}

func toCreateRoomParams(input api.CreateRoomRequest) domain.CreateRoomParams {
	params := domain.CreateRoomParams{
		Identifier: input.Identifier,
		SeatConfig: make([]domain.SeatRowConfig, len(input.SeatConfig)),
		ScreenSize: input.Screen.Size,
		ScreenType: string(input.Screen.Type),
	}

	for i, row := range input.SeatConfig {
		params.SeatConfig[i] = domain.SeatRowConfig{
			RowNumber:               row.RowNumber,
			LastColumnLetter:        row.LastColumnLetter,
			PreferentialSeatLetters: row.PreferentialSeatLetters,
		}
	}

	if input.Status != nil {
		params.Status = string(*input.Status)
	}

	return params
}

func toApiRoom(room *domain.Room) api.RoomResponse {
	layout := room.Layout()
	rows := layout.Rows()

	resp := api.RoomResponse{
		Uid:        room.UID().String(),
		Identifier: room.Identifier().Int(),
		Status:     api.RoomStatus(room.Status()),
		Screen: api.Screen{
			Size: room.Screen().Size(),
			Type: api.ScreenType(room.Screen().Type()),
		},
		SeatLayout: api.SeatLayout{
			TotalCapacity:     layout.TotalCapacity(),
			PreferentialCount: layout.PreferentialCount(),
			Rows:              make([]api.SeatRow, len(rows)),
		},
		BookingCount: len(room.Bookings()),
	}

	for i, row := range rows {
		preferential := row.PreferentialSeatLetters
		if preferential == nil {
			preferential = []string{}
		}

		resp.SeatLayout.Rows[i] = api.SeatRow{
			RowNumber:               row.RowNumber,
			LastColumnLetter:        row.LastColumnLetter,
			Capacity:                row.Capacity,
			PreferentialSeatLetters: preferential,
		}
	}

	return resp
}

func toApiBookings(slots []domain.BookingSlot) []api.Booking {
	bookings := make([]api.Booking, len(slots))
	for i, slot := range slots {
		bookings[i] = toApiBooking(slot)
	}

	return bookings
}

func toApiBooking(slot domain.BookingSlot) api.Booking {
	booking := api.Booking{
		Uid:               slot.UID().String(),
		Type:              api.BookingType(slot.Type()),
		StartTime:         slot.StartTime(),
		EndTime:           slot.EndTime(),
		DurationInMinutes: int(slot.Duration().Minutes()),
	}

	if slot.HasScreening() {
		screeningUID := slot.ScreeningUID().String()
		booking.ScreeningUid = &screeningUID
	}

	return booking
}

func toApiMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
