package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Defines values for RoomStatus.
const (
	AVAILABLE RoomStatus = "AVAILABLE"
	CLOSED    RoomStatus = "CLOSED"
)

// Defines values for ScreenType.
const (
	N2D  ScreenType = "2D"
	N3D  ScreenType = "3D"
	IMAX ScreenType = "IMAX"
	N4DX ScreenType = "4DX"
)

// Defines values for BookingType.
const (
	SCREENING   BookingType = "SCREENING"
	CLEANING    BookingType = "CLEANING"
	MAINTENANCE BookingType = "MAINTENANCE"
	ENTRYTIME   BookingType = "ENTRY_TIME"
	EXITTIME    BookingType = "EXIT_TIME"
)

type RoomStatus string

type ScreenType string

type BookingType string

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// DomainError is one business rule violation reported by the scheduling model.
type DomainError struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

type DomainErrorResponse struct {
	Message   string        `json:"message"`
	RequestId string        `json:"requestId"`
	Timestamp time.Time     `json:"timestamp"`
	Errors    []DomainError `json:"errors"`
}

type SystemInfo struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

type HealthcheckResponse struct {
	Status     string            `json:"status"`
	SystemInfo SystemInfo        `json:"systemInfo"`
	Checks     map[string]string `json:"checks"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SeatRowRequest struct {
	RowNumber               int      `json:"rowNumber" validate:"required"`
	LastColumnLetter        string   `json:"lastColumnLetter" validate:"required,seat_letter"`
	PreferentialSeatLetters []string `json:"preferentialSeatLetters,omitempty" validate:"omitempty,dive,seat_letter"`
}

type ScreenRequest struct {
	Size decimal.Decimal `json:"size"`
	Type ScreenType      `json:"type" validate:"required,screen_type"`
}

type CreateRoomRequest struct {
	Identifier int              `json:"identifier" validate:"required"`
	SeatConfig []SeatRowRequest `json:"seatConfig" validate:"required,min=1,dive"`
	Screen     ScreenRequest    `json:"screen" validate:"required"`
	Status     *RoomStatus      `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE CLOSED"`
}

type ChangeScreenRequest = ScreenRequest

type ScheduleActivityRequest struct {
	StartIn           time.Time `json:"startIn" validate:"required"`
	DurationInMinutes int       `json:"durationInMinutes" validate:"required"`
}

type AddScreeningRequest struct {
	ScreeningUid      *string   `json:"screeningUid,omitempty"`
	StartTime         time.Time `json:"startTime" validate:"required"`
	DurationInMinutes int       `json:"durationInMinutes" validate:"required"`
}

type Screen struct {
	Size decimal.Decimal `json:"size"`
	Type ScreenType      `json:"type"`
}

type SeatRow struct {
	RowNumber               int      `json:"rowNumber"`
	LastColumnLetter        string   `json:"lastColumnLetter"`
	Capacity                int      `json:"capacity"`
	PreferentialSeatLetters []string `json:"preferentialSeatLetters"`
}

type SeatLayout struct {
	TotalCapacity     int       `json:"totalCapacity"`
	PreferentialCount int       `json:"preferentialCount"`
	Rows              []SeatRow `json:"rows"`
}

type RoomResponse struct {
	Uid          string     `json:"uid"`
	Identifier   int        `json:"identifier"`
	Status       RoomStatus `json:"status"`
	Screen       Screen     `json:"screen"`
	SeatLayout   SeatLayout `json:"seatLayout"`
	BookingCount int        `json:"bookingCount"`
}

type RoomListResponse struct {
	Rooms    []RoomResponse `json:"rooms"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

type Booking struct {
	Uid               string      `json:"uid"`
	ScreeningUid      *string     `json:"screeningUid,omitempty"`
	Type              BookingType `json:"type"`
	StartTime         time.Time   `json:"startTime"`
	EndTime           time.Time   `json:"endTime"`
	DurationInMinutes int         `json:"durationInMinutes"`
}

type BookingListResponse struct {
	RoomUid  string    `json:"roomUid"`
	Bookings []Booking `json:"bookings"`
}

type ScreeningResponse struct {
	RoomUid      string    `json:"roomUid"`
	ScreeningUid string    `json:"screeningUid"`
	Bookings     []Booking `json:"bookings"`
}

type FreeSlot struct {
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	DurationInMinutes int       `json:"durationInMinutes"`
}

type FreeSlotsResponse struct {
	RoomUid   string             `json:"roomUid"`
	Date      openapi_types.Date `json:"date"`
	FreeSlots []FreeSlot         `json:"freeSlots"`
}

type AvailabilityResponse struct {
	RoomUid     string    `json:"roomUid"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Available   bool      `json:"available"`
	Conflicting []string  `json:"conflicting"`
}

// GetRoomsParams defines parameters for GetRooms.
type GetRoomsParams struct {
	Page     *int `form:"page,omitempty" json:"page,omitempty" validate:"omitempty,min=1,max=1000"`
	PageSize *int `form:"pageSize,omitempty" json:"pageSize,omitempty" validate:"omitempty,min=1,max=100"`
}

// GetRoomFreeSlotsParams defines parameters for GetRoomFreeSlots.
type GetRoomFreeSlotsParams struct {
	Date       openapi_types.Date `form:"date" json:"date"`
	MinMinutes *int               `form:"minMinutes,omitempty" json:"minMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
}

// GetRoomAvailabilityParams defines parameters for GetRoomAvailability.
type GetRoomAvailabilityParams struct {
	Start time.Time `form:"start" json:"start"`
	End   time.Time `form:"end" json:"end"`
}
