package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	roomUIDPrefix      = "ROOM_"
	bookingUIDPrefix   = "BOOKING_"
	screeningUIDPrefix = "SCREENING_"

	MinRoomIdentifier = 1
	MaxRoomIdentifier = 100
)

type (
	RoomUID      string
	BookingUID   string
	ScreeningUID string
)

func NewRoomUID() RoomUID {
	return RoomUID(roomUIDPrefix + uuid.NewString())
}

func NewBookingUID() BookingUID {
	return BookingUID(bookingUIDPrefix + uuid.NewString())
}

func NewScreeningUID() ScreeningUID {
	return ScreeningUID(screeningUIDPrefix + uuid.NewString())
}

func ParseRoomUID(s string) (RoomUID, error) {
	v, err := parsePrefixed("roomUID", roomUIDPrefix, s)
	return RoomUID(v), err
}

func ParseBookingUID(s string) (BookingUID, error) {
	v, err := parsePrefixed("bookingUID", bookingUIDPrefix, s)
	return BookingUID(v), err
}

func ParseScreeningUID(s string) (ScreeningUID, error) {
	v, err := parsePrefixed("screeningUID", screeningUIDPrefix, s)
	return ScreeningUID(v), err
}

func parsePrefixed(field, prefix, s string) (string, error) {
	if s == "" {
		return "", missing(field)
	}

	raw, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", NewFailure(CodeInvalidFormat, map[string]any{"field": field, "value": s})
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", NewFailure(CodeInvalidFormat, map[string]any{"field": field, "value": s})
	}

	return prefix + id.String(), nil
}

func (u RoomUID) String() string      { return string(u) }
func (u BookingUID) String() string   { return string(u) }
func (u ScreeningUID) String() string { return string(u) }

// RoomIdentifier is the human facing room number inside a cinema.
type RoomIdentifier int

func NewRoomIdentifier(v int) (RoomIdentifier, error) {
	if v < MinRoomIdentifier || v > MaxRoomIdentifier {
		return 0, NewFailure(CodeValueOutOfRange, map[string]any{
			"field": "identifier",
			"min":   MinRoomIdentifier,
			"max":   MaxRoomIdentifier,
			"value": v,
		})
	}

	return RoomIdentifier(v), nil
}

func (id RoomIdentifier) Int() int {
	return int(id)
}
