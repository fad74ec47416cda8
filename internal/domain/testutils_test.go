package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2030, time.March, 10, 8, 0, 0, 0, time.UTC)

func freezeNow(t testing.TB, at time.Time) {
	t.Helper()

	original := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = original })
}

func standardSeatConfig() []SeatRowConfig {
	return []SeatRowConfig{
		{RowNumber: 1, LastColumnLetter: "E", PreferentialSeatLetters: []string{"A", "B"}},
		{RowNumber: 2, LastColumnLetter: "F", PreferentialSeatLetters: []string{"C", "D"}},
		{RowNumber: 3, LastColumnLetter: "G", PreferentialSeatLetters: []string{}},
		{RowNumber: 4, LastColumnLetter: "H", PreferentialSeatLetters: []string{}},
	}
}

func standardRoomParams() CreateRoomParams {
	return CreateRoomParams{
		Identifier: 1,
		SeatConfig: standardSeatConfig(),
		ScreenSize: decimal.NewFromInt(20),
		ScreenType: "2D",
		Status:     "AVAILABLE",
	}
}

func newStandardRoom(t testing.TB) *Room {
	t.Helper()

	room, err := CreateRoom(standardRoomParams())
	require.NoError(t, err)

	return room
}

func requireCode(t testing.TB, err error, code FailureCode) {
	t.Helper()

	require.Error(t, err)
	require.Truef(t, HasCode(err, code), "expected code %s, got %v", code, FailureCodes(err))
}
