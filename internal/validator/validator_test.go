package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-room-scheduling/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomRequestValidation(t *testing.T) {
	v := NewValidator()

	valid := func() api.CreateRoomRequest {
		return api.CreateRoomRequest{
			Identifier: 1,
			SeatConfig: []api.SeatRowRequest{
				{RowNumber: 1, LastColumnLetter: "J", PreferentialSeatLetters: []string{"a", " B "}},
			},
			Screen: api.ScreenRequest{Size: decimal.NewFromInt(10), Type: api.N3D},
		}
	}

	tests := []struct {
		name        string
		modify      func(*api.CreateRoomRequest)
		wantField   string
		wantMessage string
	}{
		{
			name:   "valid request",
			modify: func(*api.CreateRoomRequest) {},
		},
		{
			name:        "missing identifier",
			modify:      func(r *api.CreateRoomRequest) { r.Identifier = 0 },
			wantField:   "Identifier",
			wantMessage: "is required",
		},
		{
			name:        "empty seat config",
			modify:      func(r *api.CreateRoomRequest) { r.SeatConfig = []api.SeatRowRequest{} },
			wantField:   "SeatConfig",
			wantMessage: "must be at least 1",
		},
		{
			name:        "last column is not a letter",
			modify:      func(r *api.CreateRoomRequest) { r.SeatConfig[0].LastColumnLetter = "10" },
			wantField:   "LastColumnLetter",
			wantMessage: "must be a single letter between A and Z",
		},
		{
			name: "preferential seat is not a letter",
			modify: func(r *api.CreateRoomRequest) {
				r.SeatConfig[0].PreferentialSeatLetters = []string{"A", "?"}
			},
			wantField:   "PreferentialSeatLetters[1]",
			wantMessage: "must be a single letter between A and Z",
		},
		{
			name:        "unknown screen type",
			modify:      func(r *api.CreateRoomRequest) { r.Screen.Type = "VR" },
			wantField:   "Type",
			wantMessage: "must be one of [2D 3D IMAX 4DX]",
		},
		{
			name: "unknown status",
			modify: func(r *api.CreateRoomRequest) {
				status := api.RoomStatus("BROKEN")
				r.Status = &status
			},
			wantField:   "Status",
			wantMessage: "must be one of [AVAILABLE CLOSED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.modify(&req)

			err := v.Struct(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var validationErrs validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrs), "expected validation errors, got %v", err)
			require.Len(t, validationErrs, 1)

			assert.Equal(t, tt.wantField, validationErrs[0].Field())
			assert.Equal(t, tt.wantMessage, ValidationMessage(validationErrs[0]))
		})
	}
}

func TestQueryParamsValidation(t *testing.T) {
	v := NewValidator()
	ptr := func(n int) *int { return &n }

	assert.NoError(t, v.Struct(api.GetRoomsParams{}))
	assert.NoError(t, v.Struct(api.GetRoomsParams{Page: ptr(1000), PageSize: ptr(100)}))
	assert.Error(t, v.Struct(api.GetRoomsParams{Page: ptr(0)}))
	assert.Error(t, v.Struct(api.GetRoomsParams{PageSize: ptr(101)}))

	assert.NoError(t, v.Struct(api.GetRoomFreeSlotsParams{MinMinutes: ptr(30)}))
	assert.Error(t, v.Struct(api.GetRoomFreeSlotsParams{MinMinutes: ptr(0)}))
}
