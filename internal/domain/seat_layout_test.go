package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeatLayout(t *testing.T) {
	layout, err := NewSeatLayout(standardSeatConfig())
	require.NoError(t, err)

	assert.Equal(t, 26, layout.TotalCapacity())
	assert.Equal(t, 4, layout.PreferentialCount())
	assert.Equal(t, 4, layout.RowCount())

	want := []SeatRowInfo{
		{RowNumber: 1, LastColumnLetter: "E", Capacity: 5, PreferentialSeatLetters: []string{"A", "B"}},
		{RowNumber: 2, LastColumnLetter: "F", Capacity: 6, PreferentialSeatLetters: []string{"C", "D"}},
		{RowNumber: 3, LastColumnLetter: "G", Capacity: 7, PreferentialSeatLetters: []string{}},
		{RowNumber: 4, LastColumnLetter: "H", Capacity: 8, PreferentialSeatLetters: []string{}},
	}
	if diff := cmp.Diff(want, layout.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSeatLayoutOrdersRows(t *testing.T) {
	layout, err := NewSeatLayout([]SeatRowConfig{
		{RowNumber: 3, LastColumnLetter: "D"},
		{RowNumber: 1, LastColumnLetter: "Z"},
	})
	require.NoError(t, err)

	rows := layout.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].RowNumber)
	assert.Equal(t, 26, rows[0].Capacity)
	assert.Equal(t, 3, rows[1].RowNumber)
	assert.Equal(t, 30, layout.TotalCapacity())
}

func TestNewSeatLayoutFailures(t *testing.T) {
	tests := []struct {
		name     string
		config   []SeatRowConfig
		wantCode FailureCode
	}{
		{
			name:     "should fail without rows",
			config:   nil,
			wantCode: CodeMissingRequiredData,
		},
		{
			name:     "should fail when last column is missing",
			config:   []SeatRowConfig{{RowNumber: 1}},
			wantCode: CodeMissingRequiredData,
		},
		{
			name:     "should fail when last column is not a letter",
			config:   []SeatRowConfig{{RowNumber: 1, LastColumnLetter: "7"}},
			wantCode: CodeInvalidFormat,
		},
		{
			name:     "should fail when row is shorter than four seats",
			config:   []SeatRowConfig{{RowNumber: 1, LastColumnLetter: "C"}},
			wantCode: CodeValueOutOfRange,
		},
		{
			name:     "should fail when row number is not positive",
			config:   []SeatRowConfig{{RowNumber: 0, LastColumnLetter: "E"}},
			wantCode: CodeValueOutOfRange,
		},
		{
			name: "should fail when row number repeats",
			config: []SeatRowConfig{
				{RowNumber: 1, LastColumnLetter: "E"},
				{RowNumber: 1, LastColumnLetter: "F"},
			},
			wantCode: CodeSeatRowDuplicated,
		},
		{
			name: "should fail when more than four preferential seats",
			config: []SeatRowConfig{
				{RowNumber: 1, LastColumnLetter: "H", PreferentialSeatLetters: []string{"A", "B", "C", "D", "E"}},
			},
			wantCode: CodeSeatPreferentialLimitExceeded,
		},
		{
			name: "should fail when preferential seat is beyond the last column",
			config: []SeatRowConfig{
				{RowNumber: 1, LastColumnLetter: "E", PreferentialSeatLetters: []string{"F"}},
			},
			wantCode: CodeSeatPreferentialNotInRow,
		},
		{
			name: "should fail when preferential seat repeats",
			config: []SeatRowConfig{
				{RowNumber: 1, LastColumnLetter: "E", PreferentialSeatLetters: []string{"A", "A"}},
			},
			wantCode: CodeSeatPreferentialDuplicated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeatLayout(tt.config)
			requireCode(t, err, tt.wantCode)
		})
	}
}

func TestNewSeatLayoutCombinesRowFailures(t *testing.T) {
	_, err := NewSeatLayout([]SeatRowConfig{
		{RowNumber: 1, LastColumnLetter: "B"},
		{RowNumber: 2, LastColumnLetter: "E", PreferentialSeatLetters: []string{"Z"}},
	})

	assert.ElementsMatch(t,
		[]FailureCode{CodeValueOutOfRange, CodeSeatPreferentialNotInRow},
		FailureCodes(err))
}

func TestSeatLookup(t *testing.T) {
	layout, err := NewSeatLayout(standardSeatConfig())
	require.NoError(t, err)

	assert.True(t, layout.HasSeat(1, "E"))
	assert.True(t, layout.HasSeat(1, "a"))
	assert.False(t, layout.HasSeat(1, "F"))
	assert.False(t, layout.HasSeat(9, "A"))
	assert.True(t, layout.IsPreferentialSeat(2, "C"))
	assert.False(t, layout.IsPreferentialSeat(3, "A"))
}
