package domain

import (
	"slices"
	"strings"
)

const (
	MinSeatsPerRow          = 4
	MaxSeatsPerRow          = 26
	MaxPreferentialSeatsRow = 4
)

// SeatRowConfig is the raw description of a row as received from callers.
type SeatRowConfig struct {
	RowNumber               int      `json:"rowNumber"`
	LastColumnLetter        string   `json:"lastColumnLetter"`
	PreferentialSeatLetters []string `json:"preferentialSeatLetters"`
}

// SeatRow is a single row of seats lettered from A up to its last column.
type SeatRow struct {
	lastColumn   byte
	preferential []byte
}

func NewSeatRow(rowNumber int, lastColumnLetter string, preferentialLetters []string) (SeatRow, error) {
	if lastColumnLetter == "" {
		return SeatRow{}, missing("seatConfig.lastColumnLetter")
	}

	last, ok := parseSeatLetter(lastColumnLetter)
	if !ok {
		return SeatRow{}, NewFailure(CodeInvalidFormat, map[string]any{
			"field":     "seatConfig.lastColumnLetter",
			"rowNumber": rowNumber,
			"value":     lastColumnLetter,
		})
	}

	capacity := letterToColumn(last)
	if capacity < MinSeatsPerRow || capacity > MaxSeatsPerRow {
		return SeatRow{}, NewFailure(CodeValueOutOfRange, map[string]any{
			"field":     "seatConfig.lastColumnLetter",
			"rowNumber": rowNumber,
			"min":       MinSeatsPerRow,
			"max":       MaxSeatsPerRow,
			"value":     capacity,
		})
	}

	limit := min(MaxPreferentialSeatsRow, capacity)
	if len(preferentialLetters) > limit {
		return SeatRow{}, NewFailure(CodeSeatPreferentialLimitExceeded, map[string]any{
			"rowNumber": rowNumber,
			"limit":     limit,
			"count":     len(preferentialLetters),
		})
	}

	var errs []error
	preferential := make([]byte, 0, len(preferentialLetters))

	for _, l := range preferentialLetters {
		letter, ok := parseSeatLetter(l)
		switch {
		case !ok:
			errs = append(errs, NewFailure(CodeInvalidFormat, map[string]any{
				"field":     "seatConfig.preferentialSeatLetters",
				"rowNumber": rowNumber,
				"value":     l,
			}))
		case slices.Contains(preferential, letter):
			errs = append(errs, NewFailure(CodeSeatPreferentialDuplicated, map[string]any{
				"rowNumber": rowNumber,
				"letter":    string(letter),
			}))
		case letter > last:
			errs = append(errs, NewFailure(CodeSeatPreferentialNotInRow, map[string]any{
				"rowNumber":        rowNumber,
				"letter":           string(letter),
				"lastColumnLetter": string(last),
			}))
		default:
			preferential = append(preferential, letter)
		}
	}

	if err := Combine(errs...); err != nil {
		return SeatRow{}, err
	}

	slices.Sort(preferential)

	return SeatRow{lastColumn: last, preferential: preferential}, nil
}

func (r SeatRow) Capacity() int {
	return letterToColumn(r.lastColumn)
}

func (r SeatRow) LastColumnLetter() string {
	return string(r.lastColumn)
}

func (r SeatRow) PreferentialSeatLetters() []string {
	letters := make([]string, len(r.preferential))
	for i, l := range r.preferential {
		letters[i] = string(l)
	}

	return letters
}

func (r SeatRow) HasSeat(letter string) bool {
	l, ok := parseSeatLetter(letter)
	return ok && l <= r.lastColumn
}

func (r SeatRow) IsPreferential(letter string) bool {
	l, ok := parseSeatLetter(letter)
	return ok && slices.Contains(r.preferential, l)
}

// SeatRowInfo is a read model of a row.
type SeatRowInfo struct {
	RowNumber               int
	LastColumnLetter        string
	Capacity                int
	PreferentialSeatLetters []string
}

// SeatLayout maps row numbers to rows. It is immutable once built.
type SeatLayout struct {
	rows    map[int]SeatRow
	ordered []int
}

func NewSeatLayout(config []SeatRowConfig) (SeatLayout, error) {
	if len(config) == 0 {
		return SeatLayout{}, missing("seatConfig")
	}

	layout := SeatLayout{rows: make(map[int]SeatRow, len(config))}
	var errs []error

	for _, rc := range config {
		if rc.RowNumber < 1 {
			errs = append(errs, NewFailure(CodeValueOutOfRange, map[string]any{
				"field": "seatConfig.rowNumber",
				"min":   1,
				"value": rc.RowNumber,
			}))
			continue
		}

		if _, ok := layout.rows[rc.RowNumber]; ok {
			errs = append(errs, NewFailure(CodeSeatRowDuplicated, map[string]any{
				"rowNumber": rc.RowNumber,
			}))
			continue
		}

		row, err := NewSeatRow(rc.RowNumber, rc.LastColumnLetter, rc.PreferentialSeatLetters)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		layout.rows[rc.RowNumber] = row
		layout.ordered = append(layout.ordered, rc.RowNumber)
	}

	if err := Combine(errs...); err != nil {
		return SeatLayout{}, err
	}

	slices.Sort(layout.ordered)

	return layout, nil
}

func hydrateSeatLayout(config []SeatRowConfig) (SeatLayout, error) {
	if len(config) == 0 {
		return SeatLayout{}, corrupt("seat layout has no rows")
	}

	layout := SeatLayout{rows: make(map[int]SeatRow, len(config))}

	for _, rc := range config {
		last, ok := parseSeatLetter(rc.LastColumnLetter)
		if !ok {
			return SeatLayout{}, corrupt("row %d has invalid last column %q", rc.RowNumber, rc.LastColumnLetter)
		}

		preferential := make([]byte, 0, len(rc.PreferentialSeatLetters))
		for _, l := range rc.PreferentialSeatLetters {
			letter, ok := parseSeatLetter(l)
			if !ok {
				return SeatLayout{}, corrupt("row %d has invalid preferential seat %q", rc.RowNumber, l)
			}
			preferential = append(preferential, letter)
		}
		slices.Sort(preferential)

		layout.rows[rc.RowNumber] = SeatRow{lastColumn: last, preferential: preferential}
		layout.ordered = append(layout.ordered, rc.RowNumber)
	}

	slices.Sort(layout.ordered)

	return layout, nil
}

func (l SeatLayout) TotalCapacity() int {
	total := 0
	for _, row := range l.rows {
		total += row.Capacity()
	}

	return total
}

func (l SeatLayout) PreferentialCount() int {
	total := 0
	for _, row := range l.rows {
		total += len(row.preferential)
	}

	return total
}

func (l SeatLayout) RowCount() int {
	return len(l.ordered)
}

func (l SeatLayout) Row(rowNumber int) (SeatRow, bool) {
	row, ok := l.rows[rowNumber]
	return row, ok
}

// Rows returns every row in ascending row number.
func (l SeatLayout) Rows() []SeatRowInfo {
	infos := make([]SeatRowInfo, 0, len(l.ordered))

	for _, n := range l.ordered {
		row := l.rows[n]
		infos = append(infos, SeatRowInfo{
			RowNumber:               n,
			LastColumnLetter:        row.LastColumnLetter(),
			Capacity:                row.Capacity(),
			PreferentialSeatLetters: row.PreferentialSeatLetters(),
		})
	}

	return infos
}

func (l SeatLayout) HasSeat(rowNumber int, letter string) bool {
	row, ok := l.rows[rowNumber]
	return ok && row.HasSeat(letter)
}

func (l SeatLayout) IsPreferentialSeat(rowNumber int, letter string) bool {
	row, ok := l.rows[rowNumber]
	return ok && row.IsPreferential(letter)
}

func (l SeatLayout) config() []SeatRowConfig {
	rows := l.Rows()
	config := make([]SeatRowConfig, len(rows))

	for i, r := range rows {
		config[i] = SeatRowConfig{
			RowNumber:               r.RowNumber,
			LastColumnLetter:        r.LastColumnLetter,
			PreferentialSeatLetters: r.PreferentialSeatLetters,
		}
	}

	return config
}

func parseSeatLetter(s string) (byte, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, false
	}

	return s[0], true
}

func letterToColumn(letter byte) int {
	return int(letter-'A') + 1
}
