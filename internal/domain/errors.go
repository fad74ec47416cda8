package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrEditConflict    = errors.New("edit conflict")
	ErrBookingOverlap  = errors.New("booking overlaps an existing booking")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrCorruptData     = errors.New("corrupt persisted data")
)

type FailureCode string

const (
	CodeMissingRequiredData            FailureCode = "MISSING_REQUIRED_DATA"
	CodeValueOutOfRange                FailureCode = "VALUE_OUT_OF_RANGE"
	CodeInvalidEnumValue               FailureCode = "INVALID_ENUM_VALUE"
	CodeInvalidFormat                  FailureCode = "INVALID_FORMAT"
	CodeDateWithInvalidSequence        FailureCode = "DATE_WITH_INVALID_SEQUENCE"
	CodeDateCannotBePast               FailureCode = "DATE_CANNOT_BE_PAST"
	CodeInvalidOperationDuration       FailureCode = "INVALID_OPERATION_DURATION"
	CodeRoomNotAvailableForPeriod      FailureCode = "ROOM_NOT_AVAILABLE_FOR_PERIOD"
	CodeRoomHasFutureBookings          FailureCode = "ROOM_HAS_FUTURE_BOOKINGS"
	CodeRoomIsClosed                   FailureCode = "ROOM_IS_CLOSED"
	CodeBookingNotFoundInRoom          FailureCode = "BOOKING_NOT_FOUND_IN_ROOM"
	CodeBookingNotFoundForScreening    FailureCode = "BOOKING_NOT_FOUND_FOR_SCREENING"
	CodeBookingNotFoundInFutureSched   FailureCode = "BOOKING_NOT_FOUND_IN_FUTURE_SCHEDULE"
	CodeBookingAlreadyStarted          FailureCode = "BOOKING_ALREADY_STARTED"
	CodeBookingTypeInvalidForRemoval   FailureCode = "BOOKING_TYPE_IS_INVALID_FOR_REMOVAL"
	CodeBookingWithInvalidActivityType FailureCode = "BOOKING_WITH_INVALID_ACTIVITY_TYPE"
	CodeCleaningLinkedToScreening      FailureCode = "CLEANING_ASSOCIATED_WITH_SCREENING"
	CodeResourceNotFound               FailureCode = "RESOURCE_NOT_FOUND"
	CodeResourceAlreadyExists          FailureCode = "RESOURCE_ALREADY_EXISTS"
	CodeSeatPreferentialNotInRow       FailureCode = "SEAT_PREFERENTIAL_IN_ROW_IS_NOT_FOUND"
	CodeSeatPreferentialLimitExceeded  FailureCode = "SEAT_WITH_PREFERENTIAL_LIMIT_EXCEEDED"
	CodeSeatPreferentialDuplicated     FailureCode = "SEAT_PREFERENTIAL_IS_DUPLICATED"
	CodeSeatRowDuplicated              FailureCode = "SEAT_ROW_IS_DUPLICATED"
)

// Failure is a recoverable validation or business-rule violation.
type Failure struct {
	Code    FailureCode
	Details map[string]any
}

func NewFailure(code FailureCode, details map[string]any) *Failure {
	return &Failure{Code: code, Details: details}
}

func (f *Failure) Error() string {
	if len(f.Details) == 0 {
		return string(f.Code)
	}

	return fmt.Sprintf("%s %v", f.Code, f.Details)
}

// Failures groups independent failures raised by the same operation.
type Failures []*Failure

func (fs Failures) Error() string {
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.Error()
	}

	return strings.Join(msgs, "; ")
}

func (fs Failures) Unwrap() []error {
	errs := make([]error, len(fs))
	for i, f := range fs {
		errs[i] = f
	}

	return errs
}

// Combine merges every failure found in errs. Non-failure errors are returned
// as is, since they are not validation outcomes and must not be swallowed.
func Combine(errs ...error) error {
	var combined Failures

	for _, err := range errs {
		if err == nil {
			continue
		}

		var fs Failures
		var f *Failure

		switch {
		case errors.As(err, &fs):
			combined = append(combined, fs...)
		case errors.As(err, &f):
			combined = append(combined, f)
		default:
			return err
		}
	}

	switch len(combined) {
	case 0:
		return nil
	case 1:
		return combined[0]
	default:
		return combined
	}
}

// FailureCodes lists the codes carried by err in order of appearance.
func FailureCodes(err error) []FailureCode {
	if err == nil {
		return nil
	}

	var fs Failures
	if errors.As(err, &fs) {
		codes := make([]FailureCode, len(fs))
		for i, f := range fs {
			codes[i] = f.Code
		}
		return codes
	}

	var f *Failure
	if errors.As(err, &f) {
		return []FailureCode{f.Code}
	}

	return nil
}

func HasCode(err error, code FailureCode) bool {
	for _, c := range FailureCodes(err) {
		if c == code {
			return true
		}
	}

	return false
}

func IsFailure(err error) bool {
	return len(FailureCodes(err)) > 0
}

func missing(field string) *Failure {
	return NewFailure(CodeMissingRequiredData, map[string]any{"field": field})
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptData, fmt.Sprintf(format, args...))
}
