package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-room-scheduling/api"
)

var seatLetterRgx = regexp.MustCompile(`^\s*[A-Za-z]\s*$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_letter", validateSeatLetter)
	validator.RegisterValidation("screen_type", validateScreenType)

	return validator
}

func validateSeatLetter(fl validator.FieldLevel) bool {
	return seatLetterRgx.MatchString(fl.Field().String())
}

func validateScreenType(fl validator.FieldLevel) bool {
	screenType, ok := fl.Field().Interface().(api.ScreenType)
	if !ok {
		return false
	}

	switch screenType {
	case api.N2D, api.N3D, api.IMAX, api.N4DX:
		return true
	default:
		return false
	}
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", err.Param())
	case "seat_letter":
		return "must be a single letter between A and Z"
	case "screen_type":
		return "must be one of [2D 3D IMAX 4DX]"
	default:
		return "is invalid"
	}
}
