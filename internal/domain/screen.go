package domain

import "github.com/shopspring/decimal"

type ScreenType string

const (
	Screen2D   ScreenType = "2D"
	Screen3D   ScreenType = "3D"
	ScreenIMAX ScreenType = "IMAX"
	Screen4DX  ScreenType = "4DX"
)

var screenTypes = []ScreenType{Screen2D, Screen3D, ScreenIMAX, Screen4DX}

func ParseScreenType(s string) (ScreenType, error) {
	if s == "" {
		return "", missing("screen.type")
	}

	for _, t := range screenTypes {
		if string(t) == s {
			return t, nil
		}
	}

	return "", NewFailure(CodeInvalidEnumValue, map[string]any{
		"field":   "screen.type",
		"value":   s,
		"allowed": screenTypes,
	})
}

// Screen is the projection surface of a room. Size is the diagonal in metres.
type Screen struct {
	size       decimal.Decimal
	screenType ScreenType
}

func NewScreen(size decimal.Decimal, screenType string) (Screen, error) {
	var sizeErr error
	if !size.IsPositive() {
		sizeErr = NewFailure(CodeValueOutOfRange, map[string]any{
			"field": "screen.size",
			"value": size.String(),
			"min":   "0 (exclusive)",
		})
	}

	t, typeErr := ParseScreenType(screenType)

	if err := Combine(sizeErr, typeErr); err != nil {
		return Screen{}, err
	}

	return Screen{size: size, screenType: t}, nil
}

func hydrateScreen(size decimal.Decimal, screenType string) (Screen, error) {
	if screenType == "" {
		return Screen{}, corrupt("screen type is empty")
	}

	return Screen{size: size, screenType: ScreenType(screenType)}, nil
}

func (s Screen) Size() decimal.Decimal { return s.size }
func (s Screen) Type() ScreenType      { return s.screenType }

func (s Screen) Equal(other Screen) bool {
	return s.size.Equal(other.size) && s.screenType == other.screenType
}
