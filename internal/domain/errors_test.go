package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	t.Run("returns nil when nothing failed", func(t *testing.T) {
		assert.NoError(t, Combine(nil, nil))
	})

	t.Run("keeps a single failure as is", func(t *testing.T) {
		f := NewFailure(CodeValueOutOfRange, nil)
		assert.Same(t, f, Combine(nil, f))
	})

	t.Run("flattens nested failures", func(t *testing.T) {
		inner := Combine(NewFailure(CodeMissingRequiredData, nil), NewFailure(CodeInvalidFormat, nil))
		err := Combine(inner, NewFailure(CodeValueOutOfRange, nil))

		assert.Equal(t,
			[]FailureCode{CodeMissingRequiredData, CodeInvalidFormat, CodeValueOutOfRange},
			FailureCodes(err))
	})

	t.Run("returns technical errors untouched", func(t *testing.T) {
		boom := errors.New("boom")
		err := Combine(NewFailure(CodeValueOutOfRange, nil), boom)

		assert.ErrorIs(t, err, boom)
		assert.False(t, IsFailure(err))
	})
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("scheduling: %w", NewFailure(CodeRoomNotAvailableForPeriod, nil))

	assert.True(t, HasCode(err, CodeRoomNotAvailableForPeriod))
	assert.False(t, HasCode(err, CodeRoomIsClosed))

	var f *Failure
	assert.True(t, errors.As(err, &f))
}
