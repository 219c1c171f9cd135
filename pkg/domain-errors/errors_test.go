package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("wrapped error keeps cause and code", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(cause, CodeInternal, "failed to save record")
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "failed to save record: disk full", err.Error())
	})
}

func TestHasCode(t *testing.T) {
	t.Run("finds inner code through fmt wrapping", func(t *testing.T) {
		inner := New(CodeInvariantViolation, "invalid phone_number")
		outer := fmt.Errorf("complete session: %w", Wrap(inner, CodeInternal, "store"))
		assert.True(t, HasCode(outer, CodeInvariantViolation))
		assert.True(t, HasCode(outer, CodeInternal))
		assert.False(t, HasCode(outer, CodeValidation))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})

	t.Run("CodeOf returns outermost code", func(t *testing.T) {
		err := Wrap(New(CodeInvalidInput, "too long"), CodeValidation, "outer")
		assert.Equal(t, CodeValidation, CodeOf(err))
	})
}
