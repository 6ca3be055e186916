package corostack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractViolation_ErrorAndUnwrap(t *testing.T) {
	cv := &ContractViolation{Operation: "Run", Cause: ErrWrongThread}
	assert.Equal(t, "Run: "+ErrWrongThread.Error(), cv.Error())

	var target error = cv
	assert.True(t, errors.Is(target, ErrWrongThread))

	var asCV *ContractViolation
	require.True(t, errors.As(target, &asCV))
	assert.Equal(t, "Run", asCV.Operation)
}

func TestContractViolation_NoOperation(t *testing.T) {
	cv := &ContractViolation{Cause: ErrNotInitialized}
	assert.Equal(t, ErrNotInitialized.Error(), cv.Error())
}

func TestViolate_Panics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		cv, ok := r.(*ContractViolation)
		require.True(t, ok, "expected *ContractViolation, got %T", r)
		assert.True(t, errors.Is(cv, ErrAlreadyDone))
		assert.Equal(t, "Run", cv.Operation)
	}()
	violate("Run", ErrAlreadyDone)
}

func TestWrapResourceError(t *testing.T) {
	t.Run("nil platform error returns sentinel unchanged", func(t *testing.T) {
		err := wrapResourceError(ErrMapFailed, nil)
		assert.Same(t, ErrMapFailed, err)
	})

	t.Run("wraps platform error and preserves Is", func(t *testing.T) {
		platformErr := errors.New("mmap: out of memory")
		err := wrapResourceError(ErrMapFailed, platformErr)
		assert.True(t, errors.Is(err, ErrMapFailed))
		assert.Contains(t, err.Error(), "out of memory")
	})
}
