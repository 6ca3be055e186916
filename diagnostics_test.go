package corostack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStackUsage_DisabledByDefault(t *testing.T) {
	co, err := New(func(c *Coroutine[struct{}], _ struct{}) {}, struct{}{})
	require.NoError(t, err)
	defer co.Deinit()

	overflow, touched, ratio, ok := co.CheckStackUsage()
	assert.False(t, ok)
	assert.False(t, overflow)
	assert.Zero(t, touched)
	assert.Zero(t, ratio)
}

func TestCheckStackUsage_FreshCoroutineReportsZero(t *testing.T) {
	co, err := New(func(c *Coroutine[struct{}], _ struct{}) {}, struct{}{}, WithCheckStackUsage(true))
	require.NoError(t, err)
	defer co.Deinit()

	overflow, touched, ratio, ok := co.CheckStackUsage()
	assert.True(t, ok)
	assert.False(t, overflow)
	assert.Zero(t, touched, "untouched stack should show zero watermark")
	assert.Zero(t, ratio)
}

func TestCheckStackUsage_DetectsUsageAfterRun(t *testing.T) {
	type args struct{}
	co, err := New(func(c *Coroutine[args], _ args) {
		var scratch [2048]byte
		for i := range scratch {
			scratch[i] = byte(i)
		}
		c.Yield()
		_ = scratch[len(scratch)-1]
	}, args{}, WithCheckStackUsage(true), WithGuardPages(false))
	require.NoError(t, err)
	defer co.Deinit()

	co.Run()
	overflow, touched, ratio, ok := co.CheckStackUsage()
	assert.True(t, ok)
	assert.False(t, overflow)
	assert.NotZero(t, touched, "a body that touched a local array should move the watermark")
	assert.Greater(t, ratio, 0.0)
}

func TestFillSentinel_EmptyRangeIsNoop(t *testing.T) {
	// high <= low must not panic or index out of range.
	fillSentinel(0, 0)
	fillSentinel(5, 1)
}
