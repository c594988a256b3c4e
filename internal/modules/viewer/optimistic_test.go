package viewer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimistic_Transitions(t *testing.T) {
	o := NewOptimistic(1)
	assert.Equal(t, StateIdle, o.State())

	require.NoError(t, o.Begin(2))
	assert.Equal(t, 2, o.Value())
	assert.Equal(t, StatePending, o.State())
	assert.ErrorIs(t, o.Begin(3), ErrWriteInFlight)

	o.Commit()
	assert.Equal(t, StateCommitted, o.State())
	assert.Equal(t, 2, o.Value())

	require.NoError(t, o.Begin(5))
	boom := errors.New("boom")
	o.Fail(boom)
	assert.Equal(t, StateFailed, o.State())
	assert.Equal(t, 2, o.Value())
	assert.ErrorIs(t, o.Err(), boom)

	o.Commit()
	assert.Equal(t, StateFailed, o.State(), "commit outside pending is ignored")
}

func TestOptimistic_Apply(t *testing.T) {
	o := NewOptimistic("a")

	err := o.Apply(context.Background(), "b", func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "b", o.Value())

	err = o.Apply(context.Background(), "c", func(_ context.Context, v string) error {
		assert.Equal(t, "c", o.Value(), "value is visible while pending")
		return errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, "b", o.Value())
}
