package pacing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_FirstCallDoesNotWait(t *testing.T) {
	p := New(time.Hour)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacer_WaitsAfterDone(t *testing.T) {
	interval := 50 * time.Millisecond
	p := New(interval)

	require.NoError(t, p.Wait(context.Background()))
	p.Done()

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), interval-5*time.Millisecond)
}

func TestPacer_MeasuresFromEndOfCall(t *testing.T) {
	interval := 40 * time.Millisecond
	p := New(interval)

	err := p.Do(context.Background(), func() error {
		time.Sleep(60 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)

	// the call outlasted the interval, but the gap starts when it ended
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), interval-5*time.Millisecond)
}

func TestPacer_ZeroIntervalDisables(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		p := New(interval)
		assert.Equal(t, time.Duration(0), p.Interval())

		start := time.Now()
		for i := 0; i < 5; i++ {
			require.NoError(t, p.Wait(context.Background()))
			p.Done()
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	}
}

func TestPacer_ContextCanceled(t *testing.T) {
	p := New(time.Hour)
	p.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPacer_DoMarksDoneOnError(t *testing.T) {
	p := New(time.Hour)
	boom := errors.New("boom")

	err := p.Do(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err = p.Do(ctx, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
