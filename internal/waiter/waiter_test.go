/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package waiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_TerminalOnAttemptK(t *testing.T) {
	for _, k := range []int{1, 2, 5} {
		clock := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		w := New(5*time.Second, time.Hour, clock.Options()...)

		checks := 0
		err := w.Wait(context.Background(), func(attempt int) (bool, error) {
			checks++
			assert.Equal(t, checks, attempt)
			return attempt == k, nil
		})

		require.NoError(t, err)
		assert.Equal(t, k, checks)
		assert.Equal(t, k-1, clock.Sleeps())
	}
}

func TestWait_Timeout(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	w := New(10*time.Second, 30*time.Second, clock.Options()...)

	checks := 0
	err := w.Wait(context.Background(), func(int) (bool, error) {
		checks++
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Equal(t, 30*time.Second, timeoutErr.Elapsed)
	assert.Equal(t, 3, checks)
	assert.Equal(t, 3, clock.Sleeps())
}

func TestWait_CheckErrorStopsLoop(t *testing.T) {
	clock := NewFakeClock(time.Now())
	w := New(time.Second, time.Minute, clock.Options()...)
	boom := errors.New("boom")

	err := w.Wait(context.Background(), func(attempt int) (bool, error) {
		if attempt == 2 {
			return false, boom
		}
		return false, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, clock.Sleeps())
}

func TestWait_ContextCancelled(t *testing.T) {
	clock := NewFakeClock(time.Now())
	w := New(time.Second, time.Minute, clock.Options()...)

	ctx, cancel := context.WithCancel(context.Background())
	err := w.Wait(ctx, func(int) (bool, error) {
		cancel()
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestContextSleep(t *testing.T) {
	require.NoError(t, ContextSleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ContextSleep(ctx, time.Hour), context.Canceled)
}

func TestNew_Accessors(t *testing.T) {
	w := New(2*time.Second, time.Minute)
	assert.Equal(t, 2*time.Second, w.Delays())
	assert.Equal(t, time.Minute, w.Timeout())
}
