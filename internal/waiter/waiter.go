/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package waiter implements a bounded-retry polling loop with a fixed delay
// between checks and an absolute deadline measured from the start of the loop.
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is matched by every TimeoutError
var ErrTimeout = errors.New("timed out waiting")

// TimeoutError is returned when the deadline passes before a terminal condition
type TimeoutError struct {
	Attempts int
	Elapsed  time.Duration
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s (%d checks, limit %s)", e.Elapsed.Round(time.Millisecond), e.Attempts, e.Timeout)
}

// Is makes errors.Is(err, ErrTimeout) match
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Clock returns the current time
type Clock func() time.Time

// CheckFunc performs one status check. Returning done=true or a non-nil
// error ends the loop.
type CheckFunc func(attempt int) (done bool, err error)

// Waiter polls a CheckFunc until it reports a terminal condition
type Waiter struct {
	delays  time.Duration
	timeout time.Duration
	sleep   Sleeper
	now     Clock
}

// Option configures a Waiter
type Option func(*Waiter)

// WithSleeper replaces the sleep function (for testing)
func WithSleeper(s Sleeper) Option {
	return func(w *Waiter) {
		w.sleep = s
	}
}

// WithClock replaces the clock (for testing)
func WithClock(c Clock) Option {
	return func(w *Waiter) {
		w.now = c
	}
}

// New creates a Waiter that sleeps delays between checks and gives up once
// timeout has elapsed
func New(delays, timeout time.Duration, opts ...Option) *Waiter {
	w := &Waiter{
		delays:  delays,
		timeout: timeout,
		sleep:   ContextSleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Delays returns the configured delay between checks
func (w *Waiter) Delays() time.Duration {
	return w.delays
}

// Timeout returns the configured deadline
func (w *Waiter) Timeout() time.Duration {
	return w.timeout
}

// Wait runs check until it reports done or fails. A terminal condition on
// attempt k costs exactly k checks and k-1 sleeps.
func (w *Waiter) Wait(ctx context.Context, check CheckFunc) error {
	start := w.now()

	for attempt := 1; ; attempt++ {
		done, err := check(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if err := w.sleep(ctx, w.delays); err != nil {
			return err
		}

		if elapsed := w.now().Sub(start); elapsed >= w.timeout {
			return &TimeoutError{
				Attempts: attempt,
				Elapsed:  elapsed,
				Timeout:  w.timeout,
			}
		}
	}
}

// ContextSleep is the default Sleeper
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
