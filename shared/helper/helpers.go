package helper

import (
	"context"
	"fmt"
	"time"
)

// GetTypedValueOf asserts the result of a getter function to the
// expected type T. Returns an error when the getter fails or the value
// has another type.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// GetTypedValueOf2 is the comma-ok variant, for getters that report
// presence instead of an error. Handy for coercing subscription events
// inside mappers.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (res T, ok bool) {
	var raw any
	if raw, ok = getFn(); ok {
		res, ok = raw.(T)
	}
	return
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal, e.g. when a manager documents the
// single event type it emits.
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

// ErrMaxAttempts wraps the last error once Retry gives up.
var ErrMaxAttempts = fmt.Errorf("max attempts reached")

// Retry runs fn up to maxAttempts times, sleeping backoff between
// attempts. Managers use it for the reconnect obligation they own:
// failures never leave the manager, they are retried here and reported
// as events once the budget runs out.
//
// Cancelling ctx ends the wait early; the context error then wraps the
// last attempt's error.
func Retry(ctx context.Context, maxAttempts int, backoff time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("%w: %d attempts, %w", ErrMaxAttempts, maxAttempts, err)
}
