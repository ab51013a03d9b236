package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"

	"meeteasy-backend/store"
)

const maxAttempts = 3

// Overridable so tests do not sleep through real backoff windows.
var retryDelay = time.Second

// linearBackOff waits retryDelay × attempt: 1s, then 2s.
type linearBackOff struct {
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return retryDelay * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// withRetry runs a store-backed operation under the bounded retry policy:
// up to maxAttempts attempts with linear backoff, nudging the store's network
// back on between attempts. Not-found, validation and permission errors are
// never retried. Mobile clients drop connectivity all the time; the policy
// trades a little latency for resilience without an unbounded retry storm.
func withRetry[T any](ctx context.Context, st store.Store, label string, op func() (T, error)) (T, error) {
	attempt := 0

	policy := backoff.WithContext(backoff.WithMaxRetries(&linearBackOff{}, maxAttempts-1), ctx)

	result, err := backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		v, err := op()
		if err == nil {
			return v, nil
		}
		if isPermanent(err) {
			return v, backoff.Permanent(err)
		}
		log.Printf("⚠️  %s attempt %d/%d failed: %v", label, attempt, maxAttempts, err)
		return v, err
	}, policy, func(err error, next time.Duration) {
		// Best-effort reconnect nudge; a failure here is swallowed.
		if nerr := st.EnableNetwork(ctx); nerr != nil {
			log.Printf("⚠️  %s: network re-enable failed: %v", label, nerr)
		}
	})

	if err != nil && !isPermanent(err) {
		return result, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, label, err)
	}
	return result, err
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrCodeGenerationExhausted)
}
