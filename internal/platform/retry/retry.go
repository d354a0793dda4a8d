// Package retry implements classified retry with exponential backoff. It is
// used only for the startup probe against the backend; the gateway itself
// never retries, and state-changing actions are never retried.
package retry

import (
	"context"
	"fmt"
	"time"
)

type Action int

const (
	Stop  Action = iota // permanent error, abort immediately
	Retry               // transient error, back off and try again
)

type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	OnRetry        func(attempt int, err error, backoff time.Duration)
}

type Classify func(err error) Action

// Do runs op until it succeeds, the classifier declares the error permanent,
// or MaxAttempts is exhausted. Backoff doubles between attempts.
func Do(ctx context.Context, p Policy, classify Classify, op func() error) error {
	backoff := p.InitialBackoff

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if classify(err) == Stop {
			return &PermanentError{Err: err}
		}

		if attempt == p.MaxAttempts {
			return fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, backoff)
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}

	panic("unreachable: MaxAttempts must be >= 1")
}

// PermanentError wraps an error the classifier declared not worth retrying.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
