// Package invoker wraps a single generative-text call with per-attempt
// timeouts, exponential backoff, and error classification.
//
// Attempts are strictly sequential. Each attempt races the provider call
// against a timer; a losing call is abandoned rather than cancelled at the
// transport level. Non-retryable failures abort the loop immediately.
package invoker

import (
	"context"
	"strings"
	"time"

	"github.com/voyago/tripcost/internal/logging"
)

// Generator is the outbound provider boundary: one async text-generation
// call taking a prompt and returning text or a provider error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RetryPolicy configures the retry loop. It is fixed at construction and
// never mutated afterward.
type RetryPolicy struct {
	MaxRetries int           // retries after the first attempt (default 3)
	BaseDelay  time.Duration // first backoff delay (default 1s)
	MaxDelay   time.Duration // backoff cap (default 10s)
	Timeout    time.Duration // per-attempt timeout (default 30s)
}

// DefaultRetryPolicy returns the built-in retry defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// normalize fills unset duration fields with defaults and clamps MaxRetries.
// MaxRetries zero is meaningful: a single attempt with no retries.
func (p RetryPolicy) normalize() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	return p
}

// Delay returns the backoff delay incurred after failed attempt k:
// min(BaseDelay*2^k, MaxDelay).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Invoker executes prompts against a Generator under a RetryPolicy. It holds
// no mutable state between calls, so one instance may be reused freely.
type Invoker struct {
	gen    Generator
	policy RetryPolicy

	// sleep is overridable in tests; the default waits ctx-aware.
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns an Invoker for gen. Zero-valued policy fields get defaults.
func New(gen Generator, policy RetryPolicy) *Invoker {
	return &Invoker{
		gen:    gen,
		policy: policy.normalize(),
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Execute runs prompt through the retry loop and returns the raw response
// text of the first successful attempt.
//
// A trimmed-empty prompt fails immediately with *EmptyPromptError and never
// reaches the provider. Terminal failures are either *NonRetryableError
// (classification aborted the loop) or *AttemptsExhaustedError (every
// attempt failed with a retryable cause).
func (iv *Invoker) Execute(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &EmptyPromptError{}
	}

	var lastErr error
	for attempt := 0; attempt <= iv.policy.MaxRetries; attempt++ {
		text, err := iv.attempt(ctx, prompt, attempt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !Retryable(err) {
			logging.Errorf("attempt %d failed permanently: %v", attempt, err)
			if ctx.Err() != nil {
				return "", err
			}
			return "", &NonRetryableError{Attempt: attempt, Cause: err}
		}

		// No delay after the final attempt.
		if attempt == iv.policy.MaxRetries {
			break
		}
		delay := iv.policy.Delay(attempt)
		logging.Warnf("attempt %d failed (%v); retrying in %s", attempt, err, delay)
		if serr := iv.sleep(ctx, delay); serr != nil {
			return "", serr
		}
	}

	return "", &AttemptsExhaustedError{Attempts: iv.policy.MaxRetries + 1, LastErr: lastErr}
}

// attempt races one provider call against the per-attempt timer. The result
// channel is buffered so an abandoned call can complete without leaking its
// goroutine.
func (iv *Invoker) attempt(ctx context.Context, prompt string, attempt int) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		text, err := iv.gen.Generate(ctx, prompt)
		ch <- result{text: text, err: err}
	}()

	timer := time.NewTimer(iv.policy.Timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		if strings.TrimSpace(r.text) == "" {
			return "", &EmptyResponseError{Attempt: attempt}
		}
		return r.text, nil
	case <-timer.C:
		return "", &TimeoutError{Attempt: attempt, Timeout: iv.policy.Timeout}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
