package invoker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EmptyPromptError reports caller misuse: an empty or whitespace-only prompt.
// No provider call is made and no attempt is consumed.
type EmptyPromptError struct{}

func (e *EmptyPromptError) Error() string   { return "prompt cannot be empty" }
func (e *EmptyPromptError) Retryable() bool { return false }

// TimeoutError reports a single attempt that exceeded its per-attempt timeout.
// The in-flight provider call is abandoned, not cancelled.
type TimeoutError struct {
	Attempt int
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("attempt %d timed out after %s", e.Attempt, e.Timeout)
}
func (e *TimeoutError) Retryable() bool { return true }

// EmptyResponseError reports a provider call that succeeded but returned an
// empty or whitespace-only text body.
type EmptyResponseError struct {
	Attempt int
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("attempt %d returned an empty response", e.Attempt)
}
func (e *EmptyResponseError) Retryable() bool { return true }

// NonRetryableError wraps a provider failure whose message matched one of the
// non-retryable markers. The retry loop aborts immediately when it sees one.
type NonRetryableError struct {
	Attempt int
	Cause   error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable failure on attempt %d: %v", e.Attempt, e.Cause)
}
func (e *NonRetryableError) Unwrap() error   { return e.Cause }
func (e *NonRetryableError) Retryable() bool { return false }

// AttemptsExhaustedError reports terminal failure after every attempt failed
// with a retryable error. LastErr is the failure of the final attempt.
type AttemptsExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *AttemptsExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.LastErr)
}
func (e *AttemptsExhaustedError) Unwrap() error { return e.LastErr }

// nonRetryableMarkers are case-insensitive substrings that mark a provider
// failure as pointless to retry. Substring matching is fragile (it depends on
// exact provider wording) but the provider exposes no structured error codes.
var nonRetryableMarkers = []string{
	"invalid api key",
	"permission denied",
	"quota exceeded",
	"safety",
	"prompt cannot be empty",
}

// retryableError lets error types declare their own classification, which
// takes precedence over message matching.
type retryableError interface {
	error
	Retryable() bool
}

// Retryable classifies an error as worth retrying. Typed errors carrying a
// Retryable method decide for themselves; context cancellation never retries;
// everything else is classified by message substring, defaulting to retryable.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var re retryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range nonRetryableMarkers {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	return true
}
