package invoker

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator returns canned results per call and counts invocations.
type scriptedGenerator struct {
	calls   int
	respond func(call int) (string, error)
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	call := g.calls
	g.calls++
	return g.respond(call)
}

// blockingGenerator never returns until its release channel closes. Calls is
// atomic because abandoned goroutines outlive their attempt.
type blockingGenerator struct {
	calls   atomic.Int32
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	<-g.release
	return "late", nil
}

// newTestInvoker builds an Invoker whose sleeps are recorded instead of slept.
func newTestInvoker(gen Generator, policy RetryPolicy, delays *[]time.Duration) *Invoker {
	iv := New(gen, policy)
	iv.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return iv
}

func TestExecute_FirstAttemptSuccess(t *testing.T) {
	gen := &scriptedGenerator{respond: func(int) (string, error) {
		return `{"flight": 450}`, nil
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, DefaultRetryPolicy(), &delays)

	text, err := iv.Execute(context.Background(), "estimate costs for Lisbon")

	require.NoError(t, err)
	assert.Equal(t, `{"flight": 450}`, text)
	assert.Equal(t, 1, gen.calls, "exactly one provider call")
	assert.Empty(t, delays, "no induced delay on first-attempt success")
}

func TestExecute_EmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t "} {
		t.Run(strconv.Quote(prompt), func(t *testing.T) {
			gen := &scriptedGenerator{respond: func(int) (string, error) {
				return "should never be called", nil
			}}
			iv := New(gen, DefaultRetryPolicy())

			_, err := iv.Execute(context.Background(), prompt)

			var emptyErr *EmptyPromptError
			require.ErrorAs(t, err, &emptyErr)
			assert.Zero(t, gen.calls, "empty prompt must not reach the provider")
		})
	}
}

func TestExecute_NonRetryableAbortsImmediately(t *testing.T) {
	gen := &scriptedGenerator{respond: func(int) (string, error) {
		return "", errors.New("quota exceeded for project")
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, DefaultRetryPolicy(), &delays)

	_, err := iv.Execute(context.Background(), "estimate")

	var nre *NonRetryableError
	require.ErrorAs(t, err, &nre)
	assert.Equal(t, 0, nre.Attempt)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, gen.calls, "no retries after non-retryable classification")
	assert.Empty(t, delays, "no backoff sleep before aborting")
}

func TestExecute_ClassificationIsCaseInsensitive(t *testing.T) {
	gen := &scriptedGenerator{respond: func(int) (string, error) {
		return "", errors.New("request blocked by SAFETY filters")
	}}
	iv := New(gen, DefaultRetryPolicy())

	_, err := iv.Execute(context.Background(), "estimate")

	var nre *NonRetryableError
	require.ErrorAs(t, err, &nre)
	assert.Equal(t, 1, gen.calls)
}

func TestExecute_TransientThenSuccess(t *testing.T) {
	gen := &scriptedGenerator{respond: func(call int) (string, error) {
		if call < 2 {
			return "", errors.New("connection reset by peer")
		}
		return "recovered", nil
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, DefaultRetryPolicy(), &delays)

	text, err := iv.Execute(context.Background(), "estimate")

	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, gen.calls, "attempts 0 and 1 fail, attempt 2 succeeds")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestExecute_BackoffCappedAtMaxDelay(t *testing.T) {
	gen := &scriptedGenerator{respond: func(int) (string, error) {
		return "", errors.New("transient")
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, RetryPolicy{MaxRetries: 6}, &delays)

	_, err := iv.Execute(context.Background(), "estimate")

	require.Error(t, err)
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	assert.Equal(t, want, delays)
}

func TestExecute_AllAttemptsTimeOut(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	defer close(gen.release)

	var delays []time.Duration
	iv := newTestInvoker(gen, RetryPolicy{
		MaxRetries: 3,
		Timeout:    10 * time.Millisecond,
	}, &delays)

	_, err := iv.Execute(context.Background(), "estimate")

	var exhausted *AttemptsExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
	assert.Contains(t, err.Error(), "all 4 attempts failed")

	var timeout *TimeoutError
	assert.ErrorAs(t, exhausted.LastErr, &timeout)
	assert.Equal(t, int32(4), gen.calls.Load())
}

func TestExecute_EmptyResponseIsRetried(t *testing.T) {
	gen := &scriptedGenerator{respond: func(call int) (string, error) {
		if call == 0 {
			return "   \n", nil
		}
		return "text at last", nil
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, DefaultRetryPolicy(), &delays)

	text, err := iv.Execute(context.Background(), "estimate")

	require.NoError(t, err)
	assert.Equal(t, "text at last", text)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, []time.Duration{time.Second}, delays)
}

func TestExecute_ExhaustionCitesLastError(t *testing.T) {
	gen := &scriptedGenerator{respond: func(call int) (string, error) {
		return "", errors.New("flaky backend")
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, RetryPolicy{MaxRetries: 2}, &delays)

	_, err := iv.Execute(context.Background(), "estimate")

	var exhausted *AttemptsExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Contains(t, err.Error(), "flaky backend")
	assert.Len(t, delays, 2, "no delay after the final attempt")
}

func TestExecute_ZeroMaxRetriesMeansSingleAttempt(t *testing.T) {
	gen := &scriptedGenerator{respond: func(int) (string, error) {
		return "", errors.New("transient")
	}}
	var delays []time.Duration
	iv := newTestInvoker(gen, RetryPolicy{MaxRetries: 0}, &delays)

	_, err := iv.Execute(context.Background(), "estimate")

	var exhausted *AttemptsExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, exhausted.Attempts)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, delays)
}

func TestExecute_ContextCancellationStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &scriptedGenerator{respond: func(int) (string, error) {
		cancel()
		return "", errors.New("transient")
	}}
	iv := New(gen, DefaultRetryPolicy())

	_, err := iv.Execute(ctx, "estimate")

	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"generic transient", errors.New("502 bad gateway"), true},
		{"invalid api key", errors.New("Invalid API key supplied"), false},
		{"permission denied", errors.New("PERMISSION DENIED by policy"), false},
		{"quota", errors.New("quota exceeded"), false},
		{"safety", errors.New("blocked: safety"), false},
		{"empty prompt echo", errors.New("prompt cannot be empty"), false},
		{"typed timeout", &TimeoutError{Attempt: 1, Timeout: time.Second}, true},
		{"typed empty response", &EmptyResponseError{Attempt: 0}, true},
		{"context canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 1*time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
	assert.Equal(t, 10*time.Second, p.Delay(4), "capped at MaxDelay")
	assert.Equal(t, 10*time.Second, p.Delay(20))
}
