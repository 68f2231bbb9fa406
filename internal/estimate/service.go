package estimate

import (
	"context"

	"github.com/voyago/tripcost/internal/invoker"
)

// Service is the single entry point the surrounding system consumes: a
// rendered prompt in, a validated Estimate or classified error out.
type Service struct {
	inv *invoker.Invoker
}

// NewService composes an Invoker over gen with the parsing pipeline.
func NewService(gen invoker.Generator, policy invoker.RetryPolicy) *Service {
	return &Service{inv: invoker.New(gen, policy)}
}

// Estimate executes the prompt under retry discipline and parses the raw
// response. Invocation errors and validation errors propagate unchanged, so
// callers can classify them with errors.As.
func (s *Service) Estimate(ctx context.Context, prompt string) (*Estimate, error) {
	raw, err := s.inv.Execute(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}
