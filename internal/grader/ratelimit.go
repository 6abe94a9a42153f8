package grader

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedClient struct {
	next    ScoringClient
	limiter *rate.Limiter
}

// RateLimited wraps a client so calls wait for the limiter. A nil limiter
// returns next unchanged.
func RateLimited(next ScoringClient, limiter *rate.Limiter) ScoringClient {
	if limiter == nil {
		return next
	}
	return &rateLimitedClient{next: next, limiter: limiter}
}

// NewLimiter allows perSecond calls per second with a burst of one.
// perSecond <= 0 means unlimited and returns nil.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (c *rateLimitedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &ScoringError{Class: FailureConnection, Wrapped: err}
	}
	return c.next.Generate(ctx, prompt)
}
