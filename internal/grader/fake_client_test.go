package grader_test

import (
	"context"
	"sync"

	"github.com/quesans/backend/internal/grader"
)

// step is one scripted reply of scriptedClient.
type step struct {
	text string
	err  error
}

// scriptedClient replays steps in order and repeats the last one when the
// script runs out.
type scriptedClient struct {
	mu      sync.Mutex
	steps   []step
	prompts []string
}

func (c *scriptedClient) Generate(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	i := len(c.prompts) - 1
	if i >= len(c.steps) {
		i = len(c.steps) - 1
	}
	return c.steps[i].text, c.steps[i].err
}

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// stallingClient never answers on its own; it returns only when the call's
// context ends, the way a hung endpoint behaves under a deadline.
type stallingClient struct {
	mu    sync.Mutex
	count int
}

func (c *stallingClient) Generate(ctx context.Context, _ string) (string, error) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()

	<-ctx.Done()
	return "", &grader.ScoringError{Class: grader.FailureConnection, Wrapped: ctx.Err()}
}

func (c *stallingClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
