package llm

import (
	"context"
	"sync"
)

// StubClient is a scripted backend for tests and keyless local runs.
// It counts invocations so tests can assert the validator short-circuits
// before the backend is reached.
type StubClient struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls int
}

var _ Client = (*StubClient)(nil)

const stubReply = `Top Possible Conditions:
1. Viral Fever - 60%
   Reasoning: Common flu-like symptoms with normal test results.

Suggested Actions:
- Stay hydrated and rest
- Consult a healthcare professional for proper diagnosis`

func NewStubClient() *StubClient {
	return &StubClient{Reply: stubReply}
}

func (s *StubClient) Ping(ctx context.Context) error {
	return s.Err
}

func (s *StubClient) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", unavailable("stub", err)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}

// Calls reports how many times Complete was invoked.
func (s *StubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
