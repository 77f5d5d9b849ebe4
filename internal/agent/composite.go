package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ParallelSeparator joins the member results of a Parallel composite.
const ParallelSeparator = "\n---\n"

// Sequential pipes each agent's output into the next. No error isolation:
// a failure in any stage propagates to the caller.
type Sequential struct {
	name   string
	agents []Agent
}

// NewSequential builds a sequential composite.
func NewSequential(name string, agents ...Agent) *Sequential {
	return &Sequential{name: name, agents: agents}
}

func (s *Sequential) Name() string { return s.name }

func (s *Sequential) Handle(ctx context.Context, sessionID, message string) (string, error) {
	state := message
	for _, a := range s.agents {
		out, err := Call(ctx, a, sessionID, state)
		if err != nil {
			return "", fmt.Errorf("%s: %w", a.Name(), err)
		}
		state = out
	}
	return state, nil
}

// Parallel runs every member concurrently against the original message
// and joins all results. Result order matches the member list order, not
// completion order. A failing member contributes an inline error string
// instead of aborting its siblings; Parallel itself never fails.
type Parallel struct {
	name   string
	agents []Agent
}

// NewParallel builds a parallel composite.
func NewParallel(name string, agents ...Agent) *Parallel {
	return &Parallel{name: name, agents: agents}
}

func (p *Parallel) Name() string { return p.name }

func (p *Parallel) Handle(ctx context.Context, sessionID, message string) (string, error) {
	results := make([]string, len(p.agents))

	var wg sync.WaitGroup
	for i, a := range p.agents {
		wg.Add(1)
		go func(i int, a Agent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = fmt.Sprintf("Agent error: %v", r)
				}
			}()
			out, err := Call(ctx, a, sessionID, message)
			if err != nil {
				results[i] = fmt.Sprintf("Agent error: %v", err)
				return
			}
			results[i] = out
		}(i, a)
	}
	wg.Wait()

	return strings.Join(results, ParallelSeparator), nil
}
