package testhelpers

import (
	"context"
	"sync"
	"time"
)

// FakeCompleter is a scripted text-classification provider.
type FakeCompleter struct {
	Response string
	Err      error
	// Delay holds the reply back. With IgnoreContext the fake sleeps through
	// cancellation, like a provider that does not honor deadlines.
	Delay         time.Duration
	IgnoreContext bool
	Panic         bool

	mu      sync.Mutex
	prompts []string
}

func (f *FakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.Panic {
		panic("fake completer panic")
	}
	if f.Delay > 0 {
		if f.IgnoreContext {
			time.Sleep(f.Delay)
		} else {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(f.Delay):
			}
		}
	}
	return f.Response, f.Err
}

func (f *FakeCompleter) Name() string {
	return "fake"
}

// Prompts returns every prompt received so far.
func (f *FakeCompleter) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Calls returns how many prompts were received.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
