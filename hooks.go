package sheetsync

import (
	gosync "sync"

	"github.com/agentstation/sheetsync/pkg/sync"
)

// Hook function types for cycle events
type (
	// PairCompletedHook is called after every cycle that did not fail.
	PairCompletedHook func(result *sync.PairResult)

	// PairFailedHook is called after every failed cycle.
	PairFailedHook func(result *sync.PairResult)
)

// Hooks provides event callback registration.
type Hooks interface {
	OnPairCompleted(fn PairCompletedHook)
	OnPairFailed(fn PairFailedHook)
}

// hooks manages event callbacks for cycle outcomes
type hooks struct {
	mu          gosync.RWMutex
	onCompleted []PairCompletedHook
	onFailed    []PairFailedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnPairCompleted implements Hooks.
func (c *client) OnPairCompleted(fn PairCompletedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCompleted = append(c.hooks.onCompleted, fn)
}

// OnPairFailed implements Hooks.
func (c *client) OnPairFailed(fn PairFailedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFailed = append(c.hooks.onFailed, fn)
}

// trigger calls the hooks matching the outcome of result.
func (h *hooks) trigger(result *sync.PairResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if result.Failed() {
		for _, fn := range h.onFailed {
			fn(result)
		}
		return
	}
	for _, fn := range h.onCompleted {
		fn(result)
	}
}
