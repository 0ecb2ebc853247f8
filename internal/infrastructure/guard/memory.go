package guard

import (
	"context"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/ports"
)

// MemoryGuard is the in-process fallback used when no Redis address is
// configured. It provides the same hold-until-release semantics for a single
// replica.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

var _ ports.SubmitGuard = (*MemoryGuard)(nil)

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, deadline := range g.held {
		if now.After(deadline) {
			delete(g.held, k)
		}
	}

	if _, exists := g.held[key]; exists {
		return false, nil
	}
	g.held[key] = now.Add(guardTTL)
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
