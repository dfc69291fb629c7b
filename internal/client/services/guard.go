package services

import (
	"fmt"
	"sync"
)

const (
	actionProfileSave      = "Profile save"
	actionSubscriptionSave = "Subscription save"
	actionDispatch         = "Dispatch"
)

// Guard admits one running instance per mutating action. Components that
// share a Guard share the bookkeeping.
type Guard struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{running: make(map[string]struct{})}
}

// acquire marks action as running. ok is false when it already is; release
// must be called exactly once otherwise.
func (g *Guard) acquire(action string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.running[action]; busy {
		return nil, false
	}
	g.running[action] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.running, action)
		g.mu.Unlock()
	}, true
}

func inProgressText(action string) string {
	return fmt.Sprintf("%s already in progress", action)
}
