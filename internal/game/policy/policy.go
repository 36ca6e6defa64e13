// Package policy provides the pluggable decision components that steer the
// ship. A policy yields a lazy sequence of actions and reads live engine
// state between yields, so it reacts to the world the sampler is mutating.
package policy

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/vovakirdan/starshot/internal/game"
)

// Action is a single frozen ship decision: move to a column and optionally
// fire.
type Action struct {
	X     int
	Shoot bool
}

// String returns a compact debug form.
func (a Action) String() string {
	if a.Shoot {
		return fmt.Sprintf("Action(SHOOT x=%d)", a.X)
	}
	return fmt.Sprintf("Action(MOVE x=%d)", a.X)
}

// Policy generates ship actions for clearing the grid. Implementations
// must be replayable bit-for-bit given the same seeded rng.
type Policy interface {
	// Name returns the registry identifier for this policy.
	Name() string

	// Actions yields the action sequence against a mutating engine state.
	// The rng is the policy's private random stream; deterministic
	// policies ignore it.
	Actions(st *game.State, rng *rand.Rand) iter.Seq[Action]
}

// DefaultName is the policy used when the caller does not pick one.
const DefaultName = "random"

// Factory creates a new policy instance.
type Factory func() Policy

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a policy factory under a name. Called from init functions;
// panics on duplicates.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("policy: %q already registered", name))
	}
	factories[name] = f
}

// Names returns the registered policy names in deterministic order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates a policy by name. An unknown name is a validation
// error surfaced verbatim to the caller.
func Create(name string) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("policy: unknown policy %q (available: %v)", name, Names())
	}
	return f(), nil
}

func init() {
	Register("column", func() Policy { return columnPolicy{} })
	Register("row", func() Policy { return rowPolicy{} })
	Register("random", func() Policy { return &randomPolicy{} })
}
