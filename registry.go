package action

import (
	"fmt"
	"sync"

	"github.com/tidwall/btree"
)

// Registry maps action names to actions, with at most one default action
// used when the first token names no registered action.
//
// A registry is meant to be filled once at start-up and only read afterwards.
type Registry struct {
	mu      sync.RWMutex
	actions *btree.Map[string, *Action]
	def     *Action
}

func NewRegistry() *Registry {
	return &Registry{
		actions: btree.NewMap[string, *Action](0),
	}
}

// Register records an action under its own name.
func (r *Registry) Register(a *Action) error {
	if a == nil {
		return fmt.Errorf("action: action cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions.Get(a.name); exists {
		return newError(ErrActionExists, a.name, "", "", nil)
	}

	r.actions.Set(a.name, a)
	return nil
}

// RegisterDefault records the action used when no name matches.
func (r *Registry) RegisterDefault(a *Action) error {
	if a == nil {
		return fmt.Errorf("action: action cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.def != nil {
		return newError(ErrDefaultExists, a.name, "", "", fmt.Errorf("'%s' is already the default", r.def.name))
	}

	r.def = a
	return nil
}

func (r *Registry) Lookup(name string) (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.actions.Get(name)
}

func (r *Registry) Default() (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.def, r.def != nil
}

// Actions returns all named actions sorted by name.
func (r *Registry) Actions() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*Action, 0, r.actions.Len())
	r.actions.Scan(func(_ string, a *Action) bool {
		actions = append(actions, a)
		return true
	})
	return actions
}

// resolve selects the action for a token list. It returns the action and the
// tokens left for binding: the action name is hidden when it matched, and
// the whole list is kept when falling back to the default action.
func (r *Registry) resolve(tokens []string) (*Action, []string, error) {
	if len(tokens) > 0 {
		if a, ok := r.Lookup(tokens[0]); ok {
			return a, tokens[1:], nil
		}
	}

	if def, ok := r.Default(); ok {
		return def, tokens, nil
	}

	if len(tokens) == 0 {
		return nil, nil, newError(ErrUnknownAction, "", "", "", fmt.Errorf("no action specified"))
	}
	return nil, nil, newError(ErrUnknownAction, "", "", tokens[0], nil)
}
