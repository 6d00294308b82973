package agent

import (
	"fmt"
	"sort"
	"sync"

	"ruraldraft-backend/internal/logger"
)

// Registry maps agent types to agents. It is built at startup and handed to
// the orchestrator; lookups are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
	logger logger.Logger
}

// RegistryOption is a functional option for Registry
type RegistryOption func(*Registry)

// RegistryWithLogger sets the logger
func RegistryWithLogger(l logger.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{agents: make(map[string]Agent)}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logger.OrNop(r.logger)
	return r
}

// Register adds an agent. Registering a type twice replaces the previous
// agent and logs a warning.
func (r *Registry) Register(a Agent) {
	info := a.Info()

	r.mu.Lock()
	_, exists := r.agents[info.Type]
	r.agents[info.Type] = a
	r.mu.Unlock()

	if exists {
		r.logger.Warn("agent already registered, overwriting", map[string]interface{}{
			"agent_type": info.Type,
		})
		return
	}
	r.logger.Info("agent registered", map[string]interface{}{
		"agent_type": info.Type,
		"agent_name": info.Name,
	})
}

// Get returns the agent registered for agentType.
func (r *Registry) Get(agentType string) (Agent, error) {
	r.mu.RLock()
	a, ok := r.agents[agentType]
	r.mu.RUnlock()

	if !ok {
		r.logger.Error("agent not found", map[string]interface{}{
			"agent_type": agentType,
			"available":  r.Types(),
		})
		return nil, fmt.Errorf("%w: %q", ErrNotFound, agentType)
	}
	return a, nil
}

// Has reports whether agentType is registered.
func (r *Registry) Has(agentType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[agentType]
	return ok
}

// Unregister removes an agent and reports whether it was present.
func (r *Registry) Unregister(agentType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.agents[agentType]
	delete(r.agents, agentType)
	return ok
}

// Types returns the registered agent types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.agents))
	for t := range r.agents {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Infos returns the description of every registered agent, sorted by type.
func (r *Registry) Infos() []Info {
	types := r.Types()

	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(types))
	for _, t := range types {
		if a, ok := r.agents[t]; ok {
			infos = append(infos, a.Info())
		}
	}
	return infos
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
