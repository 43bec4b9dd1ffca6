package lint

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Registry stores rules in registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
	byID  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Add appends a rule. Adding an ID twice is an error.
func (r *Registry) Add(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := normalizeID(rule.ID())
	if id == "" {
		return fmt.Errorf("rule has no ID")
	}
	if _, dup := r.byID[id]; dup {
		return fmt.Errorf("rule %s registered twice", id)
	}
	r.byID[id] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// All returns the rules in registration order.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Rule(nil), r.rules...)
}

// Get returns a rule by its ID.
func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[normalizeID(id)]
	if !ok {
		return nil, false
	}
	return r.rules[i], true
}

// Infos returns metadata for every rule in registration order.
func (r *Registry) Infos() []core.RuleInfo {
	rules := r.All()
	infos := make([]core.RuleInfo, len(rules))
	for i, rule := range rules {
		infos[i] = GetRuleInfo(rule)
	}
	return infos
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return globalRegistry
}

// Register adds a rule definition to the global registry.
// Call this from init() functions in rule packages. Registering an ID
// twice panics.
func Register(def RuleDef) {
	RegisterRule(Wrap(def))
}

// RegisterRule adds a Rule implementation to the global registry.
func RegisterRule(rule Rule) {
	if err := globalRegistry.Add(rule); err != nil {
		panic(err)
	}
}

// All returns all globally registered rules in registration order.
func All() []Rule {
	return globalRegistry.All()
}

// Get returns a globally registered rule by ID.
func Get(id string) (Rule, bool) {
	return globalRegistry.Get(id)
}
