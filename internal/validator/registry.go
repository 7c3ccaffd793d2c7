package validator

import "rpaetl/internal/validator/invoice"

// Registry holds rules keyed by code and remembers registration order.
type Registry struct {
	rules map[string]Rule
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// DefaultRegistry returns a Registry loaded with the built-in invoice rules.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range invoice.AllBuiltinRules() {
		r.Register(rule)
	}
	return r
}

// Register adds a rule. Registering an existing code replaces the rule in place.
func (r *Registry) Register(rule Rule) {
	if _, ok := r.rules[rule.Code()]; !ok {
		r.order = append(r.order, rule.Code())
	}
	r.rules[rule.Code()] = rule
}

// Get returns the rule for a given code, or nil if not found.
func (r *Registry) Get(code string) Rule {
	return r.rules[code]
}

// All returns every registered rule in registration order.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.rules[code])
	}
	return out
}
