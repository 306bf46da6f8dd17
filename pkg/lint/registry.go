package lint

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry errors.
var (
	// ErrRegistryFrozen is returned by Register after Freeze.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrNoNodeKinds is returned for rules without visitors.
	ErrNoNodeKinds = errors.New("rule visits no node kinds")

	// ErrEmptyRuleName is returned for rules without a name.
	ErrEmptyRuleName = errors.New("rule name is empty")
)

// DuplicateRuleError reports a second registration under an existing name.
type DuplicateRuleError struct {
	Name string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is already registered", e.Name)
}

// Registry holds the active rules in registration order. Rules are added
// during setup; after Freeze the registry is read-only and may be shared by
// any number of concurrent dispatches.
type Registry struct {
	mu         sync.RWMutex
	rules      []*Rule
	byName     map[string]*Rule
	exemptDirs []string
	frozen     bool
}

// NewRegistry creates an empty registry using DefaultExemptDirectories.
func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]*Rule),
		exemptDirs: slices.Clone(DefaultExemptDirectories),
	}
}

// Register adds a rule.
// Returns *DuplicateRuleError if the name exists, ErrNoNodeKinds if the rule
// visits nothing and ErrRegistryFrozen after Freeze.
func (r *Registry) Register(rule *Rule) error {
	if rule == nil || rule.def == nil {
		return ErrEmptyRuleName
	}
	if err := rule.def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, exists := r.byName[rule.Name()]; exists {
		return &DuplicateRuleError{Name: rule.Name()}
	}

	r.rules = append(r.rules, rule)
	r.byName[rule.Name()] = rule
	return nil
}

// SetExemptDirectories replaces the exempt directory names.
func (r *Registry) SetExemptDirectories(dirs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	r.exemptDirs = slices.Clone(dirs)
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get retrieves a rule by name.
func (r *Registry) Get(name string) (*Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byName[name]
	return rule, ok
}

// Rules returns all rules in registration order.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.rules)
}

// Names returns all rule names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name()
	}
	return names
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// FileContext derives the FileContext for path using the registry's
// exempt directories.
func (r *Registry) FileContext(path string) FileContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return NewFileContext(path, r.exemptDirs)
}

// ActiveRulesFor returns the rules applying to path, in registration order.
func (r *Registry) ActiveRulesFor(path string) []*Rule {
	return r.ActiveRules(r.FileContext(path))
}

// ActiveRules returns the rules applying to fc, in registration order.
func (r *Registry) ActiveRules(fc FileContext) []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*Rule
	for _, rule := range r.rules {
		if rule.AppliesTo(fc) {
			active = append(active, rule)
		}
	}
	return active
}
