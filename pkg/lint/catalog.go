package lint

import (
	"cmp"
	"slices"
	"sync"
)

// Catalog holds every known rule definition by name, plus legacy aliases
// such as the ESLint plugin names the rules were first published under.
type Catalog struct {
	mu      sync.RWMutex
	byName  map[string]*RuleDefinition
	aliases map[string]string // alias -> canonical name
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byName:  make(map[string]*RuleDefinition),
		aliases: make(map[string]string),
	}
}

// Add registers a definition.
// Returns *DuplicateRuleError if the name is taken, or a validation error.
func (c *Catalog) Add(def *RuleDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[def.Name]; exists {
		return &DuplicateRuleError{Name: def.Name}
	}
	c.byName[def.Name] = def
	return nil
}

// MustAdd is Add for built-in definitions registered from init.
func (c *Catalog) MustAdd(def *RuleDefinition) {
	if err := c.Add(def); err != nil {
		panic(err)
	}
}

// RegisterAlias maps an alias to a canonical rule name
// (e.g. "design-system/no-raw-colors" -> "no-raw-tailwind-colors").
func (c *Catalog) RegisterAlias(alias, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = name
}

// Get retrieves a definition by canonical name.
func (c *Catalog) Get(name string) (*RuleDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.byName[name]
	return def, ok
}

// Resolve returns the canonical name and definition for a name or alias.
func (c *Catalog) Resolve(key string) (string, *RuleDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if def, ok := c.byName[key]; ok {
		return def.Name, def, true
	}
	if target, ok := c.aliases[key]; ok {
		if def, ok := c.byName[target]; ok {
			return def.Name, def, true
		}
	}
	return "", nil, false
}

// Aliases returns a copy of the alias table.
func (c *Catalog) Aliases() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// Definitions returns all definitions sorted by name.
func (c *Catalog) Definitions() []*RuleDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*RuleDefinition, 0, len(c.byName))
	for _, def := range c.byName {
		result = append(result, def)
	}

	slices.SortFunc(result, func(a, b *RuleDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return result
}

// Names returns all canonical names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, 0, len(c.byName))
	for name := range c.byName {
		result = append(result, name)
	}

	slices.Sort(result)
	return result
}

// DefaultCatalog is the global catalog of built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global catalog is intentional for rule registration
var DefaultCatalog = NewCatalog()
