// Package lint provides the rule registry, the syntax tree visitor
// dispatcher and the diagnostic and fix emitter for dslint.
package lint

import (
	"fmt"
	"slices"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/jsast"
)

// Handler inspects one node on behalf of one rule. Violations are reported
// through ctx; a returned error marks the rule as crashed for the file.
type Handler func(ctx *HandlerContext, node *jsast.Node) error

// RuleDefinition describes one check: its metadata, the files it applies to
// and the handlers it runs per node kind.
type RuleDefinition struct {
	// Name is the unique rule key (e.g. "no-raw-tailwind-colors").
	Name string

	// Description is a one-line summary shown by the rules command.
	Description string

	// AppliesTo selects the files the rule runs on. Nil matches every file.
	AppliesTo Predicate

	// Visitors maps node kinds to handlers. Its key set is the rule's
	// node kinds and must not be empty.
	Visitors map[jsast.Kind]Handler

	// Messages maps message ids to templates with {{name}} placeholders.
	Messages map[string]string

	// Fixable reports whether the rule may attach fixes to its violations.
	Fixable bool

	// DefaultSeverity is used when configuration sets none.
	DefaultSeverity config.Severity

	// Options is the rule's option schema. The shared allowedFiles and
	// severity options are always accepted.
	Options []OptionSpec

	// Tags categorise the rule for the rules command.
	Tags []string
}

// NodeKinds returns the kinds the rule visits, in kind order.
func (d *RuleDefinition) NodeKinds() []jsast.Kind {
	kinds := make([]jsast.Kind, 0, len(d.Visitors))
	for k := range d.Visitors {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Validate checks the structural invariants of a definition.
func (d *RuleDefinition) Validate() error {
	if d.Name == "" {
		return ErrEmptyRuleName
	}
	if len(d.Visitors) == 0 {
		return fmt.Errorf("rule %s: %w", d.Name, ErrNoNodeKinds)
	}
	for kind, handler := range d.Visitors {
		if !kind.IsValid() {
			return fmt.Errorf("rule %s: invalid node kind %d", d.Name, kind)
		}
		if handler == nil {
			return fmt.Errorf("rule %s: nil handler for %s", d.Name, kind)
		}
	}
	return nil
}

// Rule is a RuleDefinition bound to its compiled options. Rules are
// immutable once built and safe to share between goroutines.
type Rule struct {
	def          *RuleDefinition
	options      Options
	severity     config.Severity
	autoFix      bool
	allowedFiles Predicate
}

// NewRule compiles raw options against the definition's schema.
// The returned error aggregates every *OptionError found.
func NewRule(def *RuleDefinition, raw map[string]any) (*Rule, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	opts, err := CompileOptions(def.schema(), raw)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", def.Name, err)
	}

	severity := def.DefaultSeverity
	if severity == "" {
		severity = config.SeverityWarning
	}
	if s := opts.Severity(OptionSeverity); s != "" {
		severity = s
	}

	rule := &Rule{
		def:      def,
		options:  opts,
		severity: severity,
		autoFix:  def.Fixable,
	}
	if patterns := opts.Regexps(OptionAllowedFiles); len(patterns) > 0 {
		rule.allowedFiles = MatchingAny(patterns...)
	}

	return rule, nil
}

// MustNewRule is NewRule for definitions and options known to be valid.
func MustNewRule(def *RuleDefinition, raw map[string]any) *Rule {
	rule, err := NewRule(def, raw)
	if err != nil {
		panic(err)
	}
	return rule
}

// WithSeverity returns a copy of the rule using the given severity.
func (r *Rule) WithSeverity(s config.Severity) *Rule {
	cp := *r
	cp.severity = s
	return &cp
}

// WithAutoFix returns a copy of the rule with auto-fix switched on or off.
// Auto-fix is never enabled for rules that are not fixable.
func (r *Rule) WithAutoFix(enabled bool) *Rule {
	cp := *r
	cp.autoFix = enabled && r.def.Fixable
	return &cp
}

// Name returns the rule name.
func (r *Rule) Name() string { return r.def.Name }

// Definition returns the underlying definition.
func (r *Rule) Definition() *RuleDefinition { return r.def }

// Options returns the compiled options.
func (r *Rule) Options() Options { return r.options }

// Severity returns the effective severity.
func (r *Rule) Severity() config.Severity { return r.severity }

// AutoFix reports whether fixes from this rule are applied in fix mode.
func (r *Rule) AutoFix() bool { return r.autoFix }

// Handler returns the rule's handler for kind, or nil.
func (r *Rule) Handler(kind jsast.Kind) Handler {
	return r.def.Visitors[kind]
}

// AppliesTo reports whether the rule runs on the file. Exempt files and
// files matching the allowedFiles option are always skipped.
func (r *Rule) AppliesTo(fc FileContext) bool {
	if fc.IsExempt {
		return false
	}
	if r.allowedFiles != nil && r.allowedFiles.Match(fc) {
		return false
	}
	return r.def.AppliesTo == nil || r.def.AppliesTo.Match(fc)
}

// Message renders the template for messageID with data substituted.
// Unknown ids render as the id itself.
func (r *Rule) Message(messageID string, data map[string]string) string {
	tmpl, ok := r.def.Messages[messageID]
	if !ok {
		return messageID
	}
	return RenderMessage(tmpl, data)
}

// schema returns the definition's options plus the shared ones.
func (d *RuleDefinition) schema() []OptionSpec {
	schema := make([]OptionSpec, 0, len(d.Options)+len(commonOptions))
	schema = append(schema, commonOptions...)
	schema = append(schema, d.Options...)
	return schema
}
