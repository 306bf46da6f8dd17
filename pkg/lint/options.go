package lint

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"

	"github.com/yaklabco/dslint/pkg/config"
)

// Shared option names accepted by every rule.
const (
	OptionAllowedFiles    = "allowedFiles"
	OptionAllowedPatterns = "allowedPatterns"
	OptionSeverity        = "severity"
)

// OptionKind is the expected type of an option value.
type OptionKind int

// Option kinds.
const (
	OptionString OptionKind = iota
	OptionStringList
	OptionRegexList
	OptionBool
	OptionInt
	OptionStringMap
	OptionSeverityLevel
)

// String returns the kind name used in error messages.
func (k OptionKind) String() string {
	switch k {
	case OptionString:
		return "string"
	case OptionStringList:
		return "list of strings"
	case OptionRegexList:
		return "list of regular expressions"
	case OptionBool:
		return "boolean"
	case OptionInt:
		return "integer"
	case OptionStringMap:
		return "map of strings"
	case OptionSeverityLevel:
		return "severity (error, warn, warning, info)"
	default:
		return "unknown"
	}
}

// OptionSpec declares one option of a rule's schema.
type OptionSpec struct {
	Name        string
	Kind        OptionKind
	Default     any
	Description string
}

//nolint:gochecknoglobals // Read-only shared schema.
var commonOptions = []OptionSpec{
	{
		Name:        OptionAllowedFiles,
		Kind:        OptionRegexList,
		Description: "Regular expressions for file paths the rule skips.",
	},
	{
		Name:        OptionSeverity,
		Kind:        OptionSeverityLevel,
		Description: "Severity override for this rule's violations.",
	},
}

// OptionError describes one malformed option value.
type OptionError struct {
	Option  string
	Message string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %q: %s", e.Option, e.Message)
}

// Options holds compiled option values keyed by name.
type Options struct {
	values map[string]any
}

// CompileOptions validates raw options against schema and converts them to
// typed values, filling defaults for absent options. Every problem is
// reported; the returned error joins one *OptionError per bad option.
func CompileOptions(schema []OptionSpec, raw map[string]any) (Options, error) {
	opts := Options{values: make(map[string]any, len(schema))}
	known := make(map[string]OptionSpec, len(schema))
	var errs []error

	for _, spec := range schema {
		known[spec.Name] = spec
		if spec.Default == nil {
			continue
		}
		value, err := convertOption(spec, spec.Default)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		opts.values[spec.Name] = value
	}

	// Sorted for stable error order.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		spec, ok := known[name]
		if !ok {
			errs = append(errs, &OptionError{Option: name, Message: "unknown option"})
			continue
		}
		if raw[name] == nil {
			continue
		}
		value, err := convertOption(spec, raw[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		opts.values[name] = value
	}

	if len(errs) > 0 {
		return Options{}, errors.Join(errs...)
	}
	return opts, nil
}

func convertOption(spec OptionSpec, raw any) (any, error) {
	mismatch := func() error {
		return &OptionError{Option: spec.Name, Message: fmt.Sprintf("expected %s, got %T", spec.Kind, raw)}
	}

	switch spec.Kind {
	case OptionString:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch()
		}
		return s, nil

	case OptionStringList:
		list, ok := toStringList(raw)
		if !ok {
			return nil, mismatch()
		}
		return list, nil

	case OptionRegexList:
		list, ok := toStringList(raw)
		if !ok {
			return nil, mismatch()
		}
		compiled := make([]*regexp.Regexp, 0, len(list))
		for _, expr := range list {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, &OptionError{Option: spec.Name, Message: fmt.Sprintf("invalid pattern %q: %v", expr, err)}
			}
			compiled = append(compiled, re)
		}
		return compiled, nil

	case OptionBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, mismatch()
		}
		return b, nil

	case OptionInt:
		n, ok := toInt(raw)
		if !ok {
			return nil, mismatch()
		}
		return n, nil

	case OptionStringMap:
		m, ok := toStringMap(raw)
		if !ok {
			return nil, mismatch()
		}
		return m, nil

	case OptionSeverityLevel:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch()
		}
		sev, ok := config.ParseSeverity(s)
		if !ok {
			return nil, &OptionError{Option: spec.Name, Message: fmt.Sprintf("unknown severity %q", s)}
		}
		return sev, nil

	default:
		return nil, &OptionError{Option: spec.Name, Message: "unsupported option kind"}
	}
}

func toStringList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case string:
		return []string{v}, true
	case []string:
		return slices.Clone(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		// MaxInt rounds up to 2^63 as a float64, so the upper bound is exclusive.
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func toStringMap(raw any) (map[string]string, bool) {
	switch v := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// Has reports whether an option has a value (configured or default).
func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// String returns a string option, or "".
func (o Options) String(name string) string {
	s, _ := o.values[name].(string)
	return s
}

// StringList returns a string list option, or nil.
func (o Options) StringList(name string) []string {
	list, _ := o.values[name].([]string)
	return list
}

// Regexps returns a compiled regex list option, or nil.
func (o Options) Regexps(name string) []*regexp.Regexp {
	list, _ := o.values[name].([]*regexp.Regexp)
	return list
}

// Bool returns a boolean option, or false.
func (o Options) Bool(name string) bool {
	b, _ := o.values[name].(bool)
	return b
}

// Int returns an integer option, or 0.
func (o Options) Int(name string) int {
	n, _ := o.values[name].(int)
	return n
}

// StringMap returns a string map option, or nil.
func (o Options) StringMap(name string) map[string]string {
	m, _ := o.values[name].(map[string]string)
	return m
}

// Severity returns a severity option, or "".
func (o Options) Severity(name string) config.Severity {
	s, _ := o.values[name].(config.Severity)
	return s
}

// MatchesAny reports whether s matches any pattern of a regex list option.
func (o Options) MatchesAny(name, s string) bool {
	for _, re := range o.Regexps(name) {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
