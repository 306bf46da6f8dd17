package lint

import (
	"maps"
	"regexp"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/jsast"
)

// Synthetic rule names and message ids.
const (
	// ParseErrorRule is the rule name of violations for unparseable files.
	ParseErrorRule = "parse-error"

	// RuleCrashedMessageID is the message id of crash violations.
	RuleCrashedMessageID = "rule-crashed"
)

// Location is a violation's source span.
type Location struct {
	// Range is the byte span in the linted content.
	Range jsast.Range

	// Position is the same span as 1-based lines and columns.
	Position jsast.SourcePosition
}

// Violation is one reported problem. Violations are values: rules and the
// dispatcher never modify one after it is created.
type Violation struct {
	// RuleName is the name of the reporting rule.
	RuleName string

	// Location is where the problem is.
	Location Location

	// MessageID selects the rule's message template.
	MessageID string

	// MessageData holds the template substitutions.
	MessageData map[string]string

	// Fix is nil or a list of non-overlapping edits resolving the problem.
	Fix []fix.TextEdit

	// Severity is the rule's effective severity.
	Severity config.Severity

	// Message is the rendered message.
	Message string

	// Crashed marks a violation standing in for a rule failure.
	Crashed bool

	// order is the rule's position among the dispatched rules.
	order int
}

// HasFix reports whether the violation carries a fix.
func (v *Violation) HasFix() bool {
	return len(v.Fix) > 0
}

// Shifted returns the violation moved into host coordinates of an
// embedded block.
func (v Violation) Shifted(block jsast.Embedded) Violation {
	v.Location = Location{
		Range:    block.HostRange(v.Location.Range),
		Position: block.HostPosition(v.Location.Position),
	}
	if v.Fix != nil {
		edits := make([]fix.TextEdit, len(v.Fix))
		for i, e := range v.Fix {
			edits[i] = e.Shift(block.Offset)
		}
		v.Fix = edits
	}
	return v
}

// RuleCrashedViolation builds the violation reported when a rule's handler
// fails or panics on node.
func RuleCrashedViolation(rule *Rule, node *jsast.Node, err error) Violation {
	data := map[string]string{
		"rule":  rule.Name(),
		"error": err.Error(),
	}
	return Violation{
		RuleName:    rule.Name(),
		Location:    nodeLocation(node),
		MessageID:   RuleCrashedMessageID,
		MessageData: data,
		Severity:    config.SeverityError,
		Message:     RenderMessage("rule {{rule}} crashed: {{error}}", data),
		Crashed:     true,
	}
}

// ParseErrorViolation builds the single file-level violation for a file
// that could not be parsed.
func ParseErrorViolation(perr *jsast.ParseError) Violation {
	line, col := max(perr.Line, 1), max(perr.Column, 1)
	data := map[string]string{"message": perr.Message}
	return Violation{
		RuleName: ParseErrorRule,
		Location: Location{
			Range: jsast.Range{Start: perr.Offset, End: perr.Offset},
			Position: jsast.SourcePosition{
				StartLine: line, StartColumn: col, EndLine: line, EndColumn: col,
			},
		},
		MessageID:   "parseError",
		MessageData: data,
		Severity:    config.SeverityError,
		Message:     perr.Message,
	}
}

func nodeLocation(node *jsast.Node) Location {
	if node == nil {
		return Location{}
	}
	return Location{Range: node.Range, Position: node.SourcePosition()}
}

func rangeLocation(file *jsast.FileSnapshot, r jsast.Range) Location {
	return Location{Range: r, Position: file.Position(r)}
}

//nolint:gochecknoglobals // Compiled once.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// RenderMessage substitutes {{name}} placeholders in tmpl with data values.
// Placeholders without data are left as written.
func RenderMessage(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		if val, ok := data[key]; ok {
			return val
		}
		return m
	})
}

func cloneData(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	return maps.Clone(data)
}
