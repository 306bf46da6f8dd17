package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

// FormatViolation formats a single violation for terminal output with rule
// names in their short form.
func (s *Styles) FormatViolation(path string, v *lint.Violation, showContext bool, sourceLine string) string {
	return s.FormatViolationWithFormat(path, v, showContext, sourceLine, config.RuleFormatName)
}

// FormatViolationWithFormat formats a violation with a configurable rule name format.
func (s *Styles) FormatViolationWithFormat(
	path string,
	v *lint.Violation,
	showContext bool,
	sourceLine string,
	ruleFormat config.RuleFormat,
) string {
	var builder strings.Builder
	pos := v.Location.Position

	// Location: path:line:col
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		pos.StartLine,
		pos.StartColumn,
	)

	severity := s.FormatSeverity(v.Severity)
	if v.Crashed {
		severity = s.Crash.Render("crash")
	}

	ruleDisplay := s.RuleName.Render("(" + config.FormatRuleName(ruleFormat, v.RuleName) + ")")

	// Main line: location  severity  message  (rule)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		severity,
		s.Message.Render(v.Message),
		ruleDisplay,
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, pos.StartColumn))
	}

	if v.HasFix() {
		builder.WriteString("    " + s.FixHint.Render("fixable with --fix") + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	return s.Severity(sev).Render(string(sev))
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatFixConflict formats the notice for a file whose fixes overlapped.
func (s *Styles) FormatFixConflict(path string, conflict *lint.OverlappingFixError) string {
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Warning.Render("fix skipped"),
		s.Message.Render(conflict.Error()+"; file left unchanged"),
	)
}
