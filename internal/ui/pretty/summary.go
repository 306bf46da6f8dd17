package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/runner"
)

// FormatSummaryOneLine formats run statistics as a single line, for example
// "12 issues (8 errors, 4 warnings) in 3 files, 6 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	fixed := ""
	if stats.ViolationsFixed > 0 {
		fixed = s.Success.Render(fmt.Sprintf("%d fixed in %s",
			stats.ViolationsFixed, countNoun(stats.FilesModified, "file")))
	}

	if stats.ViolationsTotal == 0 {
		line := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesProcessed))
		if fixed != "" {
			line += ", " + fixed
		}
		return line + "\n"
	}

	head := countNoun(stats.ViolationsTotal, "issue")
	var bySeverity []string
	for _, sev := range []config.Severity{config.SeverityError, config.SeverityWarning, config.SeverityInfo} {
		if n := stats.ViolationsBySeverity[sev]; n > 0 {
			bySeverity = append(bySeverity, s.Severity(sev).Render(fmt.Sprintf("%d %s", n, severityNoun(sev))))
		}
	}
	if len(bySeverity) > 0 {
		head += " (" + strings.Join(bySeverity, ", ") + ")"
	}

	parts := []string{head + " in " + countNoun(stats.FilesWithIssues, "file")}
	if stats.ViolationsFixable > 0 {
		parts = append(parts, s.Fixable.Render(fmt.Sprintf("%d fixable", stats.ViolationsFixable)))
	}
	if stats.Crashes > 0 {
		parts = append(parts, s.Crash.Render(fmt.Sprintf("%d rule crashes", stats.Crashes)))
	}
	if stats.FixConflicts > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d fix conflicts", stats.FixConflicts)))
	}
	if fixed != "" {
		parts = append(parts, fixed)
	}

	return strings.Join(parts, ", ") + "\n"
}

// countNoun returns "1 file" or "3 files".
func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func severityNoun(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return "errors"
	case config.SeverityWarning:
		return "warnings"
	default:
		return "info"
	}
}
