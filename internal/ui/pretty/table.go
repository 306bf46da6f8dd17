package pretty

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/runner"
)

const (
	fixableSymbol    = "+"
	defaultTermWidth = 100
	minMessageWidth  = 30
	maxFileWidth     = 48

	// cellOverhead is the padding and divider go-pretty draws per column.
	cellOverhead = 3
)

// TableRow is one violation as it appears in a table.
type TableRow struct {
	File     string
	Location string
	Message  string
	Rule     string
	Severity config.Severity
	Crashed  bool
	Fixable  bool
}

// TableFormatter renders violations as a table with one row per violation,
// grouped by file. The message column shrinks to fit the terminal.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
	ruleFormat   config.RuleFormat
	displayPath  func(string) string
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int, ruleFormat config.RuleFormat) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
		ruleFormat:   ruleFormat,
		displayPath:  func(path string) string { return path },
	}
}

// SetPathDisplay sets how file paths are shown, e.g. relative to the
// working directory.
func (t *TableFormatter) SetPathDisplay(fn func(string) string) {
	if fn != nil {
		t.displayPath = fn
	}
}

// FormatTable renders every file with violations in one table.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var groups [][]TableRow
	for _, file := range result.Files {
		if rows := t.fileRows(file); len(rows) > 0 {
			groups = append(groups, rows)
		}
	}
	if len(groups) == 0 {
		return ""
	}

	tw, width := t.newWriter(true, slices.Concat(groups...))
	for i, rows := range groups {
		if i > 0 {
			tw.AppendSeparator()
		}
		for _, row := range rows {
			tw.AppendRow(t.cells(row, true, width))
		}
	}

	return tw.Render() + "\n" + t.legend() + "\n"
}

// FormatFileTable renders one file's violations without the file column.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	rows := t.fileRows(file)
	if len(rows) == 0 {
		return ""
	}

	tw, width := t.newWriter(false, rows)
	for _, row := range rows {
		tw.AppendRow(t.cells(row, false, width))
	}

	return tw.Render() + "\n" + t.formatFileSummary(rows) + "\n"
}

// newWriter returns a table with its header set and the message width that
// lets rows fit the terminal.
func (t *TableFormatter) newWriter(withFile bool, rows []TableRow) (table.Writer, int) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Format.Header = text.FormatDefault

	header := table.Row{"LOC", "SEVERITY", "MESSAGE", "RULE", ""}
	if withFile {
		header = append(table.Row{"FILE"}, header...)
		tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	}
	for i, h := range header {
		if s, ok := h.(string); ok && s != "" {
			header[i] = t.styles.Header.Render(s)
		}
	}
	tw.AppendHeader(header)

	return tw, t.messageWidth(rows, withFile, len(header))
}

func (t *TableFormatter) messageWidth(rows []TableRow, withFile bool, columns int) int {
	used := columns*cellOverhead + len(fixableSymbol)
	var file, loc, severity, rule int
	for _, row := range rows {
		if withFile {
			file = max(file, min(len(t.displayPath(row.File)), maxFileWidth))
		}
		loc = max(loc, len(row.Location))
		severity = max(severity, len(row.severityLabel()))
		rule = max(rule, len(row.Rule))
	}
	used += file + loc + severity + rule

	return max(minMessageWidth, t.termWidth-used)
}

func (t *TableFormatter) cells(row TableRow, withFile bool, messageWidth int) table.Row {
	severity := t.styles.Severity(row.Severity).Render(row.severityLabel())
	if row.Crashed {
		severity = t.styles.Crash.Render(row.severityLabel())
	}
	marker := ""
	if row.Fixable {
		marker = t.styles.Fixable.Render(fixableSymbol)
	}

	cells := table.Row{
		t.styles.Location.Render(row.Location),
		severity,
		t.styles.Message.Render(truncateString(row.Message, messageWidth)),
		t.styles.RuleName.Render(row.Rule),
		marker,
	}
	if withFile {
		path := truncateFilePath(t.displayPath(row.File), maxFileWidth)
		cells = append(table.Row{t.styles.FilePath.Render(path)}, cells...)
	}
	return cells
}

func (row TableRow) severityLabel() string {
	if row.Crashed {
		return "crash"
	}
	return string(row.Severity)
}

// fileRows converts one file's violations into rows.
func (t *TableFormatter) fileRows(file runner.FileOutcome) []TableRow {
	if file.Result == nil || file.Result.FileResult == nil {
		return nil
	}

	violations := file.Result.Violations
	rows := make([]TableRow, 0, len(violations))
	for i := range violations {
		rows = append(rows, ViolationToTableRow(file.Path, &violations[i], t.ruleFormat))
	}
	return rows
}

// formatFileSummary formats a summary line for a single file.
func (t *TableFormatter) formatFileSummary(rows []TableRow) string {
	counts := make(map[config.Severity]int)
	var fixable int
	for _, row := range rows {
		counts[row.Severity]++
		if row.Fixable {
			fixable++
		}
	}

	var parts []string
	if n := counts[config.SeverityError]; n > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := counts[config.SeverityWarning]; n > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := counts[config.SeverityInfo]; n > 0 {
		parts = append(parts, t.styles.Info.Render(fmt.Sprintf("%d info", n)))
	}
	if fixable > 0 {
		parts = append(parts, t.styles.Fixable.Render(fmt.Sprintf("%d fixable", fixable)))
	}

	return " " + strings.Join(parts, " | ")
}

func (t *TableFormatter) legend() string {
	if !t.colorEnabled {
		return t.styles.Dim.Render(fmt.Sprintf(" Legend: %s = fixable with --fix", fixableSymbol))
	}
	return t.styles.Dim.Render(" Legend: ") +
		t.styles.Error.Render("error") + "  " +
		t.styles.Warning.Render("warning") + "  " +
		t.styles.Info.Render("info") + "  " +
		t.styles.Fixable.Render(fixableSymbol) + t.styles.Dim.Render(" = fixable with --fix")
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{fmt.Sprintf("%d files checked", stats.FilesProcessed)}

	if n := stats.ViolationsBySeverity[config.SeverityError]; n > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := stats.ViolationsBySeverity[config.SeverityWarning]; n > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := stats.ViolationsBySeverity[config.SeverityInfo]; n > 0 {
		parts = append(parts, t.styles.Info.Render(fmt.Sprintf("%d info", n)))
	}
	if stats.ViolationsFixable > 0 {
		parts = append(parts, t.styles.Fixable.Render(fmt.Sprintf("%d fixable", stats.ViolationsFixable)))
	}
	if stats.ViolationsFixed > 0 {
		parts = append(parts, t.styles.Success.Render(fmt.Sprintf("%d fixed", stats.ViolationsFixed)))
	}
	if stats.FixConflicts > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d fix conflicts", stats.FixConflicts)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, keeping its end (the file name).
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}

// ViolationToTableRow converts a lint violation to a table row.
func ViolationToTableRow(path string, v *lint.Violation, ruleFormat config.RuleFormat) TableRow {
	pos := v.Location.Position
	return TableRow{
		File:     path,
		Location: fmt.Sprintf("%d:%d", pos.StartLine, pos.StartColumn),
		Message:  v.Message,
		Rule:     config.FormatRuleName(ruleFormat, v.RuleName),
		Severity: v.Severity,
		Crashed:  v.Crashed,
		Fixable:  v.HasFix(),
	}
}
