package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yaklabco/dslint/internal/ui/pretty"
	"github.com/yaklabco/dslint/pkg/analysis"
	"github.com/yaklabco/dslint/pkg/config"
)

const (
	maxSummaryRuleWidth = 48
	maxSummaryPathWidth = 60
	fixableMark         = "✓"
)

// SummaryRenderer formats an analysis report as a rules table, a files
// table and a totals line.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report == nil || report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found"))
		return nil
	}

	tables := []func(*analysis.Report){r.renderRuleTable, r.renderFileTable}
	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		tables[0], tables[1] = tables[1], tables[0]
	}
	for _, render := range tables {
		render(report)
	}

	r.renderTotals(report.Totals)
	return nil
}

// countTable returns a borderless table whose count columns, every column
// after the first, are right aligned.
func (r *SummaryRenderer) countTable(header ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Format.Header = text.FormatDefault

	row := make(table.Row, len(header))
	configs := make([]table.ColumnConfig, 0, len(header)-1)
	for i, h := range header {
		row[i] = r.styles.Header.Render(h)
		if i > 0 {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignRight})
		}
	}
	tw.AppendHeader(row)
	tw.SetColumnConfigs(configs)
	return tw
}

func (r *SummaryRenderer) renderRuleTable(report *analysis.Report) {
	if len(report.ByRule) == 0 {
		return
	}

	tw := r.countTable("RULE", "ISSUES", "ERRORS", "WARNINGS", "INFO", "FILES", "FIXABLE")
	for _, rule := range report.ByRule {
		name := rule.Rule
		if name == "" {
			name = rule.RuleName
		}

		var fixable string
		if rule.Fixable {
			fixable = r.styles.Fixable.Render(fixableMark)
		}

		tw.AppendRow(table.Row{
			r.severityStyled(text.Trim(name, maxSummaryRuleWidth), rule.Errors, rule.Warnings),
			rule.Issues, rule.Errors, rule.Warnings, rule.Infos, len(rule.Files), fixable,
		})
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	fmt.Fprintln(r.out, tw.Render())
	fmt.Fprintln(r.out)
}

func (r *SummaryRenderer) renderFileTable(report *analysis.Report) {
	if len(report.ByFile) == 0 {
		return
	}

	tw := r.countTable("FILE", "ISSUES", "ERRORS", "WARNINGS", "INFO", "RULES")
	for _, file := range report.ByFile {
		path := displayPath(file.Path, r.opts.WorkingDir)
		if len(path) > maxSummaryPathWidth {
			path = "…" + path[len(path)-(maxSummaryPathWidth-1):]
		}

		tw.AppendRow(table.Row{
			r.severityStyled(path, file.Errors, file.Warnings),
			file.Issues, file.Errors, file.Warnings, file.Infos, len(file.Rules),
		})
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, tw.Render())
	fmt.Fprintln(r.out)
}

// severityStyled colors a row label by the worst severity it carries.
func (r *SummaryRenderer) severityStyled(label string, errors, warnings int) string {
	switch {
	case errors > 0:
		return r.styles.Severity(config.SeverityError).Render(label)
	case warnings > 0:
		return r.styles.Severity(config.SeverityWarning).Render(label)
	default:
		return label
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	line := plural(totals.Issues, "issue", "issues")

	var severities []string
	if totals.Errors > 0 {
		severities = append(severities, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		severities = append(severities, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if totals.Infos > 0 {
		severities = append(severities, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severities) > 0 {
		line += " (" + strings.Join(severities, ", ") + ")"
	}
	line += " in " + plural(totals.FilesWithIssues, "file", "files")

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)

	var fixes []string
	if totals.Fixable > 0 {
		fixes = append(fixes, r.styles.Fixable.Render(fmt.Sprintf("%d fixable", totals.Fixable)))
	}
	if totals.Fixed > 0 {
		fixes = append(fixes, r.styles.Success.Render(fmt.Sprintf("%d fixed", totals.Fixed)))
	}
	if totals.FixConflicts > 0 {
		fixes = append(fixes, r.styles.Warning.Render(fmt.Sprintf("%d fix conflicts", totals.FixConflicts)))
	}
	if len(fixes) > 0 {
		fmt.Fprintln(r.out, strings.Join(fixes, " | "))
	}

	if totals.Crashes > 0 {
		fmt.Fprintln(r.out, r.styles.Crash.Render(fmt.Sprintf("%d rule crashes", totals.Crashes)))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + one
	}
	return strconv.Itoa(n) + " " + many
}
