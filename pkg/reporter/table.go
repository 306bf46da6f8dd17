package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/yaklabco/dslint/internal/ui/pretty"
	"github.com/yaklabco/dslint/pkg/runner"
)

const fixHint = "Run with --fix to auto-repair fixable issues"

// TableReporter prints violations as a table, either one table for the
// whole run or one per file.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	// Width 0 lets the formatter pick its default.
	formatter := pretty.NewTableFormatter(styles, colorEnabled, terminalWidth(opts.Writer), opts.RuleFormat)
	formatter.SetPathDisplay(func(path string) string { return displayPath(path, opts.WorkingDir) })

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: formatter,
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	r.reportFileProblems(result)

	total := countTotalIssues(result)
	if total == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw)
			fmt.Fprintln(r.bw, r.styles.Success.Render("All files passed!"))
			fmt.Fprintln(r.bw, r.styles.Dim.Render(fmt.Sprintf("%d files checked", result.Stats.FilesProcessed)))
		}
		return 0, nil
	}

	if r.opts.PerFile {
		r.reportPerFile(result)
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatTable(result))
	}

	if r.opts.ShowSummary {
		if r.opts.PerFile {
			fmt.Fprintln(r.bw)
			fmt.Fprintln(r.bw, r.styles.Bold.Render("Overall Summary"))
		}
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, ""))
		if result.Stats.ViolationsFixable > result.Stats.ViolationsFixed {
			fmt.Fprintln(r.bw)
			fmt.Fprintln(r.bw, r.styles.Dim.Render(fixHint))
		}
	}

	return total, nil
}

// reportFileProblems prints read failures and fix conflicts, which have no
// table row of their own.
func (r *TableReporter) reportFileProblems(result *runner.Result) {
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)
		switch {
		case file.Error != nil:
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
		case file.Result != nil && file.Result.FixConflict != nil:
			fmt.Fprint(r.bw, r.styles.FormatFixConflict(path, file.Result.FixConflict))
		}
	}
}

func (r *TableReporter) reportPerFile(result *runner.Result) {
	for _, file := range result.Files {
		table := r.formatter.FormatFileTable(file)
		if table == "" {
			continue
		}
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir)))
		fmt.Fprint(r.bw, table)
	}
}

// countTotalIssues counts all violations in the result.
func countTotalIssues(result *runner.Result) int {
	var total int
	for _, file := range result.Files {
		if file.Result != nil && file.Result.FileResult != nil {
			total += file.Result.IssueCount()
		}
	}
	return total
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
