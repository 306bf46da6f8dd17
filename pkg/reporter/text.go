package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/dslint/internal/ui/pretty"
	"github.com/yaklabco/dslint/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's violations, grouped under a header when
// GroupByFile is set, and returns how many were written.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	if file.Result == nil {
		return 0
	}
	if file.Result.FixConflict != nil {
		fmt.Fprint(r.bw, r.styles.FormatFixConflict(path, file.Result.FixConflict))
	}
	if file.Result.FileResult == nil || !file.Result.HasIssues() {
		return 0
	}

	violations := file.Result.Violations
	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(violations)))
	}

	for i := range violations {
		v := &violations[i]
		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = file.Result.SourceLine(v.Location.Position.StartLine)
		}
		fmt.Fprint(r.bw, r.styles.FormatViolationWithFormat(path, v, r.opts.ShowContext, sourceLine, r.opts.RuleFormat))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}

	return len(violations)
}

// displayPath makes path relative to workDir when possible.
func displayPath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
