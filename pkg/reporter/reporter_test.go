package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/analysis"
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/reporter"
	"github.com/yaklabco/dslint/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSARIF, true},
		{reporter.FormatDiff, true},
		{reporter.FormatTable, true},
		{reporter.FormatSummary, true},
		{reporter.Format("unknown"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "sarif reporter", format: reporter.FormatSARIF},
		{name: "diff reporter", format: reporter.FormatDiff},
		{name: "table reporter", format: reporter.FormatTable},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := reporter.Options{
				Writer: &buf,
				Format: tt.format,
				Color:  "never",
			}

			rep, err := reporter.New(opts)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	result := &runner.Result{
		Files: []runner.FileOutcome{},
		Stats: runner.Stats{
			ViolationsBySeverity: make(map[config.Severity]int),
		},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTextReporter_WithViolations(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		ShowContext: false,
		GroupByFile: true,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "src/Card.tsx")
	assert.Contains(t, output, "src/Card.tsx:1:23")
	assert.Contains(t, output, "no-raw-tailwind-colors")
	assert.Contains(t, output, "no-redundant-i18n-key")
	assert.Contains(t, output, "fixable with --fix")
	assert.Contains(t, output, "2 issues")
}

func TestTextReporter_ShowsSourceContext(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowContext: true,
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `<div className="bg-slate-100" />`)
	assert.Contains(t, buf.String(), "^")
}

func TestTextReporter_FileError(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: "missing.tsx", Error: lint.ErrFileNotFound}},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "missing.tsx: error:")
}

func TestTextReporter_FixConflict(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path: "src/nav.ts",
			Result: &lint.PipelineResult{
				FileResult: &lint.FileResult{},
				FixConflict: &lint.OverlappingFixError{
					FirstRule:  "upper",
					First:      fix.TextEdit{StartOffset: 4, EndOffset: 9},
					SecondRule: "lower",
					Second:     fix.TextEdit{StartOffset: 6, EndOffset: 8},
				},
			},
		}},
	}

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fix skipped")
	assert.Contains(t, buf.String(), "file left unchanged")
}

func TestTextReporter_RelativePaths(t *testing.T) {
	var buf bytes.Buffer
	workDir := t.TempDir()
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		WorkingDir: workDir,
	})

	result := createTestResult()
	result.Files[0].Path = filepath.Join(workDir, "src", "Card.tsx")

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "src/Card.tsx:1:23")
	assert.NotContains(t, buf.String(), workDir)
}

func TestJSONRenderer_NilReport(t *testing.T) {
	var buf bytes.Buffer
	renderer := reporter.NewJSONRenderer(reporter.Options{Writer: &buf})

	require.NoError(t, renderer.Render(context.Background(), nil))

	var output analysis.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, analysis.ReportVersion, output.Version)
	assert.Empty(t, output.Violations)
}

func TestJSONReporter_WithViolations(t *testing.T) {
	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output analysis.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, analysis.ReportVersion, output.Version)
	require.Len(t, output.Violations, 2)
	assert.Equal(t, 2, output.Totals.Issues)
	assert.Equal(t, 1, output.Totals.FilesWithIssues)
	assert.Equal(t, 1, output.Totals.Fixable)

	var redundant *analysis.ViolationEntry
	for i := range output.Violations {
		if output.Violations[i].RuleName == "no-redundant-i18n-key" {
			redundant = &output.Violations[i]
		}
	}
	require.NotNil(t, redundant)
	assert.Equal(t, "redundantKey", redundant.MessageID)
	assert.Equal(t, "labelKey", redundant.Data["key"])
	require.Len(t, redundant.Fixes, 1)
	assert.Equal(t, 45, redundant.Fixes[0].StartOffset)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON, Compact: true})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestJSONReporter_QualifiedRuleNames(t *testing.T) {
	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = reporter.FormatJSON
	opts.RuleFormat = config.RuleFormatQualified

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"rule": "design-system/no-raw-tailwind-colors"`)
	assert.Contains(t, buf.String(), `"ruleName": "no-raw-tailwind-colors"`)
}

func TestDiffReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer: &buf,
		Color:  "never",
	})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestDiffReporter_NoDiffs(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer: &buf,
		Color:  "never",
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDiffReporter_WithDiff(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	original := []byte("export const items = [{ labelKey: \"nav.home\", label: \"Home\" }];\n")
	modified := []byte("export const items = [{ label: \"Home\" }];\n")
	diff := fix.GenerateDiff("src/nav.ts", original, modified)
	require.NotNil(t, diff)

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path:   "src/nav.ts",
			Result: &lint.PipelineResult{FileResult: &lint.FileResult{}, Diff: diff},
		}},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "diff --git a/src/nav.ts b/src/nav.ts")
	assert.Contains(t, output, "+export const items = [{ label: \"Home\" }];")
	assert.Contains(t, output, "1 file changed")
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()

	assert.NotNil(t, opts.Writer)
	assert.NotNil(t, opts.ErrorWriter)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.True(t, opts.GroupByFile)
	assert.False(t, opts.Compact)
	assert.Equal(t, config.RuleFormatName, opts.RuleFormat)
}

func TestSARIFReporter_Output(t *testing.T) {
	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = reporter.FormatSARIF
	opts.ToolVersion = "1.2.3"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Runs, 1)

	run := output.Runs[0]
	assert.Equal(t, "dslint", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, 2)
	require.Len(t, run.Results, 2)

	levels := map[string]string{}
	for _, res := range run.Results {
		levels[res.RuleID] = res.Level
		if res.RuleID == "no-redundant-i18n-key" {
			require.Len(t, res.Fixes, 1)
			replacement := res.Fixes[0].ArtifactChanges[0].Replacements[0]
			require.NotNil(t, replacement.DeletedRegion.ByteOffset)
			assert.Equal(t, 45, *replacement.DeletedRegion.ByteOffset)
			assert.Equal(t, 10, *replacement.DeletedRegion.ByteLength)
			assert.Nil(t, replacement.InsertedContent)
		}
	}
	assert.Equal(t, "error", levels["no-raw-tailwind-colors"])
	assert.Equal(t, "warning", levels["no-redundant-i18n-key"])
}

func TestSARIFReporter_RuleDescriptions(t *testing.T) {
	prev := config.DefaultRuleInfoProvider
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return []config.RuleInfo{{Name: "no-raw-tailwind-colors", Description: "Disallow raw Tailwind palette classes"}}
	}
	t.Cleanup(func() { config.DefaultRuleInfoProvider = prev })

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = reporter.FormatSARIF

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Disallow raw Tailwind palette classes")
}

func TestTextReporter_RuleFormat(t *testing.T) {
	tests := []struct {
		format  config.RuleFormat
		want    string
		notWant string
	}{
		{config.RuleFormatName, "(no-raw-tailwind-colors)", "design-system/"},
		{config.RuleFormatQualified, "(design-system/no-raw-tailwind-colors)", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			opts := reporter.DefaultOptions()
			opts.Writer = &buf
			opts.Color = "never"
			opts.RuleFormat = tt.format
			opts.ShowContext = false
			opts.ShowSummary = false

			_, err := reporter.NewTextReporter(opts).Report(context.Background(), createTestResult())
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, buf.String(), tt.notWant)
			}
		})
	}
}

func TestTableReporter_WithViolations(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, buf.String(), "no-raw-tailwind-colors")
	assert.Contains(t, buf.String(), "Run with --fix")
}

func TestTableReporter_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.ts", Result: &lint.PipelineResult{FileResult: &lint.FileResult{}}}},
		Stats: runner.Stats{FilesProcessed: 1},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "All files passed!")
}

func TestTableReporter_PerFile(t *testing.T) {
	var buf bytes.Buffer
	workDir := t.TempDir()
	rep := reporter.NewTableReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		PerFile:     true,
		WorkingDir:  workDir,
	})

	result := createTestResult()
	result.Files[0].Path = filepath.Join(workDir, "src", "Card.tsx")

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "src/Card.tsx")
	assert.NotContains(t, out, workDir)
	assert.Contains(t, out, "Overall Summary")
	assert.Contains(t, out, "1 errors | 1 warnings | 1 fixable")
}

func TestTableReporter_FixConflictAndReadError(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "src/nav.ts",
				Result: &lint.PipelineResult{
					FileResult: &lint.FileResult{},
					FixConflict: &lint.OverlappingFixError{
						FirstRule:  "upper",
						First:      fix.TextEdit{StartOffset: 4, EndOffset: 9},
						SecondRule: "lower",
						Second:     fix.TextEdit{StartOffset: 6, EndOffset: 8},
					},
				},
			},
			{Path: "src/gone.ts", Error: errors.New("file not found")},
		},
		Stats: runner.Stats{FilesProcessed: 1},
	}

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "file left unchanged")
	assert.Contains(t, buf.String(), "src/gone.ts: error: file not found")
	assert.Contains(t, buf.String(), "All files passed!")
}

const testSource = "export const Card = () => <div className=\"bg-slate-100\" />;\n" +
	"export const items = [{ labelKey: \"nav.home\", label: \"Home\" }];\n"

// createTestResult creates a runner.Result with one error and one fixable warning.
func createTestResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "src/Card.tsx",
				Result: &lint.PipelineResult{
					FileResult: &lint.FileResult{
						Path:    "src/Card.tsx",
						Content: []byte(testSource),
						Violations: []lint.Violation{
							{
								RuleName:    "no-raw-tailwind-colors",
								MessageID:   "rawColor",
								MessageData: map[string]string{"className": "bg-slate-100"},
								Message:     `Raw Tailwind color class "bg-slate-100"; use a semantic token class instead`,
								Severity:    config.SeverityError,
								Location: lint.Location{
									Range:    jsast.Range{Start: 42, End: 54},
									Position: jsast.SourcePosition{StartLine: 1, StartColumn: 23, EndLine: 1, EndColumn: 57},
								},
							},
							{
								RuleName:    "no-redundant-i18n-key",
								MessageID:   "redundantKey",
								MessageData: map[string]string{"key": "labelKey"},
								Message:     "labelKey is redundant next to label; remove the i18n key",
								Severity:    config.SeverityWarning,
								Location: lint.Location{
									Range:    jsast.Range{Start: 45, End: 65},
									Position: jsast.SourcePosition{StartLine: 2, StartColumn: 25, EndLine: 2, EndColumn: 45},
								},
								Fix: []fix.TextEdit{{StartOffset: 45, EndOffset: 55}},
							},
						},
					},
				},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:      1,
			FilesProcessed:       1,
			FilesWithIssues:      1,
			ViolationsTotal:      2,
			ViolationsFixable:    1,
			ViolationsBySeverity: map[config.Severity]int{config.SeverityError: 1, config.SeverityWarning: 1},
		},
	}
}
