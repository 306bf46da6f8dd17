package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a slash-separated path
// relative to workDir. If workDir is empty or conversion fails, returns the
// original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return filepath.ToSlash(absPath)
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(relPath)
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

// newAnalysisContext creates a new analysis context.
func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

// normalizeSeverity returns the severity, defaulting to warning.
func normalizeSeverity(sev config.Severity) config.Severity {
	if sev == "" {
		return config.SeverityWarning
	}
	return sev
}

// incrementSeverityCounts updates counts based on severity.
func incrementSeverityCounts(severity config.Severity, totals *Totals, fa *FileAnalysis) {
	switch severity {
	case config.SeverityError:
		totals.Errors++
		fa.Errors++
	case config.SeverityWarning:
		totals.Warnings++
		fa.Warnings++
	case config.SeverityInfo:
		totals.Infos++
		fa.Infos++
	}
}

// incrementRuleSeverity updates rule analysis severity counts.
func incrementRuleSeverity(severity config.Severity, ra *RuleAnalysis) {
	switch severity {
	case config.SeverityError:
		ra.Errors++
	case config.SeverityWarning:
		ra.Warnings++
	case config.SeverityInfo:
		ra.Infos++
	}
}

// getOrCreateFileAnalysis returns existing or creates new FileAnalysis.
func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

// getOrCreateRuleAnalysis returns existing or creates new RuleAnalysis.
func (ctx *analysisContext) getOrCreateRuleAnalysis(rule, ruleName string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[rule]; !ok {
		ctx.ruleMap[rule] = &RuleAnalysis{
			Rule:     rule,
			RuleName: ruleName,
		}
		ctx.ruleFiles[rule] = make(map[string]bool)
	}
	return ctx.ruleMap[rule]
}

// createViolationEntry builds a ViolationEntry from a lint violation.
func createViolationEntry(path, rule string, severity config.Severity, v *lint.Violation) ViolationEntry {
	pos := v.Location.Position
	entry := ViolationEntry{
		FilePath:    path,
		Rule:        rule,
		RuleName:    v.RuleName,
		MessageID:   v.MessageID,
		Data:        maps.Clone(v.MessageData),
		Severity:    string(severity),
		Message:     v.Message,
		StartLine:   pos.StartLine,
		StartColumn: pos.StartColumn,
		EndLine:     pos.EndLine,
		EndColumn:   pos.EndColumn,
		StartOffset: v.Location.Range.Start,
		EndOffset:   v.Location.Range.End,
		Fixable:     v.HasFix(),
		Crashed:     v.Crashed,
	}
	for _, edit := range v.Fix {
		entry.Fixes = append(entry.Fixes, FixEntry{
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			NewText:     edit.NewText,
		})
	}
	return entry
}

// buildByRule constructs the ByRule slice from accumulated data.
func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for rule, ra := range ctx.ruleMap {
		ra.Files = slices.Sorted(maps.Keys(ctx.ruleFiles[rule]))
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// buildByFile constructs the ByFile slice from accumulated data.
func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 {
			continue
		}
		fa.Rules = slices.Sorted(maps.Keys(ctx.fileRules[path]))
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through violations to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	report.Totals.Fixed = result.Stats.ViolationsFixed
	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)

		if file.Error != nil {
			report.Totals.FilesErrored++
			report.Errors = append(report.Errors, FileError{FilePath: displayPath, Message: file.Error.Error()})
			continue
		}
		if file.Result == nil {
			continue
		}
		if file.Result.Written {
			report.Totals.FilesModified++
		}
		if file.Result.FixConflict != nil {
			report.Totals.FixConflicts++
		}
		if file.Result.FileResult == nil {
			continue
		}
		if file.Result.HasIssues() {
			report.Totals.FilesWithIssues++
		}

		fa := ctx.getOrCreateFileAnalysis(displayPath)
		fa.Modified = file.Result.Written

		for i := range file.Result.Violations {
			v := &file.Result.Violations[i]
			report.Totals.Issues++
			severity := normalizeSeverity(v.Severity)
			rule := config.FormatRuleName(opts.RuleFormat, v.RuleName)

			incrementSeverityCounts(severity, &report.Totals, fa)
			if v.HasFix() {
				report.Totals.Fixable++
			}
			if v.Crashed {
				report.Totals.Crashes++
			}

			fa.Issues++
			ctx.fileRules[displayPath][rule] = true

			ra := ctx.getOrCreateRuleAnalysis(rule, v.RuleName)
			ra.Issues++
			incrementRuleSeverity(severity, ra)
			if v.HasFix() {
				ra.Fixable = true
			}
			ctx.ruleFiles[rule][displayPath] = true

			if opts.IncludeViolations {
				report.Violations = append(report.Violations, createViolationEntry(displayPath, rule, severity, v))
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

// compareBySeverity orders errors first, then warnings, then issue count.
func compareBySeverity(leftErr, rightErr, leftWarn, rightWarn, leftIssues, rightIssues int) int {
	if c := cmp.Compare(rightErr, leftErr); c != 0 {
		return c
	}
	if c := cmp.Compare(rightWarn, leftWarn); c != 0 {
		return c
	}
	return cmp.Compare(rightIssues, leftIssues)
}

// compareByCount orders by issue count in the requested direction.
func compareByCount(left, right int, desc bool) int {
	if desc {
		return cmp.Compare(right, left)
	}
	return cmp.Compare(left, right)
}

// Alphabetical order breaks every tie, so output never depends on map order.
func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
		case SortBySeverity:
			result = compareBySeverity(left.Errors, right.Errors, left.Warnings, right.Warnings, left.Issues, right.Issues)
		default: // SortByCount
			result = compareByCount(left.Issues, right.Issues, desc)
		}
		if result == 0 {
			result = cmp.Compare(left.Rule, right.Rule)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
		case SortBySeverity:
			result = compareBySeverity(left.Errors, right.Errors, left.Warnings, right.Warnings, left.Issues, right.Issues)
		default: // SortByCount
			result = compareByCount(left.Issues, right.Issues, desc)
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
