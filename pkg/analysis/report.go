package analysis

import "time"

// Report contains pre-computed views of lint results.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Violations is the flat list for detailed output.
	Violations []ViolationEntry `json:"violations,omitempty"`

	// ByFile groups violations by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups violations by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// Errors lists files that could not be processed.
	Errors []FileError `json:"errors,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// ViolationEntry represents a single violation in the report.
type ViolationEntry struct {
	FilePath    string            `json:"filePath"`
	Rule        string            `json:"rule"`
	RuleName    string            `json:"ruleName"`
	MessageID   string            `json:"messageId"`
	Data        map[string]string `json:"data,omitempty"`
	Severity    string            `json:"severity"`
	Message     string            `json:"message"`
	StartLine   int               `json:"startLine"`
	StartColumn int               `json:"startColumn"`
	EndLine     int               `json:"endLine"`
	EndColumn   int               `json:"endColumn"`
	StartOffset int               `json:"startOffset"`
	EndOffset   int               `json:"endOffset"`
	Fixable     bool              `json:"fixable"`
	Fixes       []FixEntry        `json:"fixes,omitempty"`
	Crashed     bool              `json:"crashed,omitempty"`
}

// FixEntry represents a text edit fix.
type FixEntry struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// FileError records a file that failed before linting.
type FileError struct {
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesModified   int `json:"filesModified"`
	FilesErrored    int `json:"filesErrored"`
	Issues          int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
	Fixable         int `json:"fixable"`
	Fixed           int `json:"fixed"`
	Crashes         int `json:"crashes"`
	FixConflicts    int `json:"fixConflicts"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Modified bool     `json:"modified,omitempty"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	Rule     string   `json:"rule"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}
