package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/jsast"
)

// documentExtensions are the files linted through their code fences.
//
//nolint:gochecknoglobals // Read-only lookup.
var documentExtensions = []string{".md", ".mdx"}

// IsDocumentPath reports whether path is a documentation file whose
// embedded code blocks are linted instead of the file itself.
func IsDocumentPath(path string) bool {
	return slices.Contains(documentExtensions, strings.ToLower(filepath.Ext(path)))
}

// FileResult contains the results of linting a single file.
type FileResult struct {
	// Path is the linted path.
	Path string

	// Content is the linted source.
	Content []byte

	// Snapshot is the parsed file. Nil for documents and unparsable files.
	Snapshot *jsast.FileSnapshot

	// Violations are all findings, sorted by start offset then rule order.
	Violations []Violation

	// RulesRun is the number of rules that applied to the file.
	RulesRun int
}

// HasIssues returns true if any violations were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Violations) > 0
}

// IssueCount returns the total number of violations.
func (fr *FileResult) IssueCount() int {
	return len(fr.Violations)
}

// FixableCount returns the number of violations with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for i := range fr.Violations {
		if fr.Violations[i].HasFix() {
			count++
		}
	}
	return count
}

// CrashCount returns the number of rule-crashed violations.
func (fr *FileResult) CrashCount() int {
	count := 0
	for i := range fr.Violations {
		if fr.Violations[i].Crashed {
			count++
		}
	}
	return count
}

// SourceLine returns the 1-based line of the linted content without its
// line terminator, or "" when out of range.
func (fr *FileResult) SourceLine(line int) string {
	if line < 1 {
		return ""
	}
	rest := fr.Content
	for i := 1; i < line; i++ {
		idx := slices.Index(rest, '\n')
		if idx < 0 {
			return ""
		}
		rest = rest[idx+1:]
	}
	if idx := slices.Index(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSuffix(string(rest), "\r")
}

// Engine coordinates parsing and rule dispatch for linting.
type Engine struct {
	// Parser parses source files into FileSnapshots.
	Parser Parser

	// Documents parses documentation files into code blocks. When nil,
	// documentation files produce no violations.
	Documents DocumentParser

	// Registry holds the configured, frozen rule set.
	Registry *Registry
}

// NewEngine creates a new Engine and freezes the registry.
func NewEngine(parser Parser, documents DocumentParser, registry *Registry) *Engine {
	registry.Freeze()
	return &Engine{
		Parser:    parser,
		Documents: documents,
		Registry:  registry,
	}
}

// LintFile parses and lints a single file.
//
// Syntax errors are not returned as errors: they become a single
// parse-error violation. The error result is reserved for cancellation
// and parser failures unrelated to the content.
func (e *Engine) LintFile(ctx context.Context, path string, content []byte) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("linting cancelled: %w", err)
	}

	logger := logging.FromContext(ctx)
	fc := e.Registry.FileContext(path)
	rules := e.Registry.ActiveRules(fc)

	result := &FileResult{
		Path:     path,
		Content:  content,
		RulesRun: len(rules),
	}
	if len(rules) == 0 {
		logger.Debug("no rules apply", logging.FieldPath, path, "exempt", fc.IsExempt)
		return result, nil
	}

	if IsDocumentPath(path) {
		if err := e.lintDocument(ctx, result, fc, rules); err != nil {
			return nil, err
		}
	} else {
		if err := e.lintSource(ctx, result, fc, rules); err != nil {
			return nil, err
		}
	}

	for i := range result.Violations {
		if v := &result.Violations[i]; v.Crashed {
			logger.Warn("rule crashed", logging.FieldRule, v.RuleName, logging.FieldPath, path, logging.FieldError, v.Message)
		}
	}

	return result, nil
}

func (e *Engine) lintSource(ctx context.Context, result *FileResult, fc FileContext, rules []*Rule) error {
	snapshot, err := e.Parser.Parse(ctx, result.Path, result.Content)
	if err != nil {
		var perr *jsast.ParseError
		if errors.As(err, &perr) {
			result.Violations = []Violation{ParseErrorViolation(perr)}
			return nil
		}
		return fmt.Errorf("parse %s: %w", result.Path, err)
	}

	result.Snapshot = snapshot
	result.Violations = Dispatch(snapshot, fc, rules)
	return nil
}

func (e *Engine) lintDocument(ctx context.Context, result *FileResult, fc FileContext, rules []*Rule) error {
	if e.Documents == nil {
		return nil
	}

	blocks, err := e.Documents.ParseDocument(ctx, result.Path, result.Content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", result.Path, err)
	}

	for _, block := range blocks {
		if block.Err != nil {
			var perr *jsast.ParseError
			if !errors.As(block.Err, &perr) {
				return fmt.Errorf("parse %s: %w", result.Path, block.Err)
			}
			result.Violations = append(result.Violations, ParseErrorViolation(perr))
			continue
		}
		for _, v := range Dispatch(block.Snapshot, fc, rules) {
			result.Violations = append(result.Violations, v.Shifted(block))
		}
	}

	return nil
}
