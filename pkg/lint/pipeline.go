package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/fix"
	"github.com/yaklabco/dslint/pkg/fsutil"
)

// DefaultMaxFixPasses is the maximum number of fix passes to prevent infinite loops.
// A later pass can fix violations uncovered by an earlier pass's edits.
const DefaultMaxFixPasses = 10

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parser failure unrelated to the content.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file through the safety pipeline.
type PipelineResult struct {
	// FileResult contains the violations of the FINAL pass.
	// For multi-pass fixing, this reflects the state after all passes.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the file content was changed.
	Modified bool

	// ModifiedContent is the new content after applying edits (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode (nil if not in dry-run).
	Diff *fix.Diff

	// FixConflict is set when two fixes overlapped. The file is then left
	// exactly as it was read and FileResult holds the first pass.
	FixConflict *OverlappingFixError

	// Skipped is true if the file was skipped (e.g., due to concurrent modification).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of fix passes performed (for multi-pass fixing).
	FixPasses int

	// TotalFixesApplied is the number of violations fixed across all passes.
	TotalFixesApplied int
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.FixConflict != nil {
		return "fix conflict: " + pr.FixConflict.Error()
	}
	if pr.Written {
		if pr.BackupCreated {
			return "fixed (backup created)"
		}
		return "fixed"
	}
	if pr.Modified {
		return "changes pending"
	}
	if pr.FileResult != nil && pr.HasIssues() {
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls safety pipeline behavior.
type PipelineOptions struct {
	// Fix enables auto-fix mode.
	Fix bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// ReParseAfterFix re-lints the fixed content and rejects the fix when
	// it no longer parses.
	ReParseAfterFix bool

	// MaxFixPasses limits the number of fix iterations to prevent infinite loops.
	// Set to 0 to use DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Fix:                 false,
		DryRun:              false,
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		ReParseAfterFix:     true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine is the lint engine used for parsing and rule dispatch.
	Engine *Engine
}

// writeAtomic is replaced in tests to fail the final write.
var writeAtomic = fsutil.WriteAtomic

// NewPipeline creates a new safety pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full safety pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Lint and fix the content in memory (see ProcessContent).
//  3. Generate diff (if dry-run mode).
//  4. Check for concurrent modifications.
//  5. Create backup (if enabled).
//  6. Write the modified content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	opts PipelineOptions,
) (*PipelineResult, error) {
	// Step 1: Read and hash the original file.
	originalContent, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	// Step 2: Lint and fix in memory. The diff is produced below.
	contentOpts := opts
	contentOpts.DryRun = false
	result, err := p.ProcessContent(ctx, path, originalContent, contentOpts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified {
		return result, nil
	}

	// Step 3: Handle dry-run mode.
	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, originalContent, result.ModifiedContent)
		return result, nil
	}

	// Step 4: Check for concurrent modifications before writing.
	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	// Step 5: Back up the content that was linted.
	backupPath, err := fsutil.CreateBackup(ctx, info, originalContent, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	result.BackupCreated = backupPath != ""

	// Step 6: Write the modified content atomically. A backup taken for
	// this write is removed again when the write fails.
	if err := writeAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		if rmErr := fsutil.RemoveBackup(backupPath); rmErr != nil {
			logging.FromContext(ctx).Warn("remove backup",
				logging.FieldPath, backupPath,
				logging.FieldError, rmErr,
			)
		}
		result.BackupCreated = false
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("file fixed",
		logging.FieldPath, path,
		logging.FieldFixPasses, result.FixPasses,
	)

	return result, nil
}

// ProcessContent processes in-memory content without file I/O.
//
// In fix mode it runs a multi-pass loop: lint, apply the fixes of rules
// with auto-fix enabled, and repeat on the new content until no fix is
// left or MaxFixPasses is reached. When any pass produces overlapping
// fixes, every pass is discarded and the original content is kept.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	originalContent []byte,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{
		Path: path,
	}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := originalContent
	var fileResult, firstResult *FileResult
	stale := false

	for range maxPasses {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		default:
		}

		var lintErr error
		fileResult, lintErr = p.Engine.LintFile(ctx, path, content)
		if lintErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, lintErr)
		}
		stale = false
		if firstResult == nil {
			firstResult = fileResult
		}

		if !opts.Fix {
			break
		}

		selected := p.autoFixable(fileResult.Violations)
		if len(selected) == 0 {
			break
		}

		fixed, err := ApplyFixes(content, selected)
		if err != nil {
			var overlap *OverlappingFixError
			if !errors.As(err, &overlap) {
				return nil, fmt.Errorf("apply fixes: %w", err)
			}
			result.FixConflict = overlap
			result.FileResult = firstResult
			result.FixPasses = 0
			result.TotalFixesApplied = 0
			logging.FromContext(ctx).Warn("overlapping fixes, file left unchanged",
				logging.FieldPath, path, logging.FieldError, overlap)
			return result, nil
		}

		content = fixed.FixedText
		result.FixPasses++
		result.TotalFixesApplied += fixed.AppliedCount
		result.Modified = true
		stale = true
	}

	// The pass limit was hit right after a fix; report on the final content.
	if stale {
		var lintErr error
		fileResult, lintErr = p.Engine.LintFile(ctx, path, content)
		if lintErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, lintErr)
		}
	}

	result.FileResult = fileResult

	if !result.Modified {
		return result, nil
	}
	result.ModifiedContent = content

	// Reject fixes that broke the syntax.
	if opts.ReParseAfterFix && hasParseError(fileResult) && !hasParseError(firstResult) {
		result.Skipped = true
		result.SkipReason = "fixed content no longer parses"
		result.Modified = false
		result.ModifiedContent = nil
		result.FileResult = firstResult
		return result, nil
	}

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, originalContent, content)
	}

	return result, nil
}

// autoFixable returns the violations whose rule has auto-fix enabled.
func (p *Pipeline) autoFixable(violations []Violation) []Violation {
	var out []Violation
	for i := range violations {
		v := &violations[i]
		if !v.HasFix() {
			continue
		}
		rule, ok := p.Engine.Registry.Get(v.RuleName)
		if !ok || !rule.AutoFix() {
			continue
		}
		out = append(out, *v)
	}
	return out
}

func hasParseError(fr *FileResult) bool {
	if fr == nil {
		return false
	}
	for i := range fr.Violations {
		if fr.Violations[i].RuleName == ParseErrorRule {
			return true
		}
	}
	return false
}

// checkModified reports whether path changed since it was read. Strict
// detection also compares content hashes.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	modified, err := info.Changed(ctx, strict)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.IsEnabled() && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		Fix:                 cfg.Fix,
		DryRun:              cfg.DryRun,
		Backup:              BackupConfigFromConfig(cfg),
		StrictRaceDetection: true,
		ReParseAfterFix:     true,
	}
}
