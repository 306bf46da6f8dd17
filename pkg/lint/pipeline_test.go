package lint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/fsutil"
	"github.com/yaklabco/dslint/pkg/lint"
)

func fixOptions() lint.PipelineOptions {
	opts := lint.DefaultPipelineOptions()
	opts.Fix = true
	opts.Backup = fsutil.BackupConfig{Enabled: false}
	return opts
}

func TestPipeline_FixIdempotence(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))
	src := `const item = { labelKey: "sidebar.items.dashboard", label: "Dashboard" };` + "\n"

	result, err := pipeline.ProcessContent(context.Background(), "src/nav.ts", []byte(src), fixOptions())
	require.NoError(t, err)

	require.True(t, result.Modified)
	assert.Equal(t, `const item = { label: "Dashboard" };`+"\n", string(result.ModifiedContent))
	assert.Equal(t, 1, result.FixPasses)
	assert.Equal(t, 1, result.TotalFixesApplied)
	assert.False(t, result.HasIssues(), "final pass reports the fixed content")

	again, err := pipeline.ProcessContent(context.Background(), "src/nav.ts", result.ModifiedContent, fixOptions())
	require.NoError(t, err)
	assert.False(t, again.Modified)
	assert.Nil(t, again.ModifiedContent)
}

func TestPipeline_ReportOnly(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))
	src := []byte(`const o = { labelKey: "x" };`)

	result, err := pipeline.ProcessContent(context.Background(), "a.ts", src, lint.DefaultPipelineOptions())
	require.NoError(t, err)
	assert.False(t, result.Modified)
	assert.Equal(t, 1, result.IssueCount())
	assert.Equal(t, "issues found", result.Summary())
}

func TestPipeline_OverlapLeavesSourceUnchanged(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(t,
		lint.MustNewRule(replaceStringDef("upper", `"A"`), nil),
		lint.MustNewRule(replaceStringDef("lower", `"a"`), nil),
	))
	src := []byte(`const s = "x";`)

	result, err := pipeline.ProcessContent(context.Background(), "a.ts", src, fixOptions())
	require.NoError(t, err)

	require.NotNil(t, result.FixConflict)
	assert.ElementsMatch(t, []string{"upper", "lower"},
		[]string{result.FixConflict.FirstRule, result.FixConflict.SecondRule})
	assert.False(t, result.Modified)
	assert.Nil(t, result.ModifiedContent)
	assert.Zero(t, result.FixPasses)
	assert.Len(t, result.Violations, 2)
	assert.Contains(t, result.Summary(), "fix conflict")
	assert.Equal(t, `const s = "x";`, string(src))
}

func TestPipeline_AutoFixDisabled(t *testing.T) {
	t.Parallel()

	rule := lint.MustNewRule(redundantKeyDef(), nil).WithAutoFix(false)
	pipeline := lint.NewPipeline(newEngine(t, rule))

	result, err := pipeline.ProcessContent(context.Background(), "a.ts",
		[]byte(`const o = { labelKey: "x", label: "y" };`), fixOptions())
	require.NoError(t, err)
	assert.False(t, result.Modified)
	require.Len(t, result.Violations, 1)
	assert.True(t, result.Violations[0].HasFix(), "violations keep their fix for reporting")
}

func TestPipeline_DryRunDiff(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))
	opts := fixOptions()
	opts.DryRun = true

	result, err := pipeline.ProcessContent(context.Background(), "a.ts",
		[]byte("const o = {\n  labelKey: \"x\",\n  label: \"y\",\n};\n"), opts)
	require.NoError(t, err)

	require.NotNil(t, result.Diff)
	assert.True(t, result.Diff.HasChanges())
	assert.Equal(t, 1, result.Diff.Deletions)
	assert.Zero(t, result.Diff.Additions)
	assert.Contains(t, result.Diff.String(), `-  labelKey: "x",`)
}

func TestPipeline_RejectsFixThatBreaksSyntax(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(replaceStringDef("breaker", "("), nil)))

	result, err := pipeline.ProcessContent(context.Background(), "a.ts", []byte(`const s = "x";`), fixOptions())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.False(t, result.Modified)
	assert.Nil(t, result.ModifiedContent)
	assert.Equal(t, "breaker", result.Violations[0].RuleName)
}

func TestPipeline_ProcessFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nav.ts")
	require.NoError(t, os.WriteFile(path, []byte(`const o = { label: "y", labelKey: "x" };`), 0o644))

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))

	result, err := pipeline.ProcessFile(context.Background(), path, fixOptions())
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Equal(t, "fixed", result.Summary())
	require.NotNil(t, result.OriginalInfo)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `const o = { label: "y" };`, string(got))
}

func TestPipeline_ProcessFileBackup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nav.ts")
	original := []byte(`const o = { label: "y", labelKey: "x" };`)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))
	opts := fixOptions()
	opts.Backup = fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	result, err := pipeline.ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.True(t, result.BackupCreated)
	assert.Equal(t, "fixed (backup created)", result.Summary())

	backup, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, backup)
}

func TestPipeline_ProcessFileWriteFailureRemovesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nav.ts")
	original := []byte(`const o = { label: "y", labelKey: "x" };`)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	lint.SetWriteAtomic(t, func(context.Context, string, []byte, os.FileMode) error {
		return errors.New("disk full")
	})

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))
	opts := fixOptions()
	opts.Backup = fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	_, err := pipeline.ProcessFile(context.Background(), path, opts)
	require.ErrorIs(t, err, lint.ErrWriteFailure)

	_, err = os.Stat(path + fsutil.BackupSuffix)
	assert.True(t, os.IsNotExist(err), "backup of a failed write is removed")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestPipeline_ProcessFileDryRunDoesNotWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nav.ts")
	original := []byte(`const o = { labelKey: "x", label: "y" };`)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))
	opts := fixOptions()
	opts.DryRun = true

	result, err := pipeline.ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, result.Written)
	require.NotNil(t, result.Diff)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestPipeline_ProcessFileMissing(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(t, lint.MustNewRule(redundantKeyDef(), nil)))

	_, err := pipeline.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.ts"), fixOptions())
	require.ErrorIs(t, err, lint.ErrFileNotFound)
	assert.True(t, lint.IsPipelineError(err))
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.NoBackups = true

	opts := lint.PipelineOptionsFromConfig(cfg)
	assert.True(t, opts.Fix)
	assert.False(t, opts.Backup.Enabled)
	assert.True(t, opts.ReParseAfterFix)

	assert.Equal(t, lint.DefaultPipelineOptions(), lint.PipelineOptionsFromConfig(nil))
}
