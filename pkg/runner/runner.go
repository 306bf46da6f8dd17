package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// A file that fails to process is recorded in its FileOutcome and does not
// stop the run; only cancellation does.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts)
}

// RunFiles processes an already discovered file list. Watch mode uses it to
// re-lint only the files that changed.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	logger := logging.FromContext(ctx)
	logger.Debug("linting files", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	// Each worker writes only its own slot, so outcomes keep discovery order.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			outcome := FileOutcome{Path: path}
			pr, err := r.Pipeline.ProcessFile(groupCtx, path, pipelineOpts)
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				logger.Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
				outcome.Error = err
			} else {
				outcome.Result = pr
			}

			outcomes[i] = outcome
			done[i] = true
			return nil
		})
	}

	waitErr := group.Wait()

	for i := range outcomes {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}

	return result, nil
}
