package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/dslint/internal/configloader"
	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
	_ "github.com/yaklabco/dslint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/dslint/pkg/parser/mdx"
	"github.com/yaklabco/dslint/pkg/parser/treesitter"
	"github.com/yaklabco/dslint/pkg/reporter"
	"github.com/yaklabco/dslint/pkg/runner"
)

type lintFlags struct {
	format       string
	ignore       []string
	exempt       []string
	enable       []string
	disable      []string
	fixRules     []string
	noContext    bool
	compact      bool
	perFile      bool
	watch        bool
	ruleFormat   string
	summaryOrder string
}

func newLintCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint JavaScript, TypeScript and MDX files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags, info)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint source and documentation files for design-system violations.

By default, lints all .ts, .tsx, .js, .jsx, .md and .mdx files in the current
directory and subdirectories, skipping node_modules, dist, build, coverage and
storybook-static. Specify paths to lint specific files or directories.

Examples:
  dslint lint                       # Lint current directory
  dslint lint src/                  # Lint src directory
  dslint lint src/Card.tsx          # Lint single file
  dslint lint --fix                 # Lint and auto-fix issues
  dslint lint --fix --dry-run       # Show fixes as a diff without applying
  dslint lint --format sarif        # Output SARIF for code scanning
  dslint lint --strict              # Fail on warnings, crashes and fix conflicts
  dslint lint --watch src/          # Re-lint files as they change`

// lintSession holds everything a lint run needs after configuration has
// been resolved. Watch mode reuses one session across runs.
type lintSession struct {
	config   *config.Config
	runner   *runner.Runner
	reporter reporter.Reporter
	opts     runner.Options
	logger   *log.Logger
}

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags, info BuildInfo) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := newLintSession(ctx, cmd, args, cfg, flags, info)
	if err != nil {
		return err
	}
	ctx = logging.WithLogger(ctx, session.logger)

	if flags.watch {
		return runWatch(ctx, session)
	}

	result, err := session.run(ctx, nil)
	if err != nil {
		return err
	}

	if code := ExitCodeFromResult(result, session.config.Strict); code != ExitSuccess {
		return withExitCode(code, ErrLintIssuesFound)
	}

	return nil
}

func validateLintFlags(flags *lintFlags) error {
	if format := config.OutputFormat(flags.format); !format.IsValid() {
		return fmt.Errorf("invalid format %q; must be one of: text, table, json, sarif, diff, summary", flags.format)
	}
	switch config.RuleFormat(flags.ruleFormat) {
	case config.RuleFormatName, config.RuleFormatQualified:
	default:
		return fmt.Errorf("invalid rule format %q; must be one of: name, qualified", flags.ruleFormat)
	}
	return nil
}

// applyLintFlags copies explicitly set flags onto the CLI config layer.
func applyLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("exempt-dir") {
		cfg.ExemptDirectories = flags.exempt
	}
	if changed("enable") {
		cfg.EnableRules = flags.enable
	}
	if changed("disable") {
		cfg.DisableRules = flags.disable
	}
	if changed("fix-rules") {
		cfg.FixRules = flags.fixRules
	}
}

func newLintSession(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	cfg *config.Config,
	flags *lintFlags,
	info BuildInfo,
) (*lintSession, error) {
	logger := logging.Default()
	if err := validateLintFlags(flags); err != nil {
		return nil, withExitCode(ExitInvalidUsage, err)
	}
	applyLintFlags(cmd, cfg, flags)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, withExitCode(ExitInvalidUsage, fmt.Errorf("get config flag: %w", err))
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	finalCfg := loadResult.Config
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	// A dry run computes fixes without writing them.
	if finalCfg.DryRun {
		finalCfg.Fix = true
	}

	logger.Debug("lint configuration",
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldStrict, finalCfg.Strict,
		logging.FieldJobs, finalCfg.Jobs,
	)

	registry, err := lint.ResolveRules(lint.DefaultCatalog, finalCfg)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("resolve rules: %w", err))
	}
	logger.Debug("rules resolved", logging.FieldRules, registry.Names())

	engine := lint.NewEngine(treesitter.New(), mdx.New(), registry)
	lintRunner := runner.New(lint.NewPipeline(engine))

	rep, err := newReporter(cmd, finalCfg, flags, info, workDir)
	if err != nil {
		return nil, withExitCode(ExitInvalidUsage, err)
	}

	return &lintSession{
		config:   finalCfg,
		runner:   lintRunner,
		reporter: rep,
		logger:   logger,
		opts: runner.Options{
			Paths:        args,
			WorkingDir:   workDir,
			Extensions:   runner.DefaultExtensions(),
			ExcludeGlobs: finalCfg.Ignore,
			Jobs:         finalCfg.Jobs,
			Config:       finalCfg,
		},
	}, nil
}

// newReporter builds the reporter for the resolved output format. A dry run
// without an explicit format prints diffs.
func newReporter(
	cmd *cobra.Command,
	cfg *config.Config,
	flags *lintFlags,
	info BuildInfo,
	workDir string,
) (reporter.Reporter, error) {
	formatName := string(cfg.Format)
	if cfg.DryRun && !cmd.Flags().Changed("format") && cfg.Format == config.FormatText {
		formatName = string(config.FormatDiff)
	}

	format, err := reporter.ParseFormat(formatName)
	if err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	summaryOrder := config.SummaryOrder(flags.summaryOrder)
	if !summaryOrder.IsValid() {
		return nil, fmt.Errorf("invalid summary order %q; must be one of: rules, files", flags.summaryOrder)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowSummary:  true,
		GroupByFile:  true,
		Compact:      flags.compact,
		PerFile:      flags.perFile,
		RuleFormat:   cfg.RuleFormat,
		SummaryOrder: summaryOrder,
		ToolVersion:  info.Version,
		WorkingDir:   workDir,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}

// run lints files (or every discovered file when files is nil) and reports
// the result.
func (s *lintSession) run(ctx context.Context, files []string) (*runner.Result, error) {
	s.logger.Debug("starting lint run",
		logging.FieldPaths, s.opts.Paths,
		logging.FieldWorkingDir, s.opts.WorkingDir,
		logging.FieldJobs, s.opts.Jobs,
	)

	var (
		result *runner.Result
		err    error
	)
	if files == nil {
		result, err = s.runner.Run(ctx, s.opts)
	} else {
		result, err = s.runner.RunFiles(ctx, files, s.opts)
	}
	if err != nil {
		return nil, withExitCode(ExitIOError, errors.Join(errors.New("lint run failed"), err))
	}

	s.logger.Debug("lint run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldViolationsTotal, result.Stats.ViolationsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	if _, err := s.reporter.Report(ctx, result); err != nil {
		return nil, withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	return result, nil
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix issues")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes as a diff without applying them")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false,
		"fail on warnings, rule crashes and fix conflicts")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.exempt, "exempt-dir", nil,
		"directory names no rule runs on (replaces the built-in list)")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule names to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rule names")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-lint files when they change")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.perFile, "per-file", false, "output separate report for each file (table format)")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name or qualified")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "rules",
		"order of tables in summary output: rules, files")
}
