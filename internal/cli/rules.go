package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yaklabco/dslint/internal/configloader"
	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	tag        string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualifiedName"`
	Description   string   `json:"description"`
	Severity      string   `json:"severity"`
	Fixable       bool     `json:"fixable"`
	AppliesTo     string   `json:"appliesTo"`
	NodeTypes     []string `json:"nodeTypes"`
	Options       []string `json:"options,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Aliases       []string `json:"aliases,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their descriptions, default
severity, the files they apply to, and whether they support auto-fixing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd.OutOrStdout(), lint.DefaultCatalog, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name or qualified")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules carrying this tag")

	return cmd
}

func runRules(out io.Writer, catalog *lint.Catalog, flags *rulesFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	defs := catalog.Definitions()
	if flags.tag != "" {
		if !configloader.IsTag(catalog, flags.tag) {
			return withExitCode(ExitInvalidUsage, fmt.Errorf("unknown tag %q", flags.tag))
		}
		defs = slices.DeleteFunc(defs, func(def *lint.RuleDefinition) bool {
			return !slices.Contains(def.Tags, flags.tag)
		})
	}

	infos := make([]ruleInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, describeRule(catalog, def))
	}

	if flags.format == formatJSON {
		return outputRulesJSON(out, infos)
	}

	logger := logging.NewWithWriter(out, "info")
	if len(infos) == 0 {
		logger.Info("no rules registered")
		return nil
	}

	logger.Info("available rules")

	ruleFormat := config.RuleFormat(flags.ruleFormat)
	for _, info := range infos {
		fixable := "-"
		if info.Fixable {
			fixable = "yes"
		}

		logger.Info(config.FormatRuleName(ruleFormat, info.Name),
			logging.FieldSeverity, info.Severity,
			logging.FieldFixable, fixable,
			"applies_to", info.AppliesTo,
			logging.FieldDescription, info.Description,
		)
	}

	return nil
}

func describeRule(catalog *lint.Catalog, def *lint.RuleDefinition) ruleInfo {
	kinds := def.NodeKinds()
	nodeTypes := make([]string, len(kinds))
	for i, kind := range kinds {
		nodeTypes[i] = kind.String()
	}

	options := make([]string, 0, len(def.Options)+2)
	options = append(options, lint.OptionAllowedFiles, lint.OptionSeverity)
	for _, opt := range def.Options {
		options = append(options, opt.Name)
	}

	return ruleInfo{
		Name:          def.Name,
		QualifiedName: config.FormatRuleName(config.RuleFormatQualified, def.Name),
		Description:   def.Description,
		Severity:      string(def.DefaultSeverity),
		Fixable:       def.Fixable,
		AppliesTo:     lint.DescribePredicate(def.AppliesTo),
		NodeTypes:     nodeTypes,
		Options:       options,
		Tags:          def.Tags,
		Aliases:       configloader.AliasesForRule(catalog, def.Name),
	}
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(out io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
