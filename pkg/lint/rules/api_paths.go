package rules

import (
	"strings"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
)

// HardcodedAPIPathsName is the name of the hardcoded API paths rule.
const HardcodedAPIPathsName = "no-hardcoded-api-paths"

const (
	optionAPIDirectories = "apiDirectories"
	apiPathPrefix        = "/api/"
)

// NewHardcodedAPIPathsRule creates the no-hardcoded-api-paths rule.
// Literals whose text starts with "/api/" are reported unless the file lives
// in one of the API client directories.
func NewHardcodedAPIPathsRule() *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:        HardcodedAPIPathsName,
		Description: "API endpoints must be reached through the API client layer",
		AppliesTo:   lint.Not(lint.TestFiles()),
		Messages: map[string]string{
			"hardcodedPath": `Hardcoded API path "{{path}}"; use the API client instead`,
		},
		DefaultSeverity: config.SeverityError,
		Options: []lint.OptionSpec{
			{
				Name:        lint.OptionAllowedPatterns,
				Kind:        lint.OptionRegexList,
				Description: "Regular expressions for API paths that are allowed.",
			},
			{
				Name:        optionAPIDirectories,
				Kind:        lint.OptionStringList,
				Default:     []string{"services/api", "lib/api", "api/client"},
				Description: "Directories holding the API client; paths are allowed there.",
			},
		},
		Tags: []string{"architecture", "api"},
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindStringLiteral:   checkAPIPath,
			jsast.KindTemplateLiteral: checkAPIPath,
		},
	}
}

func checkAPIPath(ctx *lint.HandlerContext, node *jsast.Node) error {
	if isModuleSource(node) {
		return nil
	}

	value, _ := literalValue(node)
	if !strings.HasPrefix(value, apiPathPrefix) {
		return nil
	}

	opts := ctx.Options()
	for _, dir := range opts.StringList(optionAPIDirectories) {
		if lint.UnderDirectory(dir).Match(ctx.FileContext) {
			return nil
		}
	}
	if opts.MatchesAny(lint.OptionAllowedPatterns, value) {
		return nil
	}

	ctx.Report("hardcodedPath", map[string]string{"path": value}, nil)
	return nil
}
