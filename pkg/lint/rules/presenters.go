package rules

import (
	"strings"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/jsast"
	"github.com/yaklabco/dslint/pkg/lint"
)

// DataFetchingInPresentersName is the name of the presenter data fetching rule.
const DataFetchingInPresentersName = "no-data-fetching-in-presenters"

const (
	optionForbiddenModules = "forbiddenModules"
	optionForbiddenCalls   = "forbiddenCalls"
)

// presenterDirectory holds the shared presentational components.
const presenterDirectory = "shared/components"

// NewDataFetchingInPresentersRule creates the no-data-fetching-in-presenters
// rule. Presenter components receive data through props; importing a data
// fetching module or calling a fetching hook inside one is reported.
func NewDataFetchingInPresentersRule() *lint.RuleDefinition {
	return &lint.RuleDefinition{
		Name:        DataFetchingInPresentersName,
		Description: "Presenter components must not fetch data",
		AppliesTo: lint.All(
			lint.UnderDirectory(presenterDirectory),
			lint.ExcludingSuffixes(
				".test.ts", ".test.tsx", ".spec.ts", ".spec.tsx",
				".stories.ts", ".stories.tsx", ".stories.mdx",
			),
			lint.Not(lint.TestFiles()),
		),
		Messages: map[string]string{
			"forbiddenImport": `Presenter components must not import "{{module}}"; fetch in a container and pass data via props`,
			"forbiddenCall":   `Presenter components must not call {{callee}}(); fetch in a container and pass data via props`,
		},
		DefaultSeverity: config.SeverityError,
		Options: []lint.OptionSpec{
			{
				Name: optionForbiddenModules,
				Kind: lint.OptionStringList,
				Default: []string{
					"@tanstack/react-query",
					"react-query",
					"axios",
					"swr",
					"@/services/api",
					"@/lib/api",
				},
				Description: "Modules (and their subpaths) presenters may not import.",
			},
			{
				Name: optionForbiddenCalls,
				Kind: lint.OptionStringList,
				Default: []string{
					"fetch",
					"useQuery",
					"useQueries",
					"useInfiniteQuery",
					"useSuspenseQuery",
					"useMutation",
					"useSWR",
					"useSWRInfinite",
					"useSWRMutation",
					"axios",
					"axios.get",
					"axios.post",
					"axios.put",
					"axios.patch",
					"axios.delete",
					"axios.request",
				},
				Description: "Functions presenters may not call.",
			},
		},
		Tags: []string{"architecture", "components"},
		Visitors: map[jsast.Kind]lint.Handler{
			jsast.KindImportDeclaration: checkPresenterImport,
			jsast.KindCallExpression:    checkPresenterCall,
		},
	}
}

func checkPresenterImport(ctx *lint.HandlerContext, node *jsast.Node) error {
	source, ok := jsast.StringValue(node.ChildByField("source"))
	if !ok {
		return nil
	}
	if isForbiddenModule(source, ctx.Options().StringList(optionForbiddenModules)) {
		ctx.Report("forbiddenImport", map[string]string{"module": source}, nil)
	}
	return nil
}

func checkPresenterCall(ctx *lint.HandlerContext, node *jsast.Node) error {
	opts := ctx.Options()

	// Dynamic import() and require() load modules like an import declaration.
	if isModuleLoad(node) {
		if source, ok := firstStringArgument(node); ok &&
			isForbiddenModule(source, opts.StringList(optionForbiddenModules)) {
			ctx.Report("forbiddenImport", map[string]string{"module": source}, nil)
		}
		return nil
	}

	callee := strings.TrimPrefix(strings.TrimPrefix(jsast.Callee(node), "window."), "globalThis.")
	if callee == "" {
		return nil
	}
	for _, forbidden := range opts.StringList(optionForbiddenCalls) {
		if callee == forbidden {
			ctx.Report("forbiddenCall", map[string]string{"callee": callee}, nil)
			return nil
		}
	}
	return nil
}

// isForbiddenModule matches a module specifier exactly or as a subpath.
func isForbiddenModule(source string, forbidden []string) bool {
	for _, mod := range forbidden {
		if source == mod || strings.HasPrefix(source, mod+"/") {
			return true
		}
	}
	return false
}

func isModuleLoad(call *jsast.Node) bool {
	target := call.ChildByField("function")
	if target == nil {
		return false
	}
	return target.Type == "import" || jsast.Callee(call) == "require"
}

func firstStringArgument(call *jsast.Node) (string, bool) {
	args := call.ChildByField("arguments")
	if args == nil || args.FirstChild == nil {
		return "", false
	}
	return jsast.StringValue(args.FirstChild)
}
