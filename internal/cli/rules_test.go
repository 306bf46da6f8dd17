package cli

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/lint"
)

func TestRulesCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := newRulesCommand()
	for _, name := range []string{"rule-format", "format", "tag"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected flag %q", name)
	}
}

func TestRunRules_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runRules(&out, lint.DefaultCatalog, &rulesFlags{format: "json", ruleFormat: "name"})
	require.NoError(t, err)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, 5)

	byName := make(map[string]ruleInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	redundant, ok := byName["no-redundant-i18n-key"]
	require.True(t, ok)
	assert.True(t, redundant.Fixable)
	assert.Equal(t, "design-system/no-redundant-i18n-key", redundant.QualifiedName)
	assert.Equal(t, []string{"ObjectExpression"}, redundant.NodeTypes)
	assert.Contains(t, redundant.Options, "keyPairs")
	assert.Contains(t, redundant.Options, lint.OptionAllowedFiles)

	colors, ok := byName["no-raw-tailwind-colors"]
	require.True(t, ok)
	assert.Equal(t, "error", colors.Severity)
	assert.Contains(t, colors.Aliases, "design-system/no-raw-colors")
	assert.NotEmpty(t, colors.AppliesTo)
}

func TestRunRules_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ruleFormat string
		want       string
	}{
		{ruleFormat: "name", want: "no-hardcoded-api-paths"},
		{ruleFormat: "qualified", want: "design-system/no-hardcoded-api-paths"},
	}

	for _, tt := range tests {
		t.Run(tt.ruleFormat, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			err := runRules(&out, lint.DefaultCatalog, &rulesFlags{format: "text", ruleFormat: tt.ruleFormat})
			require.NoError(t, err)

			assert.Contains(t, out.String(), "available rules")
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRunRules_TagFilter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runRules(&out, lint.DefaultCatalog, &rulesFlags{format: "json", tag: "i18n"})
	require.NoError(t, err)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"no-i18n-keys-in-stories", "no-redundant-i18n-key"}, names)
}

func TestRunRules_Errors(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runRules(&out, lint.DefaultCatalog, &rulesFlags{format: "xml"})
	require.Error(t, err)
	assert.Equal(t, ExitInvalidUsage, ExitCode(err))

	err = runRules(&out, lint.DefaultCatalog, &rulesFlags{format: "text", tag: "no-such-tag"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tag")
}

func TestRunRules_EmptyCatalog(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runRules(&out, lint.NewCatalog(), &rulesFlags{format: "text"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no rules registered")
}
