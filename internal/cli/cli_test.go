package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "dslint", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"lint", "rules", "init", "migrate", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if !assert.NoError(t, err, "subcommand %q", name) {
			continue
		}
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestLintCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	lintCmd, _, err := cmd.Find([]string{"lint"})
	require.NoError(t, err)

	expectedFlags := []string{
		"fix",
		"dry-run",
		"strict",
		"watch",
		"format",
		"jobs",
		"ignore",
		"exempt-dir",
		"enable",
		"disable",
		"fix-rules",
		"no-backups",
		"rule-format",
	}

	for _, flagName := range expectedFlags {
		assert.NotNil(t, lintCmd.Flags().Lookup(flagName), "expected flag %q on lint command", flagName)
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flagName), "expected global flag %q", flagName)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestLintCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	lintCmd, _, err := cmd.Find([]string{"lint"})
	require.NoError(t, err)

	assert.NoError(t, lintCmd.Args(lintCmd, []string{"src/Card.tsx", "docs/guide.mdx", "src/"}))
}

func TestRootHelpListsRules(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "Rules:")
	assert.Contains(t, help, "no-raw-tailwind-colors")
	assert.Contains(t, help, "no-redundant-i18n-key")
	assert.Contains(t, help, "(fixable)")
}

func TestLintHelpListsExitCodes(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"lint", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "Exit Codes:")
	assert.Contains(t, help, "rule crashes or fix conflicts with --strict")
	assert.NotContains(t, help, "Rules:")
}
