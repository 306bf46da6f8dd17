package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/internal/cli"
)

const (
	cardSource = `export function Card() {
  return <div className="bg-slate-100 p-4">card</div>;
}
`
	navSource = `export const items = [{ labelKey: "nav.home", label: "Home" }];
`
	emptyConfig = "rules: {}\n"
)

// writeFile writes content under dir and returns the absolute path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes the root command and returns combined output and the
// process exit code the error maps to.
func runCLI(t *testing.T, args ...string) (string, int) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String() + stderr.String(), cli.ExitCode(err)
}

// lintArgs prefixes args with a lint invocation using an explicit config
// and plain output.
func lintArgs(configPath string, args ...string) []string {
	return append([]string{"lint", "--config", configPath, "--color", "never", "--no-context"}, args...)
}

func TestIntegration_RuleFormatFlag(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	tests := []struct {
		name           string
		ruleFormat     string
		wantContains   string
		wantNotContain string
	}{
		{
			name:           "name shows the bare rule name",
			ruleFormat:     "name",
			wantContains:   "no-raw-tailwind-colors",
			wantNotContain: "design-system/no-raw-tailwind-colors",
		},
		{
			name:         "qualified shows the plugin prefix",
			ruleFormat:   "qualified",
			wantContains: "design-system/no-raw-tailwind-colors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output, code := runCLI(t, lintArgs(cfgFile, "--rule-format", tt.ruleFormat, card)...)

			assert.Equal(t, cli.ExitLintErrors, code)
			assert.Contains(t, output, tt.wantContains)
			assert.Contains(t, output, "bg-slate-100")
			if tt.wantNotContain != "" {
				assert.NotContains(t, output, tt.wantNotContain)
			}
		})
	}
}

func TestIntegration_ConfigDisablesRuleByLegacyAlias(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", `
rules:
  design-system/no-raw-colors:
    enabled: false
`)

	output, code := runCLI(t, lintArgs(cfgFile, card)...)

	assert.Equal(t, cli.ExitSuccess, code, output)
	assert.NotContains(t, output, "bg-slate-100")
}

func TestIntegration_DisableFlag(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	_, code := runCLI(t, lintArgs(cfgFile, "--disable", "no-raw-tailwind-colors", card)...)
	assert.Equal(t, cli.ExitSuccess, code)
}

func TestIntegration_JSONOutput(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	output, code := runCLI(t, lintArgs(cfgFile, "--format", "json", card)...)

	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, `"ruleName"`)
	assert.Contains(t, output, `"messageId"`)
	assert.Contains(t, output, `"rawColor"`)
	assert.Contains(t, output, `"summary"`)
}

func TestIntegration_SARIFOutput(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	output, code := runCLI(t, lintArgs(cfgFile, "--format", "sarif", card)...)

	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, "dslint")
	assert.Contains(t, output, "no-raw-tailwind-colors")
}

func TestIntegration_SummaryOutput(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	output, code := runCLI(t, lintArgs(cfgFile, "--format", "summary", card)...)

	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, "Rules Summary")
	assert.Contains(t, output, "no-raw-tailwind-colors")
}

func TestIntegration_Fix(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	nav := writeFile(t, tmpDir, "src/nav.ts", navSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	_, code := runCLI(t, lintArgs(cfgFile, "--fix", "--no-backups", nav)...)
	assert.Equal(t, cli.ExitSuccess, code)

	fixed, err := os.ReadFile(nav)
	require.NoError(t, err)
	assert.Equal(t, "export const items = [{ label: \"Home\" }];\n", string(fixed))

	_, err = os.Stat(nav + ".dslint.bak")
	assert.True(t, os.IsNotExist(err), "no backup expected with --no-backups")
}

func TestIntegration_DryRun(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	nav := writeFile(t, tmpDir, "src/nav.ts", navSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	output, code := runCLI(t, lintArgs(cfgFile, "--dry-run", nav)...)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, output, `+export const items = [{ label: "Home" }];`)
	assert.Contains(t, output, `-export const items = [{ labelKey: "nav.home", label: "Home" }];`)

	unchanged, err := os.ReadFile(nav)
	require.NoError(t, err)
	assert.Equal(t, navSource, string(unchanged))
}

func TestIntegration_StrictWarnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	nav := writeFile(t, tmpDir, "src/nav.ts", navSource)
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	output, code := runCLI(t, lintArgs(cfgFile, nav)...)
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, output, "no-redundant-i18n-key")

	_, code = runCLI(t, lintArgs(cfgFile, "--strict", nav)...)
	assert.Equal(t, cli.ExitLintWarnings, code)
}

func TestIntegration_DocumentationFence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	doc := writeFile(t, tmpDir, "docs/buttons.mdx",
		"# Buttons\n\n```tsx\n<Button className=\"bg-red-500\" />\n```\n")
	cfgFile := writeFile(t, tmpDir, ".dslint.yml", emptyConfig)

	output, code := runCLI(t, lintArgs(cfgFile, doc)...)

	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, "bg-red-500")
}

func TestIntegration_UsageAndConfigErrors(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	validCfg := writeFile(t, tmpDir, "valid.yml", emptyConfig)
	invalidCfg := writeFile(t, tmpDir, "invalid.yml", `
rules:
  no-raw-tailwind-colors:
    severity: loud
`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{
			name: "invalid format",
			args: lintArgs(validCfg, "--format", "xml", card),
			want: cli.ExitInvalidUsage,
		},
		{
			name: "invalid rule format",
			args: lintArgs(validCfg, "--rule-format", "id", card),
			want: cli.ExitInvalidUsage,
		},
		{
			name: "invalid severity in config",
			args: lintArgs(invalidCfg, card),
			want: cli.ExitConfigError,
		},
		{
			name: "missing config file",
			args: lintArgs(filepath.Join(tmpDir, "missing.yml"), card),
			want: cli.ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, code := runCLI(t, tt.args...)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestIntegration_InitPack(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, ".dslint.yml")

	_, code := runCLI(t, "init", "--pack", "strict", "--output", output)
	require.Equal(t, cli.ExitSuccess, code)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "no-redundant-i18n-key")

	_, code = runCLI(t, "init", "--pack", "strict", "--output", output)
	assert.Equal(t, cli.ExitInvalidUsage, code, "existing file without --force")

	_, code = runCLI(t, "init", "--pack", "no-such-pack", "--output", filepath.Join(tmpDir, "other.yml"))
	assert.Equal(t, cli.ExitInvalidUsage, code)

	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	_, code = runCLI(t, lintArgs(output, card)...)
	assert.Equal(t, cli.ExitLintErrors, code, "the generated config lints")
}

func TestIntegration_Migrate(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	input := writeFile(t, tmpDir, ".eslintrc.json", `{
  "rules": {
    "design-system/no-raw-tailwind-colors": "off",
    "design-system/no-redundant-i18n-key": ["error"]
  }
}`)
	output := filepath.Join(tmpDir, ".dslint.yml")

	_, code := runCLI(t, "migrate", input, "--output", output)
	require.Equal(t, cli.ExitSuccess, code)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Migrated from:")
	assert.Contains(t, string(content), "no-redundant-i18n-key")

	card := writeFile(t, tmpDir, "src/Card.tsx", cardSource)
	lintOutput, code := runCLI(t, lintArgs(output, card)...)
	assert.Equal(t, cli.ExitSuccess, code, lintOutput)

	nav := writeFile(t, tmpDir, "src/nav.ts", navSource)
	_, code = runCLI(t, lintArgs(output, nav)...)
	assert.Equal(t, cli.ExitLintErrors, code, "migrated severity promotes the warning")
}
