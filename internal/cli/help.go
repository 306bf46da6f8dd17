package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/dslint/internal/ui/pretty"
	"github.com/yaklabco/dslint/pkg/lint"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Rule        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Rule:        plain,
			Description: plain,
			Example:     plain,
			Dim:         plain,
		}
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Rule:        lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Description: lipgloss.NewStyle(),
		Example:     dim,
		Dim:         dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles  *HelpStyles
	catalog *lint.Catalog
}

// NewHelpFormatter creates a new help formatter with the given color mode.
// Root help lists the rules of lint.DefaultCatalog.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{
		styles:  NewHelpStyles(pretty.IsColorEnabled(colorMode, writer)),
		catalog: lint.DefaultCatalog,
	}
}

// exitCodeHelp documents the lint command's exit codes.
//
//nolint:gochecknoglobals // Read-only help text.
var exitCodeHelp = [][2]string{
	{"0", "no errors (warnings allowed unless --strict)"},
	{"1", "error-severity violations found"},
	{"2", "warnings found with --strict"},
	{"3", "rule crashes or fix conflicts with --strict"},
	{"64", "invalid usage"},
	{"65", "invalid configuration"},
	{"70", "internal error"},
	{"74", "file I/O error"},
}

func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":            h.styles.Command.Render,
		"styleHeading":            h.styles.Heading.Render,
		"styleSubcommand":         h.styles.Subcommand.Render,
		"styleDescription":        h.styles.Description.Render,
		"styleExample":            h.styles.Example.Render,
		"styleDim":                h.styles.Dim.Render,
		"styleFlagsUsage":         h.styleFlagsUsage,
		"ruleList":                h.ruleList,
		"exitCodes":               h.exitCodes,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// usageTemplate is cobra's default usage template with styling, a rule
// list on the root command and exit codes on lint.
func (h *HelpFormatter) usageTemplate() string {
	return `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleDim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if not .HasParent}}{{ with ruleList }}

{{ styleHeading "Rules:" }}
{{ . }}
{{- end}}{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if eq .Name "lint"}}

{{ styleHeading "Exit Codes:" }}
{{ exitCodes }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`
}

func (h *HelpFormatter) helpTemplate() string {
	return `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + h.usageTemplate()
}

// ruleList renders one line per registered rule; fixable rules are marked.
func (h *HelpFormatter) ruleList() string {
	if h.catalog == nil {
		return ""
	}
	defs := h.catalog.Definitions()
	width := 0
	for _, def := range defs {
		width = max(width, len(def.Name))
	}

	lines := make([]string, 0, len(defs))
	for _, def := range defs {
		line := "  " + h.styles.Rule.Render(rpad(def.Name, width)) + " " + h.styles.Description.Render(def.Description)
		if def.Fixable {
			line += " " + h.styles.Dim.Render("(fixable)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) exitCodes() string {
	lines := make([]string, len(exitCodeHelp))
	for i, entry := range exitCodeHelp {
		lines[i] = "  " + h.styles.Flag.Render(rpad(entry[0], 3)) + " " + h.styles.Description.Render(entry[1])
	}
	return strings.Join(lines, "\n")
}

// styleFlagsUsage formats pflag usage output with styling.
func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   description" line.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}

	flagPart, descPart, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", len(line)-len(trimmed)))
	for i, token := range strings.Fields(flagPart) {
		if i > 0 {
			b.WriteByte(' ')
		}
		if !strings.HasPrefix(token, "-") {
			b.WriteString(h.styles.Dim.Render(token))
			continue
		}
		clean, hasComma := strings.CutSuffix(token, ",")
		b.WriteString(h.styles.Flag.Render(clean))
		if hasComma {
			b.WriteByte(',')
		}
	}
	b.WriteString("   ")
	b.WriteString(h.styles.Description.Render(descPart))
	return b.String()
}

// splitFlagLine splits a flag line at the first run of two or more spaces.
func splitFlagLine(line string) (string, string, bool) {
	idx := strings.Index(line, "  ")
	if idx < 0 {
		return line, "", false
	}
	desc := strings.TrimLeft(line[idx:], " ")
	if desc == "" {
		return line, "", false
	}
	return line[:idx], desc, true
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()

	cmd.SetUsageTemplate(h.usageTemplate())
	cmd.SetHelpTemplate(h.helpTemplate())

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		usageTmpl, err := template.New("usage").Funcs(funcs).Parse(h.usageTemplate())
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return usageTmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		helpTmpl, err := template.New("help").Funcs(funcs).Parse(h.helpTemplate())
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := helpTmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
