// Package pretty renders styled terminal output for lint results with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/dslint/pkg/config"
)

// ANSI 256 palette indexes.
const (
	colorRed     = "9"
	colorGreen   = "10"
	colorYellow  = "11"
	colorBlue    = "12"
	colorMagenta = "13"
	colorCyan    = "14"
	colorGrey    = "8"
	colorLight   = "7"
)

// Styles contains all styled renderers for CLI output. With color disabled
// every style renders its input unchanged.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Crash   lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleName   lipgloss.Style
	Message    lipgloss.Style
	FixHint    lipgloss.Style
	Fixable    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	Header  lipgloss.Style
	Success lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
}

// look describes a style independently of whether color is on.
type look struct {
	fg     string
	bold   bool
	italic bool
}

func (l look) style(color bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if !color {
		return s
	}
	if l.fg != "" {
		s = s.Foreground(lipgloss.Color(l.fg))
	}
	return s.Bold(l.bold).Italic(l.italic)
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	st := func(l look) lipgloss.Style { return l.style(colorEnabled) }

	return &Styles{
		Error:   st(look{fg: colorRed, bold: true}),
		Warning: st(look{fg: colorYellow, bold: true}),
		Info:    st(look{fg: colorBlue, bold: true}),
		Crash:   st(look{fg: colorMagenta, bold: true}),

		FilePath:   st(look{bold: true}),
		Location:   st(look{fg: colorGrey}),
		RuleName:   st(look{fg: colorGrey}),
		Message:    st(look{}),
		FixHint:    st(look{fg: colorGreen, italic: true}),
		Fixable:    st(look{fg: colorGreen}),
		SourceLine: st(look{fg: colorLight}),
		Caret:      st(look{fg: colorRed}),

		DiffHeader:  st(look{bold: true}),
		DiffHunk:    st(look{fg: colorCyan}),
		DiffAdd:     st(look{fg: colorGreen}),
		DiffRemove:  st(look{fg: colorRed}),
		DiffContext: st(look{fg: colorGrey}),

		Header:  st(look{fg: colorLight, bold: true}),
		Success: st(look{fg: colorGreen, bold: true}),
		Dim:     st(look{fg: colorGrey}),
		Bold:    st(look{bold: true}),
	}
}

// Severity returns the style for a severity level.
func (s *Styles) Severity(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Message
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
