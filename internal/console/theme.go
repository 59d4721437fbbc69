package console

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual styling of pipeline output.
// Colors use lipgloss format: color names ("red"), hex ("#ff0000"), or 256-color ("120").
type Theme struct {
	Header  lipgloss.Style
	Section lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style

	Icons Icons
}

// Icons defines icon characters for status indicators.
type Icons struct {
	Success string
	Warning string
	Error   string
	Info    string
	Skipped string
	Bullet  string
}

// DefaultTheme is the colored Unicode theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Bold:    r.NewStyle().Bold(true),
		Icons: Icons{
			Success: "✅",
			Warning: "⚠️ ",
			Error:   "❌",
			Info:    "ℹ️ ",
			Skipped: "⏭️ ",
			Bullet:  "▸",
		},
	}
}

// PlainTheme renders without colors or emoji, for logs and NO_COLOR.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header:  plain,
		Section: plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Muted:   plain,
		Bold:    plain,
		Icons: Icons{
			Success: "[ok]",
			Warning: "[warn]",
			Error:   "[fail]",
			Info:    "[info]",
			Skipped: "[skip]",
			Bullet:  "-",
		},
	}
}
