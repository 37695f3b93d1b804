package tui

import (
	"github.com/aezell/codescore/internal/config"
	"github.com/aezell/codescore/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	colorRed     = lipgloss.Color("#ff5555")
	colorYellow  = lipgloss.Color("#f1fa8c")
	colorBlue    = lipgloss.Color("#8be9fd")
	colorDim     = lipgloss.Color("#6272a4")
	colorBgLight = lipgloss.Color("#343746")
	colorFg      = lipgloss.Color("#f8f8f2")
	colorBorder  = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	fileLabelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(colorFg).
			Padding(0, 1)

	fileLabelEmptyStyle = fileLabelStyle.
				Foreground(colorDim)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 2)

	buttonDisabledStyle = buttonStyle.
				BorderForeground(colorBorder).
				Foreground(colorDim).
				Bold(false)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	staleStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(1, 0, 0, 0)

	categoryNameStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	categoryScoreStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Align(lipgloss.Right)

	recommendationStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(4).
			Align(lipgloss.Right)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// palette holds the colours that come from configuration.
type palette struct {
	accent lipgloss.Color
	tiers  map[model.Tier]lipgloss.Color
}

func newPalette(theme config.ThemeConfig) palette {
	return palette{
		accent: lipgloss.Color(theme.Accent),
		tiers: map[model.Tier]lipgloss.Color{
			model.TierGood:    lipgloss.Color(theme.Good),
			model.TierWarning: lipgloss.Color(theme.Warning),
			model.TierPoor:    lipgloss.Color(theme.Poor),
		},
	}
}

func (p palette) title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.accent).Bold(true)
}

func (p palette) scoreCircle(t model.Tier) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.tiers[t]).
		Foreground(p.tiers[t]).
		Bold(true).
		Padding(1, 3)
}
