package tui

import (
	"fmt"
	"strings"

	"github.com/aezell/codescore/internal/highlight"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/report"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const (
	title    = "Clean Code Analyzer"
	subtitle = "Upload a React (.js/.jsx) or FastAPI (.py) file to analyze code quality"

	// Preview is shown beside the results when the terminal is this wide.
	previewMinWidth = 110
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.palette.title().Render(title))
	b.WriteByte('\n')
	b.WriteString(subtitleStyle.Render(subtitle))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm())

	st := m.session.State()
	if msg := model.ErrorMessage(st); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(msg))
	}
	for _, notice := range []string{model.Notice(st), m.notice} {
		if notice != "" {
			b.WriteString("\n")
			b.WriteString(noticeStyle.Render(notice))
		}
	}
	b.WriteString("\n")

	full := m.width
	if m.picking {
		b.WriteString(panelStyle.Width(full - 2).Render(m.picker.View()))
	} else {
		results := ""
		if res := model.Result(st); res != nil {
			resultsWidth := full
			if len(m.preview) > 0 && m.width >= previewMinWidth {
				resultsWidth = m.width / 2
			}
			results = m.renderResults(res, st, resultsWidth-2)
			if resultsWidth < full {
				preview := m.renderPreview(full-resultsWidth-1, m.height-8)
				results = lipgloss.JoinHorizontal(lipgloss.Top, results, " ", preview)
			}
		} else if len(m.preview) > 0 {
			results = m.renderPreview(full-2, m.height-8)
		}
		b.WriteString(results)
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), m.renderStatusBar())
}

// renderForm draws the file label and the analyze button.
func (m Model) renderForm() string {
	var label string
	if f := m.session.Selected(); f != nil {
		label = fileLabelStyle.Render(fmt.Sprintf("%s  %s", f.Name, humanize.Bytes(uint64(f.Size()))))
	} else {
		label = fileLabelEmptyStyle.Render("Choose a file...")
	}

	var button string
	switch {
	case model.IsLoading(m.session.State()):
		button = buttonDisabledStyle.Render(m.spinner.View() + " Analyzing...")
	case m.session.CanSubmit():
		button = buttonStyle.Render("Analyze Code")
	default:
		button = buttonDisabledStyle.Render("Analyze Code")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", button)
}

// renderResults draws the score circle, the breakdown bars and the
// recommendations.
func (m Model) renderResults(res *model.AnalysisResult, st model.State, width int) string {
	rep := report.Build(res)
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Analysis Results"))
	if st.Kind() != model.KindSucceeded {
		b.WriteString(staleStyle.Render("  (previous analysis)"))
	}
	b.WriteByte('\n')

	overall := model.TierFor(float64(res.OverallScore))
	circle := m.palette.scoreCircle(overall).Render(rep.Score)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, circle, " ", subtitleStyle.Render(rep.ScoreLabel)))
	b.WriteByte('\n')

	b.WriteString(sectionStyle.Render("Score Breakdown"))
	b.WriteByte('\n')
	barWidth := width - 2
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	for _, bar := range rep.Bars {
		b.WriteString(m.renderBar(bar, barWidth))
		b.WriteByte('\n')
	}

	b.WriteString(sectionStyle.Render("Recommendations"))
	for i, rec := range rep.Recommendations {
		b.WriteByte('\n')
		line := fmt.Sprintf("%2d. %s", i+1, rec)
		b.WriteString(recommendationStyle.Width(width).Render(line))
	}

	return b.String()
}

func (m Model) renderBar(bar report.Bar, width int) string {
	nameWidth := width - 8
	header := categoryNameStyle.Width(nameWidth).Render(bar.Name) +
		categoryScoreStyle.Width(8).Render(bar.Label)

	p := progress.New(
		progress.WithSolidFill(string(m.palette.tiers[bar.Tier])),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return header + "\n" + p.ViewAs(bar.Percent/100)
}

// renderPreview draws the highlighted source of the selected file.
func (m Model) renderPreview(width, height int) string {
	if height < 3 {
		height = 3
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	name := ""
	if f := m.session.Selected(); f != nil {
		name = f.Name
	}
	b.WriteString(m.palette.title().Render(name))

	for i, line := range m.preview {
		if i >= height-3 {
			b.WriteString("\n" + subtitleStyle.Render(fmt.Sprintf("… %d more lines", len(m.preview)-i)))
			break
		}
		b.WriteByte('\n')
		b.WriteString(lineNumberStyle.Render(fmt.Sprintf("%d", i+1)))
		b.WriteByte(' ')
		b.WriteString(renderTokens(line, inner-5))
	}

	return panelStyle.Width(width).Render(b.String())
}

// renderTokens colours a source line, cutting it at limit visible cells.
func renderTokens(line highlight.Line, limit int) string {
	var b strings.Builder
	used := 0
	for _, tok := range line.Tokens {
		text := tok.Text
		if used+lipgloss.Width(text) > limit {
			text = ansi.Truncate(text, limit-used, "…")
		}
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(text))
		} else {
			b.WriteString(text)
		}
		used += lipgloss.Width(text)
		if used >= limit {
			break
		}
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	left := " " + m.session.State().Kind().String()
	if m.picking {
		left = " choose a .js, .jsx or .py file"
	}
	right := "o open  a analyze  c copy  ? help  q quit "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.palette.title().Render("codescore - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, k := range []struct{ key, desc string }{
		{"o/f", "Choose a file"},
		{"a/enter", "Analyze the selected file"},
		{"c", "Copy recommendations"},
		{"esc", "Close the file picker"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	} {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(k.key),
			k.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
