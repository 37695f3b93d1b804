// Package report turns an analysis result into display-ready values shared by
// the terminal UI, the web front-end and the check command.
package report

import (
	"fmt"
	"strconv"

	"github.com/aezell/codescore/internal/model"
)

// Report is the rendered form of an AnalysisResult.
type Report struct {
	Score           string
	ScoreLabel      string
	Bars            []Bar
	Recommendations []string
}

// Bar is one breakdown category.
type Bar struct {
	Key     string
	Name    string
	Score   int
	Max     int
	Label   string  // "score/max"
	Percent float64 // score/max*100, not clamped
	Tier    model.Tier
}

// Width returns the bar width as a CSS percentage.
func (b Bar) Width() string {
	return Width(b.Percent)
}

// Build renders r. Bars follow model.Categories order and recommendations
// keep the server's order.
func Build(r *model.AnalysisResult) Report {
	rep := Report{
		Score:           strconv.Itoa(r.OverallScore),
		ScoreLabel:      fmt.Sprintf("/%d", model.MaxTotal()),
		Recommendations: append([]string(nil), r.Recommendations...),
	}

	for _, c := range model.Categories {
		score := r.Breakdown.Score(c.Key)
		pct := float64(score) / float64(c.Max) * 100
		rep.Bars = append(rep.Bars, Bar{
			Key:     c.Key,
			Name:    c.Name,
			Score:   score,
			Max:     c.Max,
			Label:   fmt.Sprintf("%d/%d", score, c.Max),
			Percent: pct,
			Tier:    model.TierFor(pct),
		})
	}

	return rep
}

// Bar returns the bar for a category key.
func (r Report) Bar(key string) (Bar, bool) {
	for _, b := range r.Bars {
		if b.Key == key {
			return b, true
		}
	}
	return Bar{}, false
}

// Width formats a percentage for a style attribute, e.g. "90%".
func Width(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}
