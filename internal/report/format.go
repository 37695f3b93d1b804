package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aezell/codescore/internal/model"
	"github.com/dustin/go-humanize"
)

// FileReport is the outcome of analysing one file from the command line.
type FileReport struct {
	Path   string
	Size   int64
	Result *model.AnalysisResult
	Err    string // visible error message, empty on success
}

// Failed reports whether the file could not be analysed.
func (f FileReport) Failed() bool {
	return f.Err != ""
}

func tierIcon(t model.Tier) string {
	switch t {
	case model.TierGood:
		return "+ "
	case model.TierWarning:
		return "~ "
	default:
		return "! "
	}
}

// WriteText writes a plain-text report for each file.
func WriteText(w io.Writer, files []FileReport) error {
	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", f.Path, humanize.Bytes(uint64(f.Size)))
		if f.Failed() {
			fmt.Fprintf(w, "  %s\n", f.Err)
			continue
		}

		rep := Build(f.Result)
		fmt.Fprintf(w, "  Score: %s%s\n\n", rep.Score, rep.ScoreLabel)
		for _, b := range rep.Bars {
			fmt.Fprintf(w, "  %s%-30s %6s  %s\n", tierIcon(b.Tier), b.Name, b.Label, b.Tier)
		}
		if len(rep.Recommendations) > 0 {
			fmt.Fprintln(w, "\n  Recommendations:")
			for n, rec := range rep.Recommendations {
				fmt.Fprintf(w, "    %d. %s\n", n+1, rec)
			}
		}
	}
	return nil
}

// WriteMarkdown writes a Markdown report suitable for PR comments.
func WriteMarkdown(w io.Writer, files []FileReport) error {
	fmt.Fprintf(w, "## Code Quality Report\n\n")
	for _, f := range files {
		fmt.Fprintf(w, "### `%s`\n\n", f.Path)
		if f.Failed() {
			fmt.Fprintf(w, "> %s\n\n", f.Err)
			continue
		}

		rep := Build(f.Result)
		fmt.Fprintf(w, "**Score:** %s%s\n\n", rep.Score, rep.ScoreLabel)
		fmt.Fprintln(w, "| Category | Score | Rating |")
		fmt.Fprintln(w, "|----------|-------|--------|")
		for _, b := range rep.Bars {
			fmt.Fprintf(w, "| %s | %s | %s |\n", b.Name, b.Label, b.Tier)
		}
		fmt.Fprintln(w)
		for n, rec := range rep.Recommendations {
			fmt.Fprintf(w, "%d. %s\n", n+1, strings.ReplaceAll(rec, "\n", " "))
		}
		if len(rep.Recommendations) > 0 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

type jsonBar struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Score   int     `json:"score"`
	Max     int     `json:"max"`
	Percent float64 `json:"percent"`
	Tier    string  `json:"tier"`
}

type jsonFile struct {
	Path            string    `json:"path"`
	Size            int64     `json:"size"`
	OverallScore    *int      `json:"overall_score,omitempty"`
	Breakdown       []jsonBar `json:"breakdown,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// WriteJSON writes all reports as an indented JSON array.
func WriteJSON(w io.Writer, files []FileReport) error {
	out := make([]jsonFile, 0, len(files))
	for _, f := range files {
		jf := jsonFile{Path: f.Path, Size: f.Size, Error: f.Err}
		if !f.Failed() {
			score := f.Result.OverallScore
			jf.OverallScore = &score
			jf.Recommendations = f.Result.Recommendations
			for _, b := range Build(f.Result).Bars {
				jf.Breakdown = append(jf.Breakdown, jsonBar{
					Key:     b.Key,
					Name:    b.Name,
					Score:   b.Score,
					Max:     b.Max,
					Percent: b.Percent,
					Tier:    b.Tier.String(),
				})
			}
		}
		out = append(out, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Writer returns the report writer for a --format value.
func Writer(format string) (func(io.Writer, []FileReport) error, error) {
	switch format {
	case "", "text":
		return WriteText, nil
	case "json":
		return WriteJSON, nil
	case "markdown", "md":
		return WriteMarkdown, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or markdown)", format)
	}
}
