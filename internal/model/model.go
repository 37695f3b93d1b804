// Package model defines the core data types shared across codescore.
package model

// AnalysisResult is the JSON body returned by the analysis service.
type AnalysisResult struct {
	OverallScore    int       `json:"overall_score" jsonschema:"minimum=0,maximum=100"`
	Breakdown       Breakdown `json:"breakdown"`
	Recommendations []string  `json:"recommendations"`
}

// Breakdown holds the six category sub-scores.
type Breakdown struct {
	Naming        int `json:"naming"`
	Modularity    int `json:"modularity"`
	Comments      int `json:"comments"`
	Formatting    int `json:"formatting"`
	Reusability   int `json:"reusability"`
	BestPractices int `json:"best_practices"`
}

// Score returns the sub-score for a category key. Unknown keys score 0.
func (b Breakdown) Score(key string) int {
	switch key {
	case "naming":
		return b.Naming
	case "modularity":
		return b.Modularity
	case "comments":
		return b.Comments
	case "formatting":
		return b.Formatting
	case "reusability":
		return b.Reusability
	case "best_practices":
		return b.BestPractices
	default:
		return 0
	}
}

// Category is one fixed breakdown row. The maximum is not taken from the server.
type Category struct {
	Key  string
	Name string
	Max  int
}

// Categories lists the breakdown rows in display order.
var Categories = []Category{
	{Key: "naming", Name: "Naming Conventions", Max: 10},
	{Key: "modularity", Name: "Function Length & Modularity", Max: 20},
	{Key: "comments", Name: "Comments & Documentation", Max: 20},
	{Key: "formatting", Name: "Formatting & Indentation", Max: 15},
	{Key: "reusability", Name: "Reusability & DRY", Max: 15},
	{Key: "best_practices", Name: "Best Practices", Max: 20},
}

// MaxTotal is the sum of all category maxima, the scale of OverallScore.
func MaxTotal() int {
	total := 0
	for _, c := range Categories {
		total += c.Max
	}
	return total
}

// Tier is the colour band a category bar falls into.
type Tier int

const (
	TierPoor Tier = iota
	TierWarning
	TierGood
)

func (t Tier) String() string {
	switch t {
	case TierGood:
		return "good"
	case TierWarning:
		return "warning"
	case TierPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// tierThresholds is checked top to bottom; the first minimum reached wins.
var tierThresholds = []struct {
	min  float64
	tier Tier
}{
	{80, TierGood},
	{60, TierWarning},
}

// TierFor maps a bar percentage to its tier.
func TierFor(percent float64) Tier {
	for _, th := range tierThresholds {
		if percent >= th.min {
			return th.tier
		}
	}
	return TierPoor
}
