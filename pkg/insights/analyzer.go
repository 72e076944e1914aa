package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/analytics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// Analyzer derives rule-based findings from launch analytics
type Analyzer struct {
	bandWidth float64
}

// NewAnalyzer creates an analyzer using 2000 kg payload bands
func NewAnalyzer() *Analyzer {
	return &Analyzer{bandWidth: 2000}
}

// Summary contains the high-level reading of the dataset
type Summary struct {
	Outlook        string   `json:"outlook"`
	KeyFindings    []string `json:"key_findings"`
	WatchItems     []string `json:"watch_items"`
	TrendIndicator string   `json:"trend_indicator"`
	Recommendation string   `json:"recommendation"`
}

// Band aggregates the launches whose payload mass falls in [Lo, Hi)
type Band struct {
	Lo          float64 `json:"lo"`
	Hi          float64 `json:"hi"`
	Launches    int     `json:"launches"`
	Successes   int     `json:"successes"`
	SuccessRate float64 `json:"success_rate"`
}

// Label formats the band range for display
func (b Band) Label() string {
	return fmt.Sprintf("%.0f-%.0f kg", b.Lo, b.Hi)
}

// Outlook labels an overall success rate: "Strong", "Promising", "Mixed",
// or "Struggling"
func Outlook(successRate float64) string {
	switch {
	case successRate >= 80:
		return "Strong"
	case successRate >= 60:
		return "Promising"
	case successRate >= 40:
		return "Mixed"
	default:
		return "Struggling"
	}
}

// CorrelationStrength labels the magnitude of a Pearson coefficient
func CorrelationStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return "strong"
	case abs >= 0.4:
		return "moderate"
	case abs >= 0.2:
		return "weak"
	default:
		return "negligible"
	}
}

// PayloadBands buckets launches by payload mass and computes the success
// rate of each occupied band, ordered by mass
func (a *Analyzer) PayloadBands(t *models.Table) []Band {
	buckets := make(map[int]*Band)
	for _, r := range t.Records() {
		i := int(r.PayloadMass / a.bandWidth)
		b, ok := buckets[i]
		if !ok {
			b = &Band{Lo: float64(i) * a.bandWidth, Hi: float64(i+1) * a.bandWidth}
			buckets[i] = b
		}
		b.Launches++
		if r.Success() {
			b.Successes++
		}
	}

	var bands []Band
	for _, b := range buckets {
		b.SuccessRate = analytics.CalculateSuccessRate(b.Successes, b.Launches)
		bands = append(bands, *b)
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Lo < bands[j].Lo })
	return bands
}

// BestBand returns the payload band with the highest success rate among
// bands holding at least three launches, nil when no band qualifies
func (a *Analyzer) BestBand(t *models.Table) *Band {
	var best *Band
	for _, b := range a.PayloadBands(t) {
		if b.Launches < 3 {
			continue // not enough data
		}
		band := b
		if best == nil || band.SuccessRate > best.SuccessRate {
			best = &band
		}
	}
	return best
}

func (a *Analyzer) worstBand(t *models.Table) *Band {
	var worst *Band
	for _, b := range a.PayloadBands(t) {
		if b.Launches < 3 {
			continue
		}
		band := b
		if worst == nil || band.SuccessRate < worst.SuccessRate {
			worst = &band
		}
	}
	return worst
}

// BuildSummary creates the executive reading of the dataset. The trend
// direction comes from the snapshot history: improving, degrading,
// stable, or unknown.
func (a *Analyzer) BuildSummary(sum *analytics.Summary, t *models.Table, trendDirection string) *Summary {
	summary := &Summary{
		Outlook:     Outlook(sum.SuccessRate),
		KeyFindings: make([]string, 0),
		WatchItems:  make([]string, 0),
	}

	summary.KeyFindings = append(summary.KeyFindings,
		fmt.Sprintf("%d of %d launches landed successfully (%.1f%%)",
			sum.Successes, sum.TotalLaunches, sum.SuccessRate))

	if best := sum.BestSite(); best != nil && best.Launches > 0 {
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("%s leads the sites with a %.1f%% success rate over %d launches",
				best.Site, best.SuccessRate, best.Launches))
	}

	if band := a.BestBand(t); band != nil {
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("Payloads of %s land best: %.1f%% across %d launches",
				band.Label(), band.SuccessRate, band.Launches))
	}

	summary.KeyFindings = append(summary.KeyFindings,
		fmt.Sprintf("Payload mass shows a %s correlation with landing outcome (r=%.2f)",
			CorrelationStrength(sum.PayloadCorrelation), sum.PayloadCorrelation))

	// Sites and bands trailing the field go on the watch list.
	if n := len(sum.SiteRankings); n > 0 {
		worst := sum.SiteRankings[n-1]
		if worst.Launches > 0 && worst.SuccessRate < 50 {
			summary.WatchItems = append(summary.WatchItems,
				fmt.Sprintf("%s has landed only %d of %d launches",
					worst.Site, worst.Successes, worst.Launches))
		}
	}
	if band := a.worstBand(t); band != nil && band.SuccessRate < 40 {
		summary.WatchItems = append(summary.WatchItems,
			fmt.Sprintf("Payloads of %s struggle: %.1f%% success across %d launches",
				band.Label(), band.SuccessRate, band.Launches))
	}

	switch trendDirection {
	case "improving":
		summary.TrendIndicator = "Improving"
	case "degrading":
		summary.TrendIndicator = "Declining"
	case "stable":
		summary.TrendIndicator = "Stable"
	default:
		summary.TrendIndicator = "Baseline"
	}

	summary.Recommendation = a.recommend(summary)
	return summary
}

// recommend creates the single actionable takeaway
func (a *Analyzer) recommend(summary *Summary) string {
	if summary.Outlook == "Strong" {
		return "Landing performance is strong. Keep monitoring heavy payload missions for regressions."
	}

	if len(summary.WatchItems) > 0 {
		return "Review the flagged sites and payload bands before scheduling further heavy missions."
	}

	if summary.TrendIndicator == "Declining" {
		return "Investigate the drop in landing success across recent snapshots before drawing conclusions."
	}

	return "Collect more launches to firm up the relationship between payload mass and landing outcome."
}
