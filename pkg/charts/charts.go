package charts

import (
	"fmt"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// Slice and series colors, matching the dashboard palette.
var (
	successColor = "rgba(16, 185, 129, 0.8)"
	failureColor = "rgba(239, 68, 68, 0.8)"

	seriesPalette = []string{
		"rgba(59, 130, 246, 0.8)",
		"rgba(16, 185, 129, 0.8)",
		"rgba(245, 158, 11, 0.8)",
		"rgba(139, 92, 246, 0.8)",
		"rgba(239, 68, 68, 0.8)",
		"rgba(20, 184, 166, 0.8)",
	}
)

// PieChart describes an outcome pie. Population is the row count of the
// (possibly filtered) table the slices aggregate.
type PieChart struct {
	Title      string    `json:"title"`
	Site       string    `json:"site"`
	Labels     []string  `json:"labels"`
	Values     []float64 `json:"values"`
	Colors     []string  `json:"colors"`
	Population int       `json:"population"`
}

// Total returns the sum of the slice values
func (p PieChart) Total() float64 {
	var total float64
	for _, v := range p.Values {
		total += v
	}
	return total
}

// ScatterPoint is one launch plotted as payload mass against outcome class
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// ScatterSeries groups the points of one booster version category
type ScatterSeries struct {
	Name   string         `json:"name"`
	Color  string         `json:"color"`
	Points []ScatterPoint `json:"points"`
}

// ScatterChart describes the payload/outcome scatter
type ScatterChart struct {
	Title      string          `json:"title"`
	Site       string          `json:"site"`
	XLabel     string          `json:"x_label"`
	YLabel     string          `json:"y_label"`
	MinPayload float64         `json:"min_payload"`
	MaxPayload float64         `json:"max_payload"`
	Series     []ScatterSeries `json:"series"`
	Population int             `json:"population"`
}

// PointCount returns the number of plotted launches across all series
func (c ScatterChart) PointCount() int {
	count := 0
	for _, s := range c.Series {
		count += len(s.Points)
	}
	return count
}

// SuccessPie builds the outcome pie for the selected site. For SiteAll the
// slices are successful-launch counts per site over the full table. For a
// specific site the table is filtered to that site first and the slices
// are its success and failure counts.
func SuccessPie(t *models.Table, site string) PieChart {
	if site == models.SiteAll {
		sites := t.Sites()
		success := t.SuccessCountBySite()

		pie := PieChart{
			Title:      "Total Successful Launches by Site",
			Site:       site,
			Labels:     sites,
			Population: t.Len(),
		}
		for i, s := range sites {
			pie.Values = append(pie.Values, float64(success[s]))
			pie.Colors = append(pie.Colors, seriesPalette[i%len(seriesPalette)])
		}
		return pie
	}

	filtered := t.FilterBySite(site)
	return PieChart{
		Title:      fmt.Sprintf("Total Successful Launches for %s", site),
		Site:       site,
		Labels:     []string{"Successful", "Failed"},
		Values:     []float64{float64(filtered.SuccessCount()), float64(filtered.FailureCount())},
		Colors:     []string{successColor, failureColor},
		Population: filtered.Len(),
	}
}

// PayloadScatter builds the payload/outcome scatter for the selected site
// and inclusive payload range [lo, hi], one series per booster version
// category in first-seen order.
func PayloadScatter(t *models.Table, site string, lo, hi float64) ScatterChart {
	filtered := t.FilterBySite(site).FilterByPayload(lo, hi)

	title := "Payload vs. Outcome for All Sites"
	if site != models.SiteAll {
		title = fmt.Sprintf("Payload vs. Outcome for %s", site)
	}

	chart := ScatterChart{
		Title:      title,
		Site:       site,
		XLabel:     "Payload Mass (kg)",
		YLabel:     "Launch Outcome",
		MinPayload: lo,
		MaxPayload: hi,
		Population: filtered.Len(),
	}

	seriesIndex := make(map[string]int)
	for _, category := range filtered.BoosterCategories() {
		seriesIndex[category] = len(chart.Series)
		chart.Series = append(chart.Series, ScatterSeries{
			Name:  category,
			Color: seriesPalette[len(chart.Series)%len(seriesPalette)],
		})
	}
	for _, r := range filtered.Records() {
		i := seriesIndex[r.BoosterCategory]
		chart.Series[i].Points = append(chart.Series[i].Points, ScatterPoint{
			X:     r.PayloadMass,
			Y:     float64(r.Class),
			Label: r.BoosterVersion,
		})
	}
	return chart
}
