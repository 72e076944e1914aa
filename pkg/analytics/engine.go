package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/dataset"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/logger"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/storage"
)

// Summary is the aggregate view of a launch table
type Summary struct {
	Site               string         `json:"site"`
	TotalLaunches      int            `json:"total_launches"`
	Successes          int            `json:"successes"`
	Failures           int            `json:"failures"`
	SuccessRate        float64        `json:"success_rate"`
	Payload            PayloadStats   `json:"payload"`
	PayloadCorrelation float64        `json:"payload_correlation"`
	SiteRankings       []*SiteSuccess `json:"site_rankings"`
	CategoryBreakdown  map[string]int `json:"category_breakdown"`
}

// BestSite returns the top-ranked site, nil for an empty summary
func (s *Summary) BestSite() *SiteSuccess {
	if len(s.SiteRankings) == 0 {
		return nil
	}
	return s.SiteRankings[0]
}

// PayloadStats describes the payload mass distribution in kg
type PayloadStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// SiteSuccess ranks one launch site by outcome
type SiteSuccess struct {
	Site        string  `json:"site"`
	Launches    int     `json:"launches"`
	Successes   int     `json:"successes"`
	SuccessRate float64 `json:"success_rate"`
}

// Engine computes launch analytics with optional history persistence
type Engine struct {
	config *config.Config
	db     *storage.Database
}

// NewEngine creates a new analytics engine. The database may be nil, in
// which case snapshots and trends are unavailable but analysis still works.
func NewEngine(cfg *config.Config, db *storage.Database) *Engine {
	return &Engine{
		config: cfg,
		db:     db,
	}
}

// Analyze computes the aggregate view of the full table
func (e *Engine) Analyze(t *models.Table) *Summary {
	return e.analyze(t, models.SiteAll)
}

// AnalyzeSite computes the aggregate view of one site's launches
func (e *Engine) AnalyzeSite(t *models.Table, site string) *Summary {
	return e.analyze(t.FilterBySite(site), site)
}

func (e *Engine) analyze(t *models.Table, site string) *Summary {
	return &Summary{
		Site:               site,
		TotalLaunches:      t.Len(),
		Successes:          t.SuccessCount(),
		Failures:           t.FailureCount(),
		SuccessRate:        CalculateSuccessRate(t.SuccessCount(), t.Len()),
		Payload:            payloadStats(t.PayloadMasses()),
		PayloadCorrelation: PayloadCorrelation(t),
		SiteRankings:       rankSites(t),
		CategoryBreakdown:  categoryBreakdown(t),
	}
}

// payloadStats summarizes the payload mass distribution
func payloadStats(masses []float64) PayloadStats {
	if len(masses) == 0 {
		return PayloadStats{}
	}

	ps := PayloadStats{}
	ps.Min, _ = stats.Min(masses)
	ps.Max, _ = stats.Max(masses)
	ps.Mean, _ = stats.Mean(masses)
	ps.Median, _ = stats.Median(masses)
	ps.StdDev, _ = stats.StandardDeviation(masses)
	ps.P25, _ = stats.Percentile(masses, 25)
	ps.P75, _ = stats.Percentile(masses, 75)
	return ps
}

// PayloadCorrelation returns the Pearson correlation between payload mass
// and outcome class, 0 when the table is too small or either series is
// constant.
func PayloadCorrelation(t *models.Table) float64 {
	if t.Len() < 2 {
		return 0
	}
	r := stat.Correlation(t.PayloadMasses(), t.OutcomeClasses(), nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// rankSites orders sites by success rate, ties broken by launch count
func rankSites(t *models.Table) []*SiteSuccess {
	counts := t.CountBySite()
	successes := t.SuccessCountBySite()

	var rankings []*SiteSuccess
	for _, site := range t.Sites() {
		rankings = append(rankings, &SiteSuccess{
			Site:        site,
			Launches:    counts[site],
			Successes:   successes[site],
			SuccessRate: CalculateSuccessRate(successes[site], counts[site]),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].SuccessRate != rankings[j].SuccessRate {
			return rankings[i].SuccessRate > rankings[j].SuccessRate
		}
		return rankings[i].Launches > rankings[j].Launches
	})
	return rankings
}

// categoryBreakdown counts launches by booster version category
func categoryBreakdown(t *models.Table) map[string]int {
	breakdown := make(map[string]int)
	for _, r := range t.Records() {
		breakdown[r.BoosterCategory]++
	}
	return breakdown
}

// SaveSnapshot persists one successful fetch and its per-site stats for
// historical tracking. Returns the snapshot ID.
func (e *Engine) SaveSnapshot(t *models.Table, fetched *dataset.FetchStats) (string, error) {
	if e.db == nil {
		return "", fmt.Errorf("database not initialized")
	}

	id := uuid.New().String()
	record := &storage.FetchRecord{
		ID:          id,
		FetchedAt:   fetched.FetchedAt,
		SourceURL:   fetched.URL,
		ContentType: fetched.ContentType,
		RowCount:    t.Len(),
		Successes:   t.SuccessCount(),
		Failures:    t.FailureCount(),
		SuccessRate: t.SuccessRate(),
		MinPayload:  t.MinPayload(),
		MaxPayload:  t.MaxPayload(),
		DurationMS:  fetched.Duration.Milliseconds(),
	}
	if err := e.db.SaveFetch(record); err != nil {
		return "", fmt.Errorf("failed to save fetch snapshot: %w", err)
	}

	for _, ranking := range rankSites(t) {
		siteStat := &storage.SiteStatRecord{
			FetchID:     id,
			Site:        ranking.Site,
			Launches:    ranking.Launches,
			Successes:   ranking.Successes,
			SuccessRate: ranking.SuccessRate,
		}
		if err := e.db.SaveSiteStat(siteStat); err != nil {
			// Log error but continue
			logger.Warnf("Failed to save site stats for %s: %v", ranking.Site, err)
			continue
		}
	}

	return id, nil
}

// Trend returns recent snapshot points plus a direction label comparing
// the two latest fetches: improving, degrading, or stable within 5 points.
func (e *Engine) Trend(days int) ([]*storage.TrendPoint, string, error) {
	if e.db == nil {
		return nil, "unknown", nil
	}

	points, err := e.db.GetTrendData(days)
	if err != nil {
		return nil, "unknown", err
	}

	direction := "stable"
	if len(points) >= 2 {
		change := points[len(points)-1].SuccessRate - points[len(points)-2].SuccessRate
		if change > 5.0 {
			direction = "improving"
		} else if change < -5.0 {
			direction = "degrading"
		}
	}
	return points, direction, nil
}

// CalculateSuccessRate calculates the success rate percentage
func CalculateSuccessRate(successes, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(successes) / float64(total) * 100.0
}

// FormatPayload formats a payload mass to a readable string
func FormatPayload(kg float64) string {
	if kg >= 1000 {
		return fmt.Sprintf("%.1f t", kg/1000)
	}
	return fmt.Sprintf("%.0f kg", kg)
}
