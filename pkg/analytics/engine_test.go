package analytics

import (
	"math"
	"testing"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

func newTestEngine() *Engine {
	return NewEngine(config.NewConfig(), nil)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEngine_Analyze(t *testing.T) {
	table := models.NewTable([]models.LaunchRecord{
		{Site: "CCAFS LC-40", PayloadMass: 1000, Class: 0, BoosterCategory: "v1.0"},
		{Site: "CCAFS LC-40", PayloadMass: 2000, Class: 1, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMass: 3000, Class: 1, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMass: 4000, Class: 1, BoosterCategory: "B4"},
	})

	summary := newTestEngine().Analyze(table)

	if summary.Site != models.SiteAll {
		t.Errorf("Site = %q, want %q", summary.Site, models.SiteAll)
	}
	if summary.TotalLaunches != 4 {
		t.Errorf("TotalLaunches = %v, want 4", summary.TotalLaunches)
	}
	if summary.Successes != 3 || summary.Failures != 1 {
		t.Errorf("Successes/Failures = %v/%v, want 3/1", summary.Successes, summary.Failures)
	}
	if !almostEqual(summary.SuccessRate, 75.0) {
		t.Errorf("SuccessRate = %v, want 75", summary.SuccessRate)
	}

	p := summary.Payload
	if p.Min != 1000 || p.Max != 4000 {
		t.Errorf("Payload min/max = %v/%v, want 1000/4000", p.Min, p.Max)
	}
	if !almostEqual(p.Mean, 2500) {
		t.Errorf("Payload mean = %v, want 2500", p.Mean)
	}
	if !almostEqual(p.Median, 2500) {
		t.Errorf("Payload median = %v, want 2500", p.Median)
	}
	if !almostEqual(p.StdDev, math.Sqrt(1.25e6)) {
		t.Errorf("Payload stddev = %v, want %v", p.StdDev, math.Sqrt(1.25e6))
	}
	if p.P25 > p.Median || p.Median > p.P75 {
		t.Errorf("Quartiles out of order: p25=%v median=%v p75=%v", p.P25, p.Median, p.P75)
	}
	if p.P25 < p.Min || p.P75 > p.Max {
		t.Errorf("Quartiles outside range: p25=%v p75=%v", p.P25, p.P75)
	}

	if summary.CategoryBreakdown["FT"] != 2 || summary.CategoryBreakdown["v1.0"] != 1 {
		t.Errorf("CategoryBreakdown = %v", summary.CategoryBreakdown)
	}
}

func TestEngine_AnalyzeEmptyTable(t *testing.T) {
	summary := newTestEngine().Analyze(models.NewTable(nil))

	if summary.TotalLaunches != 0 {
		t.Errorf("TotalLaunches = %v, want 0", summary.TotalLaunches)
	}
	if summary.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", summary.SuccessRate)
	}
	if summary.Payload != (PayloadStats{}) {
		t.Errorf("Payload = %+v, want zero stats", summary.Payload)
	}
	if summary.BestSite() != nil {
		t.Error("BestSite() should be nil for an empty table")
	}
}

func TestEngine_AnalyzeSite(t *testing.T) {
	table := models.NewTable([]models.LaunchRecord{
		{Site: "CCAFS LC-40", PayloadMass: 1000, Class: 0, BoosterCategory: "v1.0"},
		{Site: "KSC LC-39A", PayloadMass: 3000, Class: 1, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMass: 5000, Class: 1, BoosterCategory: "B4"},
	})

	summary := newTestEngine().AnalyzeSite(table, "KSC LC-39A")

	if summary.Site != "KSC LC-39A" {
		t.Errorf("Site = %q, want KSC LC-39A", summary.Site)
	}
	if summary.TotalLaunches != 2 {
		t.Errorf("TotalLaunches = %v, want the site row count 2", summary.TotalLaunches)
	}
	if !almostEqual(summary.SuccessRate, 100.0) {
		t.Errorf("SuccessRate = %v, want 100", summary.SuccessRate)
	}
	if summary.Payload.Min != 3000 || summary.Payload.Max != 5000 {
		t.Errorf("Payload bounds = %v/%v, want 3000/5000", summary.Payload.Min, summary.Payload.Max)
	}
}

func TestPayloadCorrelation(t *testing.T) {
	t.Run("perfect positive correlation", func(t *testing.T) {
		table := models.NewTable([]models.LaunchRecord{
			{PayloadMass: 1000, Class: 0},
			{PayloadMass: 2000, Class: 1},
		})
		if r := PayloadCorrelation(table); !almostEqual(r, 1.0) {
			t.Errorf("PayloadCorrelation() = %v, want 1", r)
		}
	})

	t.Run("known mixed correlation", func(t *testing.T) {
		table := models.NewTable([]models.LaunchRecord{
			{PayloadMass: 1, Class: 0},
			{PayloadMass: 2, Class: 0},
			{PayloadMass: 3, Class: 1},
			{PayloadMass: 4, Class: 1},
		})
		want := 2 / math.Sqrt(5)
		if r := PayloadCorrelation(table); !almostEqual(r, want) {
			t.Errorf("PayloadCorrelation() = %v, want %v", r, want)
		}
	})

	t.Run("constant outcome yields zero", func(t *testing.T) {
		table := models.NewTable([]models.LaunchRecord{
			{PayloadMass: 1000, Class: 1},
			{PayloadMass: 2000, Class: 1},
		})
		if r := PayloadCorrelation(table); r != 0 {
			t.Errorf("PayloadCorrelation() = %v, want 0", r)
		}
	})

	t.Run("single row yields zero", func(t *testing.T) {
		table := models.NewTable([]models.LaunchRecord{{PayloadMass: 1000, Class: 1}})
		if r := PayloadCorrelation(table); r != 0 {
			t.Errorf("PayloadCorrelation() = %v, want 0", r)
		}
	})
}

func TestSiteRankings(t *testing.T) {
	table := models.NewTable([]models.LaunchRecord{
		{Site: "CCAFS LC-40", Class: 0},
		{Site: "CCAFS LC-40", Class: 1},
		{Site: "KSC LC-39A", Class: 1},
		{Site: "KSC LC-39A", Class: 1},
		{Site: "VAFB SLC-4E", Class: 0},
	})

	summary := newTestEngine().Analyze(table)
	rankings := summary.SiteRankings

	if len(rankings) != 3 {
		t.Fatalf("len(SiteRankings) = %v, want 3", len(rankings))
	}
	if rankings[0].Site != "KSC LC-39A" || !almostEqual(rankings[0].SuccessRate, 100) {
		t.Errorf("Top ranking = %+v, want KSC LC-39A at 100%%", rankings[0])
	}
	if rankings[1].Site != "CCAFS LC-40" || !almostEqual(rankings[1].SuccessRate, 50) {
		t.Errorf("Second ranking = %+v, want CCAFS LC-40 at 50%%", rankings[1])
	}
	if rankings[2].Site != "VAFB SLC-4E" || rankings[2].SuccessRate != 0 {
		t.Errorf("Last ranking = %+v, want VAFB SLC-4E at 0%%", rankings[2])
	}
	if best := summary.BestSite(); best == nil || best.Site != "KSC LC-39A" {
		t.Errorf("BestSite() = %+v, want KSC LC-39A", best)
	}
}

func TestCalculateSuccessRate(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		total     int
		expected  float64
	}{
		{"zero total", 0, 0, 0},
		{"all successes", 5, 5, 100},
		{"three quarters", 3, 4, 75},
		{"none", 0, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateSuccessRate(tt.successes, tt.total); !almostEqual(got, tt.expected) {
				t.Errorf("CalculateSuccessRate(%v, %v) = %v, want %v", tt.successes, tt.total, got, tt.expected)
			}
		})
	}
}

func TestFormatPayload(t *testing.T) {
	tests := []struct {
		kg       float64
		expected string
	}{
		{0, "0 kg"},
		{500, "500 kg"},
		{1000, "1.0 t"},
		{2500, "2.5 t"},
		{9600, "9.6 t"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatPayload(tt.kg); got != tt.expected {
				t.Errorf("FormatPayload(%v) = %q, want %q", tt.kg, got, tt.expected)
			}
		})
	}
}

func TestEngine_WithoutDatabase(t *testing.T) {
	engine := newTestEngine()

	if _, err := engine.SaveSnapshot(models.NewTable(nil), nil); err == nil {
		t.Error("SaveSnapshot() should fail without a database")
	}

	points, direction, err := engine.Trend(30)
	if err != nil {
		t.Errorf("Trend() error = %v, want nil", err)
	}
	if len(points) != 0 {
		t.Errorf("Trend() points = %v, want none", points)
	}
	if direction != "unknown" {
		t.Errorf("Trend() direction = %q, want unknown", direction)
	}
}
