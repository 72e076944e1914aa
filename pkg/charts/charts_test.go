package charts

import (
	"reflect"
	"testing"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

func testTable() *models.Table {
	return models.NewTable([]models.LaunchRecord{
		{FlightNumber: 1, Site: "CCAFS LC-40", PayloadMass: 0, Class: 0, BoosterVersion: "F9 v1.0 B0003", BoosterCategory: "v1.0"},
		{FlightNumber: 2, Site: "CCAFS LC-40", PayloadMass: 2000, Class: 1, BoosterVersion: "F9 FT B1021", BoosterCategory: "FT"},
		{FlightNumber: 3, Site: "CCAFS LC-40", PayloadMass: 4000, Class: 1, BoosterVersion: "F9 FT B1032", BoosterCategory: "FT"},
		{FlightNumber: 4, Site: "VAFB SLC-4E", PayloadMass: 500, Class: 1, BoosterVersion: "F9 v1.1 B1003", BoosterCategory: "v1.1"},
		{FlightNumber: 5, Site: "VAFB SLC-4E", PayloadMass: 9600, Class: 0, BoosterVersion: "F9 B4 B1041", BoosterCategory: "B4"},
		{FlightNumber: 6, Site: "KSC LC-39A", PayloadMass: 3170, Class: 1, BoosterVersion: "F9 FT B1031", BoosterCategory: "FT"},
		{FlightNumber: 7, Site: "KSC LC-39A", PayloadMass: 6000, Class: 0, BoosterVersion: "F9 B4 B1039", BoosterCategory: "B4"},
		{FlightNumber: 8, Site: "CCAFS SLC-40", PayloadMass: 2500, Class: 1, BoosterVersion: "F9 B5 B1056", BoosterCategory: "B5"},
	})
}

func TestSuccessPie_AllSites(t *testing.T) {
	table := testTable()
	pie := SuccessPie(table, models.SiteAll)

	if pie.Population != table.Len() {
		t.Errorf("Population = %v, want full table size %v", pie.Population, table.Len())
	}
	if pie.Total() != float64(table.SuccessCount()) {
		t.Errorf("Total() = %v, want total success count %v", pie.Total(), table.SuccessCount())
	}

	wantLabels := []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}
	if !reflect.DeepEqual(pie.Labels, wantLabels) {
		t.Errorf("Labels = %v, want %v", pie.Labels, wantLabels)
	}

	wantValues := map[string]float64{
		"CCAFS LC-40":  2,
		"VAFB SLC-4E":  1,
		"KSC LC-39A":   1,
		"CCAFS SLC-40": 1,
	}
	for i, label := range pie.Labels {
		if pie.Values[i] != wantValues[label] {
			t.Errorf("Slice %q = %v, want %v", label, pie.Values[i], wantValues[label])
		}
	}
	if len(pie.Colors) != len(pie.Labels) {
		t.Errorf("Colors length = %v, want %v", len(pie.Colors), len(pie.Labels))
	}
}

func TestSuccessPie_SpecificSite(t *testing.T) {
	table := testTable()

	tests := []struct {
		site         string
		population   int
		successCount float64
		failureCount float64
	}{
		{"CCAFS LC-40", 3, 2, 1},
		{"VAFB SLC-4E", 2, 1, 1},
		{"KSC LC-39A", 2, 1, 1},
		{"CCAFS SLC-40", 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			pie := SuccessPie(table, tt.site)

			// The pie must aggregate the site-filtered table, not the
			// full one.
			if pie.Population != tt.population {
				t.Errorf("Population = %v, want site row count %v", pie.Population, tt.population)
			}
			if pie.Total() != float64(tt.population) {
				t.Errorf("Total() = %v, want %v", pie.Total(), tt.population)
			}

			wantLabels := []string{"Successful", "Failed"}
			if !reflect.DeepEqual(pie.Labels, wantLabels) {
				t.Errorf("Labels = %v, want %v", pie.Labels, wantLabels)
			}
			if pie.Values[0] != tt.successCount {
				t.Errorf("Successful slice = %v, want %v", pie.Values[0], tt.successCount)
			}
			if pie.Values[1] != tt.failureCount {
				t.Errorf("Failed slice = %v, want %v", pie.Values[1], tt.failureCount)
			}
		})
	}
}

func TestSuccessPie_UnknownSite(t *testing.T) {
	pie := SuccessPie(testTable(), "Boca Chica")
	if pie.Population != 0 {
		t.Errorf("Population = %v, want 0", pie.Population)
	}
	if pie.Total() != 0 {
		t.Errorf("Total() = %v, want 0", pie.Total())
	}
}

func TestPayloadScatter_InclusiveBounds(t *testing.T) {
	table := testTable()

	tests := []struct {
		name       string
		lo, hi     float64
		wantPoints int
	}{
		{"full range", 0, 10000, 8},
		{"bounds sit exactly on payloads", 500, 9600, 7},
		{"just inside lower payload", 501, 9600, 6},
		{"just inside upper payload", 500, 9599, 6},
		{"interior band", 2000, 4000, 4},
		{"empty band", 7000, 9000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := PayloadScatter(table, models.SiteAll, tt.lo, tt.hi)
			if chart.PointCount() != tt.wantPoints {
				t.Errorf("PointCount() = %v, want %v", chart.PointCount(), tt.wantPoints)
			}
			if chart.Population != tt.wantPoints {
				t.Errorf("Population = %v, want %v", chart.Population, tt.wantPoints)
			}
			for _, s := range chart.Series {
				for _, p := range s.Points {
					if p.X < tt.lo || p.X > tt.hi {
						t.Errorf("Point %v outside [%v, %v]", p.X, tt.lo, tt.hi)
					}
				}
			}
		})
	}
}

func TestPayloadScatter_SiteIntersectsRange(t *testing.T) {
	table := testTable()

	// CCAFS LC-40 has payloads 0, 2000, 4000; the band keeps the middle one.
	chart := PayloadScatter(table, "CCAFS LC-40", 1000, 3000)
	if chart.PointCount() != 1 {
		t.Fatalf("PointCount() = %v, want 1", chart.PointCount())
	}
	point := chart.Series[0].Points[0]
	if point.X != 2000 || point.Y != 1 {
		t.Errorf("Point = (%v, %v), want (2000, 1)", point.X, point.Y)
	}
	if chart.Series[0].Name != "FT" {
		t.Errorf("Series name = %q, want FT", chart.Series[0].Name)
	}
}

func TestPayloadScatter_SeriesPerBoosterCategory(t *testing.T) {
	chart := PayloadScatter(testTable(), models.SiteAll, 0, 10000)

	wantSeries := []string{"v1.0", "FT", "v1.1", "B4", "B5"}
	var got []string
	for _, s := range chart.Series {
		got = append(got, s.Name)
	}
	if !reflect.DeepEqual(got, wantSeries) {
		t.Errorf("Series = %v, want %v", got, wantSeries)
	}

	for _, s := range chart.Series {
		if len(s.Points) == 0 {
			t.Errorf("Series %q has no points", s.Name)
		}
		if s.Color == "" {
			t.Errorf("Series %q has no color", s.Name)
		}
	}

	// Tooltips carry the booster version.
	if chart.Series[0].Points[0].Label != "F9 v1.0 B0003" {
		t.Errorf("Point label = %q, want booster version", chart.Series[0].Points[0].Label)
	}
}

func TestChartBuildersDoNotMutate(t *testing.T) {
	table := testTable()
	before := table.Records()

	SuccessPie(table, models.SiteAll)
	SuccessPie(table, "KSC LC-39A")
	PayloadScatter(table, "VAFB SLC-4E", 0, 5000)

	if !reflect.DeepEqual(before, table.Records()) {
		t.Error("Chart builders mutated the source table")
	}
}

func TestScatterTitles(t *testing.T) {
	table := testTable()

	all := PayloadScatter(table, models.SiteAll, 0, 10000)
	if all.Title != "Payload vs. Outcome for All Sites" {
		t.Errorf("Title = %q", all.Title)
	}

	one := PayloadScatter(table, "KSC LC-39A", 0, 10000)
	if one.Title != "Payload vs. Outcome for KSC LC-39A" {
		t.Errorf("Title = %q", one.Title)
	}
}
