package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

func reportTable() *models.Table {
	return models.NewTable([]models.LaunchRecord{
		{FlightNumber: 1, Site: "CCAFS LC-40", PayloadMass: 2000, Class: models.ClassSuccess, BoosterCategory: "FT", BoosterVersion: "F9 FT B1021"},
		{FlightNumber: 2, Site: "CCAFS LC-40", PayloadMass: 4500, Class: models.ClassFailure, BoosterCategory: "v1.1", BoosterVersion: "F9 v1.1 B1011"},
		{FlightNumber: 3, Site: "KSC LC-39A", PayloadMass: 5300, Class: models.ClassSuccess, BoosterCategory: "B4", BoosterVersion: "F9 B4 B1039"},
		{FlightNumber: 4, Site: "KSC LC-39A", PayloadMass: 3600, Class: models.ClassSuccess, BoosterCategory: "B5", BoosterVersion: "F9 B5 B1046"},
		{FlightNumber: 5, Site: "VAFB SLC-4E", PayloadMass: 9600, Class: models.ClassFailure, BoosterCategory: "FT", BoosterVersion: "F9 FT B1029"},
	})
}

func TestGenerator_Generate(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewConfig()
	cfg.OutputDir = dir
	cfg.ExportFormats = []string{"csv"}

	g := NewGenerator(cfg)
	table := reportTable()

	if err := g.Generate(table, dir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantFiles := []string{
		"index.html",
		"manifest.json",
		"site-ccafs-lc-40.html",
		"site-ksc-lc-39a.html",
		"site-vafb-slc-4e.html",
		"launch-records.csv",
	}
	for _, name := range wantFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Generate() did not write %s: %v", name, err)
		}
	}
}

func TestGenerator_IndexContents(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewConfig()
	cfg.OutputDir = dir
	cfg.ExportFormats = nil

	g := NewGenerator(cfg)
	if err := g.Generate(reportTable(), dir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("Failed to read index.html: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"SpaceX Launch Records Dashboard",
		`id="successPie"`,
		`id="payloadScatter"`,
		"Program Outlook",
		`href="site-ksc-lc-39a.html"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("index.html missing %q", want)
		}
	}
}

func TestGenerator_SitePageContents(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewConfig()
	cfg.OutputDir = dir
	cfg.ExportFormats = nil

	g := NewGenerator(cfg)
	if err := g.Generate(reportTable(), dir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "site-ksc-lc-39a.html"))
	if err != nil {
		t.Fatalf("Failed to read site page: %v", err)
	}
	html := string(data)

	if !strings.Contains(html, "KSC LC-39A") {
		t.Errorf("site page missing site name")
	}
	if !strings.Contains(html, `href="index.html"`) {
		t.Errorf("site page missing link back to index")
	}
	// Site pages carry no insights section.
	if strings.Contains(html, "Program Outlook") {
		t.Errorf("site page should not contain the outlook section")
	}
}

func TestGenerator_Manifest(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewConfig()
	cfg.OutputDir = dir
	cfg.ExportFormats = []string{"csv"}

	g := NewGenerator(cfg)
	table := reportTable()
	if err := g.Generate(table, dir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}

	var manifest struct {
		Title string `json:"title"`
		Rows  int    `json:"rows"`
		Sites []struct {
			Site        string  `json:"site"`
			File        string  `json:"file"`
			Launches    int     `json:"launches"`
			SuccessRate float64 `json:"success_rate"`
		} `json:"sites"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("Failed to decode manifest: %v", err)
	}

	if manifest.Rows != table.Len() {
		t.Errorf("manifest rows = %d, want %d", manifest.Rows, table.Len())
	}
	if len(manifest.Sites) != 3 {
		t.Fatalf("manifest sites = %d, want 3", len(manifest.Sites))
	}
	if manifest.Sites[0].Site != "CCAFS LC-40" || manifest.Sites[0].Launches != 2 {
		t.Errorf("manifest first site = %+v, want CCAFS LC-40 with 2 launches", manifest.Sites[0])
	}
	if manifest.Sites[1].SuccessRate != 100 {
		t.Errorf("KSC success rate = %v, want 100", manifest.Sites[1].SuccessRate)
	}
}

func TestHTMLFileName(t *testing.T) {
	tests := []struct {
		site string
		want string
	}{
		{"CCAFS LC-40", "site-ccafs-lc-40.html"},
		{"VAFB SLC-4E", "site-vafb-slc-4e.html"},
		{"KSC LC-39A", "site-ksc-lc-39a.html"},
		{"CCAFS SLC-40", "site-ccafs-slc-40.html"},
	}

	for _, tt := range tests {
		if got := htmlFileName(tt.site); got != tt.want {
			t.Errorf("htmlFileName(%q) = %q, want %q", tt.site, got, tt.want)
		}
	}
}
