package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/analytics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/charts"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/export"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/insights"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/layout"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/logger"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// Generator writes the static report bundle: a dashboard snapshot with the
// chart data inlined, one page per launch site, a manifest, and the
// configured data exports. The bundle needs no server.
type Generator struct {
	config    *config.Config
	analytics *analytics.Engine
	insights  *insights.Analyzer
	exporter  *export.Exporter
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		config:    cfg,
		analytics: analytics.NewEngine(cfg, nil), // Reports never touch the history database
		insights:  insights.NewAnalyzer(),
		exporter:  export.NewExporter(cfg),
	}
}

// Generate renders the report bundle for the table into outputDir
func (g *Generator) Generate(table *models.Table, outputDir string) error {
	start := time.Now()
	logger.Info("Starting report generation...")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("Running analytics...")
	summary := g.analytics.Analyze(table)
	ins := g.insights.BuildSummary(summary, table, "unknown")

	logger.Info("Rendering dashboard snapshot...")
	if err := g.renderIndex(table, summary, ins, outputDir); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	logger.Info("Rendering site pages...")
	if err := g.renderSitePages(table, outputDir); err != nil {
		return fmt.Errorf("failed to render site pages: %w", err)
	}

	logger.Info("Writing manifest...")
	if err := g.writeManifest(table, summary, outputDir); err != nil {
		logger.Warnf("Failed to write manifest: %v", err)
	}

	if len(g.config.ExportFormats) > 0 {
		logger.Info("Exporting data files...")
		g.exportFormats(table, summary)
	}

	duration := time.Since(start)
	logger.Infof("Report generated successfully in %v", duration)
	logger.Infof("Open: file://%s/index.html", outputDir)

	return nil
}

// pageData feeds the static page template
type pageData struct {
	Title       string
	Site        string
	GeneratedAt time.Time
	Summary     *analytics.Summary
	Insights    *insights.Summary
	Pie         charts.PieChart
	Scatter     charts.ScatterChart
	SiteLinks   []siteLink
}

type siteLink struct {
	Site string
	File string
}

// renderIndex writes the all-sites snapshot with links to the site pages
func (g *Generator) renderIndex(table *models.Table, summary *analytics.Summary, ins *insights.Summary, outputDir string) error {
	links := make([]siteLink, 0)
	for _, site := range table.Sites() {
		links = append(links, siteLink{Site: site, File: htmlFileName(site)})
	}

	data := &pageData{
		Title:       layout.DefaultTitle,
		Site:        models.SiteAll,
		GeneratedAt: time.Now(),
		Summary:     summary,
		Insights:    ins,
		Pie:         charts.SuccessPie(table, models.SiteAll),
		Scatter:     charts.PayloadScatter(table, models.SiteAll, layout.SliderMin, layout.SliderMax),
		SiteLinks:   links,
	}
	return g.renderPage(data, filepath.Join(outputDir, "index.html"))
}

// renderSitePages writes one snapshot per launch site, in parallel
func (g *Generator) renderSitePages(table *models.Table, outputDir string) error {
	sites := table.Sites()

	var wg sync.WaitGroup
	errs := make(chan error, len(sites))

	// Limit concurrency
	semaphore := make(chan struct{}, g.config.MaxConcurrentRender)

	for _, site := range sites {
		wg.Add(1)
		go func(site string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			data := &pageData{
				Title:       layout.DefaultTitle,
				Site:        site,
				GeneratedAt: time.Now(),
				Summary:     g.analytics.AnalyzeSite(table, site),
				Pie:         charts.SuccessPie(table, site),
				Scatter:     charts.PayloadScatter(table, site, layout.SliderMin, layout.SliderMax),
			}
			if err := g.renderPage(data, filepath.Join(outputDir, htmlFileName(site))); err != nil {
				errs <- err
			}
		}(site)
	}

	wg.Wait()
	close(errs)

	var firstError error
	for err := range errs {
		if firstError == nil {
			firstError = err
		}
		logger.Errorf("Failed to render site page: %v", err)
	}
	return firstError
}

func (g *Generator) renderPage(data *pageData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pageTemplate().Execute(f, data)
}

// writeManifest records what the bundle contains
func (g *Generator) writeManifest(table *models.Table, summary *analytics.Summary, outputDir string) error {
	type manifestSite struct {
		Site        string  `json:"site"`
		File        string  `json:"file"`
		Launches    int     `json:"launches"`
		SuccessRate float64 `json:"success_rate"`
	}

	sites := make([]manifestSite, 0)
	counts := table.CountBySite()
	successes := table.SuccessCountBySite()
	for _, site := range table.Sites() {
		sites = append(sites, manifestSite{
			Site:        site,
			File:        htmlFileName(site),
			Launches:    counts[site],
			SuccessRate: analytics.CalculateSuccessRate(successes[site], counts[site]),
		})
	}

	manifest := map[string]interface{}{
		"title":        layout.DefaultTitle,
		"generated_at": time.Now().Format(time.RFC3339),
		"rows":         table.Len(),
		"success_rate": summary.SuccessRate,
		"sites":        sites,
		"exports":      g.config.ExportFormats,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "manifest.json"), data, 0644)
}

// exportFormats writes the configured data exports next to the pages
func (g *Generator) exportFormats(table *models.Table, summary *analytics.Summary) {
	for _, format := range g.config.ExportFormats {
		if format == "html" {
			continue // Already generated
		}

		logger.Infof("Exporting to %s...", format)
		path, err := g.exporter.Export(table, summary, format)
		if err != nil {
			logger.Warnf("Failed to export to %s: %v", format, err)
			continue
		}
		logger.Infof("Exported %s", path)
	}
}

// htmlFileName maps a launch site to its page file name
func htmlFileName(site string) string {
	slug := strings.ToLower(site)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	return "site-" + slug + ".html"
}

// pageTemplate returns the static snapshot template
func pageTemplate() *template.Template {
	funcMap := template.FuncMap{
		"toJSON": func(v interface{}) (template.JS, error) {
			data, err := json.Marshal(v)
			return template.JS(data), err
		},
		"formatPayload": func(mass float64) string {
			return analytics.FormatPayload(mass)
		},
		"formatSuccessRate": func(rate float64) string {
			return fmt.Sprintf("%.1f", rate)
		},
		"formatTimestamp": func(t time.Time) string {
			return t.Format("January 2, 2006 at 3:04 PM")
		},
	}
	return template.Must(template.New("report").Funcs(funcMap).Parse(reportTemplate))
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}{{if ne .Site "ALL"}} - {{.Site}}{{end}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>
    <style>
        @import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap');
        body { font-family: 'Inter', sans-serif; }
    </style>
</head>
<body class="bg-gray-50">
    <header class="bg-white border-b border-gray-200 shadow-sm">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-4">
            <div class="flex items-center justify-between">
                <div>
                    <h1 class="text-2xl font-bold text-gray-900">{{.Title}}</h1>
                    <p class="text-sm text-gray-500 mt-1">{{if eq .Site "ALL"}}All sites{{else}}{{.Site}}{{end}} - snapshot of {{formatTimestamp .GeneratedAt}}</p>
                </div>
                {{if .Summary}}
                <span class="px-3 py-1 rounded-full text-sm font-medium {{if gt .Summary.SuccessRate 80.0}}bg-green-100 text-green-800{{else if gt .Summary.SuccessRate 50.0}}bg-yellow-100 text-yellow-800{{else}}bg-red-100 text-red-800{{end}}">
                    {{formatSuccessRate .Summary.SuccessRate}}% Success Rate
                </span>
                {{end}}
            </div>
        </div>
    </header>

    <main class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8">
        {{if .Summary}}
        <section class="mb-8">
            <div class="grid grid-cols-2 md:grid-cols-4 gap-6">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <p class="text-sm font-medium text-gray-600">Launches</p>
                    <p class="text-3xl font-bold text-gray-900 mt-2">{{.Summary.TotalLaunches}}</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-green-200 p-6">
                    <p class="text-sm font-medium text-gray-600">Successful</p>
                    <p class="text-3xl font-bold text-green-600 mt-2">{{.Summary.Successes}}</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <p class="text-sm font-medium text-gray-600">Failed</p>
                    <p class="text-3xl font-bold text-red-600 mt-2">{{.Summary.Failures}}</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <p class="text-sm font-medium text-gray-600">Payload Range</p>
                    <p class="text-lg font-semibold text-gray-900 mt-2">{{formatPayload .Summary.Payload.Min}} to {{formatPayload .Summary.Payload.Max}}</p>
                </div>
            </div>
        </section>
        {{end}}

        <section class="mb-8">
            <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <div style="position: relative; height: 320px; width: 100%;">
                        <canvas id="successPie"></canvas>
                    </div>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <div style="position: relative; height: 320px; width: 100%;">
                        <canvas id="payloadScatter"></canvas>
                    </div>
                </div>
            </div>
        </section>

        {{if .Insights}}
        <section class="mb-8">
            <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                <h2 class="text-lg font-semibold text-gray-900 mb-4">Program Outlook: {{.Insights.Outlook}}</h2>
                <div class="space-y-2">
                    {{range .Insights.KeyFindings}}
                    <p class="text-sm text-gray-700">{{.}}</p>
                    {{end}}
                </div>
                <p class="text-sm text-blue-800 bg-blue-50 rounded-lg p-3 border border-blue-200 mt-4">{{.Insights.Recommendation}}</p>
            </div>
        </section>
        {{end}}

        {{if .SiteLinks}}
        <section class="mb-8">
            <h2 class="text-lg font-semibold text-gray-900 mb-4">Launch Sites</h2>
            <div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-4">
                {{range .SiteLinks}}
                <a href="{{.File}}" class="bg-white rounded-lg shadow-sm border border-gray-200 p-4 hover:shadow-md transition-shadow text-sm font-medium text-blue-600">
                    {{.Site}}
                </a>
                {{end}}
            </div>
        </section>
        {{else}}
        <section class="mb-8">
            <a href="index.html" class="text-sm font-medium text-blue-600">Back to all sites</a>
        </section>
        {{end}}
    </main>

    <script>
        const pie = {{toJSON .Pie}};
        const scatter = {{toJSON .Scatter}};

        new Chart(document.getElementById('successPie'), {
            type: 'pie',
            data: {
                labels: pie.labels || [],
                datasets: [{ data: pie.values || [], backgroundColor: pie.colors || [] }]
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                plugins: {
                    title: { display: true, text: pie.title },
                    legend: { position: 'bottom' }
                }
            }
        });

        new Chart(document.getElementById('payloadScatter'), {
            type: 'scatter',
            data: {
                datasets: (scatter.series || []).map(function (s) {
                    return {
                        label: s.name,
                        data: (s.points || []).map(function (p) { return { x: p.x, y: p.y }; }),
                        backgroundColor: s.color,
                        pointRadius: 5
                    };
                })
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                plugins: {
                    title: { display: true, text: scatter.title },
                    legend: { position: 'bottom' }
                },
                scales: {
                    x: { title: { display: true, text: scatter.x_label } },
                    y: {
                        min: -0.2,
                        max: 1.2,
                        ticks: {
                            stepSize: 1,
                            callback: function (v) {
                                if (v === 1) { return 'Success'; }
                                if (v === 0) { return 'Failure'; }
                                return '';
                            }
                        },
                        title: { display: true, text: scatter.y_label }
                    }
                }
            }
        });
    </script>
</body>
</html>`
