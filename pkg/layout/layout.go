package layout

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/analytics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/charts"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/insights"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// DefaultTitle is the dashboard page heading
const DefaultTitle = "SpaceX Launch Records Dashboard"

// Payload slider control bounds. The control always spans this range
// regardless of the data; only the initial handle positions come from
// the table.
const (
	SliderMin  = 0
	SliderMax  = 10000
	SliderStep = 1000
)

// SliderConfig describes the payload range control
type SliderConfig struct {
	Min       float64
	Max       float64
	Step      float64
	InitialLo float64
	InitialHi float64
}

// Page is the static description of the dashboard. It is assembled once
// at startup from the loaded table; the interactive controls re-fetch
// chart data from the API without rebuilding the page.
type Page struct {
	Title       string
	GeneratedAt time.Time
	SiteOptions []string
	Slider      SliderConfig
	Summary     *analytics.Summary
	Insights    *insights.Summary
	Records     []models.LaunchRecord

	InitialPie     charts.PieChart
	InitialScatter charts.ScatterChart
}

// Builder assembles the dashboard page
type Builder struct {
	config   *config.Config
	table    *models.Table
	summary  *analytics.Summary
	insights *insights.Summary
}

// NewBuilder creates a page builder over the loaded table and its
// precomputed analytics
func NewBuilder(cfg *config.Config, table *models.Table, summary *analytics.Summary, ins *insights.Summary) *Builder {
	return &Builder{
		config:   cfg,
		table:    table,
		summary:  summary,
		insights: ins,
	}
}

// BuildPage assembles the static page model. The site dropdown offers
// ALL plus the four launch sites; the payload slider spans 0 to 10000
// in steps of 1000 and starts at the table's own payload bounds.
func (b *Builder) BuildPage() *Page {
	options := make([]string, 0, len(models.LaunchSites)+1)
	options = append(options, models.SiteAll)
	options = append(options, models.LaunchSites...)

	slider := SliderConfig{
		Min:       SliderMin,
		Max:       SliderMax,
		Step:      SliderStep,
		InitialLo: b.table.MinPayload(),
		InitialHi: b.table.MaxPayload(),
	}

	return &Page{
		Title:          DefaultTitle,
		GeneratedAt:    time.Now(),
		SiteOptions:    options,
		Slider:         slider,
		Summary:        b.summary,
		Insights:       b.insights,
		Records:        b.table.Records(),
		InitialPie:     charts.SuccessPie(b.table, models.SiteAll),
		InitialScatter: charts.PayloadScatter(b.table, models.SiteAll, slider.InitialLo, slider.InitialHi),
	}
}

// Render writes the page as HTML
func (b *Builder) Render(w io.Writer, page *Page) error {
	return b.template().Execute(w, page)
}

// RenderHTML builds the page and renders it in one step
func (b *Builder) RenderHTML(w io.Writer) error {
	return b.Render(w, b.BuildPage())
}

// template returns the dashboard HTML template
func (b *Builder) template() *template.Template {
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
		"outcomeLabel": func(class int) string {
			if class == models.ClassSuccess {
				return "Success"
			}
			return "Failure"
		},
	}

	tmplStr := b.templateString()
	return template.Must(template.New("dashboard").Funcs(funcMap).Parse(tmplStr))
}
