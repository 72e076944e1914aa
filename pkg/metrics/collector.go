package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/dataset"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// Collector provides Prometheus metrics for the launch dashboard.
type Collector struct {
	mu    sync.RWMutex
	table *models.Table
	stats *dataset.FetchStats

	// Dataset metrics
	launchesTotal     *prometheus.GaugeVec
	launchSuccessRate *prometheus.GaugeVec
	datasetRows       prometheus.Gauge

	// Fetch metrics
	fetchDuration  prometheus.Gauge
	fetchTimestamp prometheus.Gauge

	// Request metrics
	chartRequests  *prometheus.CounterVec
	exportRequests *prometheus.CounterVec
}

// NewCollector creates a new Collector instance.
func NewCollector() *Collector {
	c := &Collector{
		launchesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spacex_launches_total",
				Help: "Total number of launches by site",
			},
			[]string{"site"},
		),
		launchSuccessRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spacex_launch_success_rate",
				Help: "Percentage of successful launches by site",
			},
			[]string{"site"},
		),
		datasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spacex_dataset_rows",
				Help: "Number of launch records in the loaded dataset",
			},
		),
		fetchDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spacex_dataset_fetch_duration_seconds",
				Help: "Duration of the last dataset fetch",
			},
		),
		fetchTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spacex_dataset_fetch_timestamp_seconds",
				Help: "Unix time of the last dataset fetch",
			},
		),
		chartRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spacex_chart_requests_total",
				Help: "Total number of chart builds by chart kind",
			},
			[]string{"chart"},
		),
		exportRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spacex_export_requests_total",
				Help: "Total number of dataset exports by format",
			},
			[]string{"format"},
		),
	}

	return c
}

// SetDataset points the collector at the loaded table and its fetch stats.
// Dataset gauges are recomputed from it on every scrape.
func (c *Collector) SetDataset(table *models.Table, stats *dataset.FetchStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
	c.stats = stats
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.launchesTotal.Describe(ch)
	c.launchSuccessRate.Describe(ch)
	c.datasetRows.Describe(ch)
	c.fetchDuration.Describe(ch)
	c.fetchTimestamp.Describe(ch)
	c.chartRequests.Describe(ch)
	c.exportRequests.Describe(ch)
}

// Collect implements prometheus.Collector and updates the dataset gauges
// from the loaded table.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	table, stats := c.table, c.stats
	c.mu.RUnlock()

	if table != nil {
		c.collectLaunchMetrics(table)
	}
	if stats != nil {
		c.collectFetchMetrics(stats)
	}

	c.launchesTotal.Collect(ch)
	c.launchSuccessRate.Collect(ch)
	c.datasetRows.Collect(ch)
	c.fetchDuration.Collect(ch)
	c.fetchTimestamp.Collect(ch)
	c.chartRequests.Collect(ch)
	c.exportRequests.Collect(ch)
}

func (c *Collector) collectLaunchMetrics(table *models.Table) {
	counts := table.CountBySite()
	successes := table.SuccessCountBySite()

	c.launchesTotal.Reset()
	c.launchSuccessRate.Reset()
	for site, count := range counts {
		c.launchesTotal.WithLabelValues(site).Set(float64(count))
		rate := float64(successes[site]) / float64(count) * 100
		c.launchSuccessRate.WithLabelValues(site).Set(rate)
	}

	c.launchesTotal.WithLabelValues(models.SiteAll).Set(float64(table.Len()))
	c.launchSuccessRate.WithLabelValues(models.SiteAll).Set(table.SuccessRate())

	c.datasetRows.Set(float64(table.Len()))
}

func (c *Collector) collectFetchMetrics(stats *dataset.FetchStats) {
	c.fetchDuration.Set(stats.Duration.Seconds())
	c.fetchTimestamp.Set(float64(stats.FetchedAt.Unix()))
}

// RecordChartRequest increments the chart build counter.
func (c *Collector) RecordChartRequest(chart string) {
	c.chartRequests.WithLabelValues(chart).Inc()
}

// RecordExport increments the export counter.
func (c *Collector) RecordExport(format string) {
	c.exportRequests.WithLabelValues(format).Inc()
}
