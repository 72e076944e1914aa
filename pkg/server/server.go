package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/analytics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/charts"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/dataset"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/export"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/insights"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/layout"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/logger"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/metrics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/storage"
)

// Deps collects the components the server serves from. The table must be
// loaded before the server is constructed; a failed fetch never reaches
// this point.
type Deps struct {
	Table     *models.Table
	Stats     *dataset.FetchStats
	Engine    *analytics.Engine
	Summary   *analytics.Summary
	Insights  *insights.Summary
	DB        *storage.Database
	Collector *metrics.Collector
}

// Server hosts the dashboard page and its data API
type Server struct {
	config    *config.Config
	router    *mux.Router
	table     *models.Table
	stats     *dataset.FetchStats
	engine    *analytics.Engine
	summary   *analytics.Summary
	insights  *insights.Summary
	db        *storage.Database
	exporter  *export.Exporter
	collector *metrics.Collector

	page []byte
	http *http.Server
}

// NewServer creates the dashboard server. The page is rendered once here;
// the interactive controls only ever hit the chart endpoints.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Table == nil {
		return nil, errors.New("server requires a loaded launch table")
	}

	engine := deps.Engine
	if engine == nil {
		engine = analytics.NewEngine(cfg, deps.DB)
	}

	s := &Server{
		config:    cfg,
		router:    mux.NewRouter(),
		table:     deps.Table,
		stats:     deps.Stats,
		engine:    engine,
		summary:   deps.Summary,
		insights:  deps.Insights,
		db:        deps.DB,
		exporter:  export.NewExporter(cfg),
		collector: deps.Collector,
	}

	var buf bytes.Buffer
	builder := layout.NewBuilder(cfg, deps.Table, deps.Summary, deps.Insights)
	if err := builder.RenderHTML(&buf); err != nil {
		return nil, fmt.Errorf("building dashboard page: %w", err)
	}
	s.page = buf.Bytes()

	s.setupRoutes()
	return s, nil
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.http = &http.Server{Addr: addr, Handler: s.router}

	logger.Infof("Dashboard running at http://%s", addr)
	logger.Infof("Press Ctrl+C to stop")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.collector != nil {
		registry := prometheus.NewRegistry()
		registry.MustRegister(s.collector)
		s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	}

	// API endpoints
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sites", s.handleSites).Methods("GET")
	api.HandleFunc("/charts/outcomes", s.handleOutcomesChart).Methods("GET")
	api.HandleFunc("/charts/payload", s.handlePayloadChart).Methods("GET")
	api.HandleFunc("/summary", s.handleSummary).Methods("GET")
	api.HandleFunc("/insights", s.handleInsights).Methods("GET")
	api.HandleFunc("/records", s.handleRecords).Methods("GET")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/export.csv", s.handleExportCSV).Methods("GET")
	api.HandleFunc("/export.xlsx", s.handleExportXLSX).Methods("GET")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Debug("Handled request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "ok",
		"rows":   s.table.Len(),
	}
	if s.stats != nil {
		health["fetched_at"] = s.stats.FetchedAt
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	options := make([]string, 0, len(models.LaunchSites)+1)
	options = append(options, models.SiteAll)
	options = append(options, models.LaunchSites...)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": models.SiteAll,
		"sites":   options,
	})
}

func (s *Server) handleOutcomesChart(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	if s.collector != nil {
		s.collector.RecordChartRequest("success-pie")
	}
	writeJSON(w, http.StatusOK, charts.SuccessPie(s.table, site))
}

func (s *Server) handlePayloadChart(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	lo, err := floatParam(r, "min", layout.SliderMin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hi, err := floatParam(r, "max", layout.SliderMax)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.collector != nil {
		s.collector.RecordChartRequest("payload-scatter")
	}
	writeJSON(w, http.StatusOK, charts.PayloadScatter(s.table, site, lo, hi))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	if site == models.SiteAll && s.summary != nil {
		writeJSON(w, http.StatusOK, s.summary)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.AnalyzeSite(s.table, site))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		writeError(w, http.StatusNotFound, "insights are not available")
		return
	}
	writeJSON(w, http.StatusOK, s.insights)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	site := siteParam(r)
	lo, err := floatParam(r, "min", layout.SliderMin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hi, err := floatParam(r, "max", layout.SliderMax)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view := s.table
	if site != models.SiteAll {
		view = view.FilterBySite(site)
	}
	view = view.FilterByPayload(lo, hi)

	records := view.Records()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"enabled": false,
			"fetches": []storage.FetchRecord{},
		})
		return
	}

	limit, err := intParam(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fetches, err := s.db.GetRecentFetches(limit)
	if err != nil {
		logger.Errorf("Failed to load fetch history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load fetch history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"enabled": true,
		"fetches": fetches,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if s.collector != nil {
		s.collector.RecordExport("csv")
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="launch-records.csv"`)
	if err := s.exporter.WriteCSV(w, s.table); err != nil {
		logger.Errorf("Failed to stream CSV export: %v", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if s.collector != nil {
		s.collector.RecordExport("xlsx")
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="launch-report.xlsx"`)
	if err := s.exporter.WriteXLSX(w, s.table, s.summary); err != nil {
		logger.Errorf("Failed to stream XLSX export: %v", err)
	}
}

// siteParam returns the site query parameter, defaulting to every site
func siteParam(r *http.Request) string {
	site := r.URL.Query().Get("site")
	if site == "" {
		return models.SiteAll
	}
	return site
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
