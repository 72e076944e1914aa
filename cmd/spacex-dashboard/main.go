package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/analytics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/dataset"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/export"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/insights"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/logger"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/metrics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/report"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/server"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/storage"
)

var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "spacex-dashboard",
		Short: "Interactive dashboard for SpaceX launch records",
		Long: `SpaceX Launch Records Dashboard

Fetches the public launch records dataset and serves an interactive dashboard
with per-site success charts, payload analysis, and historical tracking.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	// Serve command - fetch the dataset and host the dashboard
	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Fetch the launch records and serve the dashboard",
		Long:  "Download the launch records CSV, build the dashboard page, and serve it with its chart API. The process exits if the dataset cannot be loaded.",
		RunE:  runServe,
	}

	// Fetch command - validate the feed without serving
	var fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the launch records and print a summary",
		Long:  "Download and parse the launch records CSV, then print per-site totals without starting the server.",
		RunE:  runFetch,
	}

	// Report command - render a static bundle
	var reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Generate a static report bundle",
		Long:  "Fetch the launch records and render a self-contained HTML report with one page per launch site, a manifest, and the configured data exports.",
		RunE:  runReport,
	}

	// Export command - write data files only
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export the launch records to data files",
		Long:  "Fetch the launch records and write them in the requested formats (csv, json, xlsx).",
		RunE:  runExport,
	}

	// History command - inspect stored snapshots
	var historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show stored fetch snapshots",
		Long:  "Print the fetch snapshots recorded by previous serve runs, newest first.",
		RunE:  runHistory,
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("spacex-dashboard %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")

	serveCmd.Flags().IntP("port", "p", 0, "Port to serve the dashboard on")
	serveCmd.Flags().StringP("host", "H", "", "Host to bind the server to")
	serveCmd.Flags().Bool("no-history", false, "Do not record fetch snapshots")
	serveCmd.Flags().Bool("no-metrics", false, "Do not expose Prometheus metrics")

	reportCmd.Flags().StringP("output", "o", "report", "Output directory for the report bundle")
	reportCmd.Flags().StringSliceP("formats", "f", nil, "Data formats to export alongside the pages (csv, json, xlsx)")

	exportCmd.Flags().StringP("output", "o", "", "Output directory for exported files")
	exportCmd.Flags().StringSliceP("formats", "f", nil, "Formats to export (csv, json, xlsx)")

	historyCmd.Flags().IntP("limit", "n", 20, "Number of snapshots to show")
	historyCmd.Flags().String("site", "", "Show per-site stats for one launch site")
	historyCmd.Flags().Int("days", 90, "How far back to look for per-site stats")

	rootCmd.AddCommand(serveCmd, fetchCmd, reportCmd, exportCmd, historyCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	if v, _ := cmd.Flags().GetBool("no-history"); v {
		cfg.EnableHistory = false
	}
	if v, _ := cmd.Flags().GetBool("no-metrics"); v {
		cfg.EnableMetrics = false
	}

	// The dashboard never starts without a usable dataset: a failed GET,
	// a non-CSV response, or an empty table all abort here.
	table, stats, err := fetchDataset(cfg)
	if err != nil {
		return err
	}

	var db *storage.Database
	if cfg.EnableHistory {
		db, err = storage.NewDatabase(cfg.DataDir)
		if err != nil {
			logger.Warnf("History disabled: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	engine := analytics.NewEngine(cfg, db)
	summary := engine.Analyze(table)

	trendDirection := "unknown"
	if db != nil {
		if _, err := engine.SaveSnapshot(table, stats); err != nil {
			logger.Warnf("Failed to save fetch snapshot: %v", err)
		}
		if err := db.CleanupOldData(cfg.HistoryRetentionDays); err != nil {
			logger.Warnf("Failed to clean up old snapshots: %v", err)
		}
		if _, direction, err := engine.Trend(30); err == nil {
			trendDirection = direction
		}
	}

	ins := insights.NewAnalyzer().BuildSummary(summary, table, trendDirection)

	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector()
		collector.SetDataset(table, stats)
	}

	srv, err := server.NewServer(cfg, server.Deps{
		Table:     table,
		Stats:     stats,
		Engine:    engine,
		Summary:   summary,
		Insights:  ins,
		DB:        db,
		Collector: collector,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Infof("Received %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, stats, err := fetchDataset(cfg)
	if err != nil {
		return err
	}

	summary := analytics.NewEngine(cfg, nil).Analyze(table)

	fmt.Printf("Source:       %s\n", stats.URL)
	fmt.Printf("Content-Type: %s\n", stats.ContentType)
	fmt.Printf("Rows:         %d\n", table.Len())
	fmt.Printf("Success rate: %.1f%%\n", summary.SuccessRate)
	fmt.Printf("Payload:      %s to %s\n",
		analytics.FormatPayload(table.MinPayload()),
		analytics.FormatPayload(table.MaxPayload()))

	counts := table.CountBySite()
	successes := table.SuccessCountBySite()
	fmt.Println("Sites:")
	for _, site := range table.Sites() {
		fmt.Printf("  %-14s %3d launches, %3d landed (%.1f%%)\n",
			site, counts[site], successes[site],
			analytics.CalculateSuccessRate(successes[site], counts[site]))
	}

	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	cfg.OutputDir = outputDir
	if formats, _ := cmd.Flags().GetStringSlice("formats"); len(formats) > 0 {
		cfg.ExportFormats = formats
	}

	table, _, err := fetchDataset(cfg)
	if err != nil {
		return err
	}

	gen := report.NewGenerator(cfg)
	return gen.Generate(table, outputDir)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}
	formats, _ := cmd.Flags().GetStringSlice("formats")
	if len(formats) == 0 {
		formats = cfg.ExportFormats
	}

	table, _, err := fetchDataset(cfg)
	if err != nil {
		return err
	}

	summary := analytics.NewEngine(cfg, nil).Analyze(table)

	exporter := export.NewExporter(cfg)
	for _, format := range formats {
		path, err := exporter.Export(table, summary, format)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
		logger.Infof("Exported %s", path)
	}

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := storage.NewDatabase(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if site, _ := cmd.Flags().GetString("site"); site != "" {
		days, _ := cmd.Flags().GetInt("days")
		history, err := db.GetSiteHistory(site, days)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Printf("No snapshots for %s in the last %d days\n", site, days)
			return nil
		}

		fmt.Printf("Snapshots for %s, newest first:\n", site)
		for _, stat := range history {
			fmt.Printf("  %3d launches, %3d landed (%.1f%%)\n",
				stat.Launches, stat.Successes, stat.SuccessRate)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	fetches, err := db.GetRecentFetches(limit)
	if err != nil {
		return err
	}
	if len(fetches) == 0 {
		fmt.Println("No fetch snapshots recorded yet. Run 'spacex-dashboard serve' first.")
		return nil
	}

	for _, f := range fetches {
		fmt.Printf("%s  %4d rows  %5.1f%% success  %d ms\n",
			f.FetchedAt.Format("2006-01-02 15:04:05"), f.RowCount, f.SuccessRate, f.DurationMS)
	}

	return nil
}

// fetchDataset performs the single bounded dataset fetch every command
// starts from.
func fetchDataset(cfg *config.Config) (*models.Table, *dataset.FetchStats, error) {
	loader := dataset.NewLoader(cfg)
	table, stats, err := loader.Fetch(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load launch records: %w", err)
	}
	return table, stats, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	// A .env next to the binary overrides the ambient environment
	_ = godotenv.Load()

	var cfg *config.Config
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		cfg = config.NewConfig()
		if err := cfg.LoadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.LoadFromEnv()
	} else {
		loaded, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logger.SetLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func init() {
	// Initialize logger
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logrus.SetLevel(logrus.InfoLevel)
}
