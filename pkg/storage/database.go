package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/logger"
)

// Database persists dataset fetch snapshots for historical tracking
type Database struct {
	db   *sql.DB
	path string
}

// FetchRecord represents a single successful dataset fetch
type FetchRecord struct {
	ID          string    `json:"id"`
	FetchedAt   time.Time `json:"fetched_at"`
	SourceURL   string    `json:"source_url"`
	ContentType string    `json:"content_type"`
	RowCount    int       `json:"row_count"`
	Successes   int       `json:"successes"`
	Failures    int       `json:"failures"`
	SuccessRate float64   `json:"success_rate"`
	MinPayload  float64   `json:"min_payload"`
	MaxPayload  float64   `json:"max_payload"`
	DurationMS  int64     `json:"duration_ms"`
}

// SiteStatRecord represents one site's aggregate at fetch time
type SiteStatRecord struct {
	FetchID     string  `json:"fetch_id"`
	Site        string  `json:"site"`
	Launches    int     `json:"launches"`
	Successes   int     `json:"successes"`
	SuccessRate float64 `json:"success_rate"`
}

// TrendPoint represents a single snapshot in trend order
type TrendPoint struct {
	FetchedAt   time.Time `json:"fetched_at"`
	SuccessRate float64   `json:"success_rate"`
	RowCount    int       `json:"row_count"`
	Successes   int       `json:"successes"`
	Failures    int       `json:"failures"`
}

// NewDatabase creates or opens the snapshot database under dataDir
func NewDatabase(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "launch-history.db")
	logger.Infof("Opening database at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	logger.Infof("Database initialized successfully")
	return database, nil
}

// migrate creates or updates the database schema
func (d *Database) migrate() error {
	migrations := []string{
		// Fetch snapshots table
		`CREATE TABLE IF NOT EXISTS fetches (
			id TEXT PRIMARY KEY,
			fetched_at DATETIME NOT NULL,
			source_url TEXT NOT NULL,
			content_type TEXT,
			row_count INTEGER NOT NULL,
			successes INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			success_rate REAL,
			min_payload REAL,
			max_payload REAL,
			duration_ms INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Index for recency queries
		`CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at
		 ON fetches(fetched_at DESC)`,

		// Per-site stats table
		`CREATE TABLE IF NOT EXISTS site_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fetch_id TEXT NOT NULL,
			site TEXT NOT NULL,
			launches INTEGER NOT NULL,
			successes INTEGER NOT NULL,
			success_rate REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (fetch_id) REFERENCES fetches(id)
		)`,

		// Indexes for site queries
		`CREATE INDEX IF NOT EXISTS idx_site_stats_site
		 ON site_stats(site)`,

		`CREATE INDEX IF NOT EXISTS idx_site_stats_fetch
		 ON site_stats(fetch_id)`,
	}

	for i, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	logger.Infof("Database migrations completed")
	return nil
}

// SaveFetch saves a fetch snapshot to the database
func (d *Database) SaveFetch(fetch *FetchRecord) error {
	query := `
		INSERT INTO fetches (
			id, fetched_at, source_url, content_type, row_count,
			successes, failures, success_rate,
			min_payload, max_payload, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(query,
		fetch.ID,
		fetch.FetchedAt.Format(time.RFC3339),
		fetch.SourceURL,
		fetch.ContentType,
		fetch.RowCount,
		fetch.Successes,
		fetch.Failures,
		fetch.SuccessRate,
		fetch.MinPayload,
		fetch.MaxPayload,
		fetch.DurationMS,
	)

	if err != nil {
		return fmt.Errorf("failed to save fetch snapshot: %w", err)
	}

	logger.Infof("Saved fetch snapshot: %s", fetch.ID)
	return nil
}

// SaveSiteStat saves one site's aggregate for a fetch
func (d *Database) SaveSiteStat(stat *SiteStatRecord) error {
	query := `
		INSERT INTO site_stats (
			fetch_id, site, launches, successes, success_rate
		) VALUES (?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(query,
		stat.FetchID,
		stat.Site,
		stat.Launches,
		stat.Successes,
		stat.SuccessRate,
	)

	return err
}

// GetRecentFetches retrieves the last N fetch snapshots, newest first
func (d *Database) GetRecentFetches(limit int) ([]FetchRecord, error) {
	query := `
		SELECT
			id, fetched_at, source_url, content_type, row_count,
			successes, failures, success_rate,
			min_payload, max_payload, duration_ms
		FROM fetches
		ORDER BY fetched_at DESC
		LIMIT ?
	`

	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fetches []FetchRecord
	for rows.Next() {
		var fetch FetchRecord
		var fetchedAt string

		err := rows.Scan(
			&fetch.ID,
			&fetchedAt,
			&fetch.SourceURL,
			&fetch.ContentType,
			&fetch.RowCount,
			&fetch.Successes,
			&fetch.Failures,
			&fetch.SuccessRate,
			&fetch.MinPayload,
			&fetch.MaxPayload,
			&fetch.DurationMS,
		)
		if err != nil {
			continue
		}

		fetch.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		fetches = append(fetches, fetch)
	}

	return fetches, nil
}

// GetSiteHistory retrieves historical aggregates for a specific site
func (d *Database) GetSiteHistory(site string, days int) ([]SiteStatRecord, error) {
	query := `
		SELECT
			ss.fetch_id, ss.site, ss.launches, ss.successes, ss.success_rate
		FROM site_stats ss
		JOIN fetches f ON ss.fetch_id = f.id
		WHERE ss.site = ?
		AND f.fetched_at >= datetime('now', '-' || ? || ' days')
		ORDER BY f.fetched_at DESC
	`

	rows, err := d.db.Query(query, site, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SiteStatRecord
	for rows.Next() {
		var stat SiteStatRecord
		err := rows.Scan(
			&stat.FetchID,
			&stat.Site,
			&stat.Launches,
			&stat.Successes,
			&stat.SuccessRate,
		)
		if err != nil {
			continue
		}
		stats = append(stats, stat)
	}

	return stats, nil
}

// GetTrendData retrieves snapshot trend points for the last N days,
// oldest first
func (d *Database) GetTrendData(days int) ([]*TrendPoint, error) {
	query := `
		SELECT
			fetched_at, success_rate, row_count, successes, failures
		FROM fetches
		WHERE fetched_at >= datetime('now', '-' || ? || ' days')
		ORDER BY fetched_at ASC
	`

	rows, err := d.db.Query(query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []*TrendPoint
	for rows.Next() {
		tp := &TrendPoint{}
		var fetchedAt string

		err := rows.Scan(
			&fetchedAt,
			&tp.SuccessRate,
			&tp.RowCount,
			&tp.Successes,
			&tp.Failures,
		)
		if err != nil {
			continue
		}

		tp.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		trends = append(trends, tp)
	}

	return trends, nil
}

// CleanupOldData removes snapshots older than the retention window
func (d *Database) CleanupOldData(retentionDays int) error {
	tables := []string{"site_stats", "fetches"}

	for _, table := range tables {
		query := fmt.Sprintf(`
			DELETE FROM %s
			WHERE created_at < datetime('now', '-' || ? || ' days')
		`, table)

		result, err := d.db.Exec(query, retentionDays)
		if err != nil {
			logger.Warnf("Failed to cleanup %s: %v", table, err)
			continue
		}

		rows, _ := result.RowsAffected()
		if rows > 0 {
			logger.Infof("Cleaned up %d old records from %s", rows, table)
		}
	}

	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
