package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/logger"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// Required dataset columns. Extra columns are ignored; Flight Number and
// Booster Version are captured when present.
const (
	colLaunchSite      = "Launch Site"
	colPayloadMass     = "Payload Mass (kg)"
	colClass           = "class"
	colBoosterCategory = "Booster Version Category"

	colFlightNumber   = "Flight Number"
	colBoosterVersion = "Booster Version"
)

// Failure kinds callers can test with errors.Is. Both are fatal at
// startup: the server must never start over a missing or invalid table.
var (
	ErrContentType  = errors.New("dataset is not served as text/csv")
	ErrEmptyDataset = errors.New("dataset contains no launch records")
)

// FetchStats describes one completed fetch, for logging and history
type FetchStats struct {
	URL         string
	ContentType string
	Rows        int
	Duration    time.Duration
	FetchedAt   time.Time
}

// Loader fetches and parses the launch records CSV. Each Fetch performs
// exactly one GET, bounded by the configured timeout, with no retry.
type Loader struct {
	url    string
	client *http.Client
}

// NewLoader creates a loader for the configured dataset URL
func NewLoader(cfg *config.Config) *Loader {
	return &Loader{
		url:    cfg.DatasetURL,
		client: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// Fetch downloads and parses the dataset into an immutable table
func (l *Loader) Fetch(ctx context.Context) (*models.Table, *FetchStats, error) {
	start := time.Now()
	logger.Infof("Fetching launch records from %s", l.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building dataset request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching dataset: unexpected status %s", resp.Status)
	}

	// The declared type gates parsing: a non-CSV response is rejected
	// before any of its body is interpreted.
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/csv") {
		return nil, nil, fmt.Errorf("%w: got %q", ErrContentType, contentType)
	}

	records, err := Parse(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	stats := &FetchStats{
		URL:         l.url,
		ContentType: contentType,
		Rows:        len(records),
		Duration:    time.Since(start),
		FetchedAt:   start,
	}
	logger.Infof("Parsed %d launch records in %s", stats.Rows, stats.Duration.Round(time.Millisecond))
	return models.NewTable(records), stats, nil
}

// Parse reads CSV into launch records. The header row must name the
// required columns; every following line becomes exactly one record.
func Parse(r io.Reader) ([]models.LaunchRecord, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing dataset CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: response body is empty", ErrEmptyDataset)
	}

	cols, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 1 {
		return nil, fmt.Errorf("%w: header only, no data rows", ErrEmptyDataset)
	}

	records := make([]models.LaunchRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type columnIndex struct {
	site     int
	payload  int
	class    int
	category int
	flight   int
	version  int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{site: -1, payload: -1, class: -1, category: -1, flight: -1, version: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colLaunchSite:
			idx.site = i
		case colPayloadMass:
			idx.payload = i
		case colClass:
			idx.class = i
		case colBoosterCategory:
			idx.category = i
		case colFlightNumber:
			idx.flight = i
		case colBoosterVersion:
			idx.version = i
		}
	}

	var missing []string
	if idx.site < 0 {
		missing = append(missing, colLaunchSite)
	}
	if idx.payload < 0 {
		missing = append(missing, colPayloadMass)
	}
	if idx.class < 0 {
		missing = append(missing, colClass)
	}
	if idx.category < 0 {
		missing = append(missing, colBoosterCategory)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("dataset header is missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, cols columnIndex) (models.LaunchRecord, error) {
	var rec models.LaunchRecord

	rec.Site = strings.TrimSpace(row[cols.site])
	rec.BoosterCategory = strings.TrimSpace(row[cols.category])

	class, err := strconv.Atoi(strings.TrimSpace(row[cols.class]))
	if err != nil {
		return rec, fmt.Errorf("invalid class value %q: %w", row[cols.class], err)
	}
	rec.Class = class

	mass, err := strconv.ParseFloat(strings.TrimSpace(row[cols.payload]), 64)
	if err != nil {
		return rec, fmt.Errorf("invalid payload mass %q: %w", row[cols.payload], err)
	}
	if mass < 0 {
		return rec, fmt.Errorf("negative payload mass %v", mass)
	}
	rec.PayloadMass = mass

	if cols.flight >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(row[cols.flight])); err == nil {
			rec.FlightNumber = n
		}
	}
	if cols.version >= 0 {
		rec.BoosterVersion = strings.TrimSpace(row[cols.version])
	}
	return rec, nil
}
