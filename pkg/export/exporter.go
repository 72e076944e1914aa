package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/analytics"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/config"
	"github.com/GmillerII/IBM-DS-SpaceX-Capstone/pkg/models"
)

// csvHeader matches the dataset's own column names, so an exported CSV
// parses back through the loader.
var csvHeader = []string{
	"Flight Number",
	"Launch Site",
	"Payload Mass (kg)",
	"class",
	"Booster Version",
	"Booster Version Category",
}

// Exporter handles exporting launch data to various formats
type Exporter struct {
	config *config.Config
}

// NewExporter creates a new exporter
func NewExporter(cfg *config.Config) *Exporter {
	return &Exporter{config: cfg}
}

// Export writes the table to the configured output directory in the given
// format and returns the path written. The summary enriches the XLSX
// statistics sheet and may be nil.
func (e *Exporter) Export(table *models.Table, summary *analytics.Summary, format string) (string, error) {
	if err := os.MkdirAll(e.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	switch format {
	case "csv":
		path := filepath.Join(e.config.OutputDir, "launch-records.csv")
		return path, e.writeFile(path, func(w io.Writer) error {
			return e.WriteCSV(w, table)
		})
	case "json":
		path := filepath.Join(e.config.OutputDir, "launch-records.json")
		return path, e.writeFile(path, func(w io.Writer) error {
			return e.WriteJSON(w, table)
		})
	case "xlsx":
		path := filepath.Join(e.config.OutputDir, "launch-report.xlsx")
		f, err := e.buildWorkbook(table, summary)
		if err != nil {
			return "", err
		}
		return path, f.SaveAs(path)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (e *Exporter) writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

// WriteCSV streams the table as CSV with the dataset's column layout
func (e *Exporter) WriteCSV(w io.Writer, table *models.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range table.Records() {
		row := []string{
			strconv.Itoa(r.FlightNumber),
			r.Site,
			strconv.FormatFloat(r.PayloadMass, 'f', -1, 64),
			strconv.Itoa(r.Class),
			r.BoosterVersion,
			r.BoosterCategory,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON streams the table's records as an indented JSON array
func (e *Exporter) WriteJSON(w io.Writer, table *models.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table.Records())
}

// WriteXLSX streams the three-sheet workbook
func (e *Exporter) WriteXLSX(w io.Writer, table *models.Table, summary *analytics.Summary) error {
	f, err := e.buildWorkbook(table, summary)
	if err != nil {
		return err
	}
	return f.Write(w)
}

func (e *Exporter) buildWorkbook(table *models.Table, summary *analytics.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := e.writeLaunchSheet(f, "Launches", table); err != nil {
		return nil, err
	}
	if err := e.writeSiteSheet(f, "Site Summary", table); err != nil {
		return nil, err
	}
	if err := e.writeStatsSheet(f, "Statistics", table, summary); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex("Launches")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func (e *Exporter) writeLaunchSheet(f *excelize.File, sheet string, table *models.Table) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, r := range table.Records() {
		row := []interface{}{
			r.FlightNumber,
			r.Site,
			r.PayloadMass,
			r.Class,
			r.BoosterVersion,
			r.BoosterCategory,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeSiteSheet(f *excelize.File, sheet string, table *models.Table) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Site", "Launches", "Successes", "Failures", "Success Rate (%)"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	counts := table.CountBySite()
	successes := table.SuccessCountBySite()
	row := 2
	for _, site := range table.Sites() {
		n := counts[site]
		s := successes[site]
		values := []interface{}{site, n, s, n - s, float64(s) / float64(n) * 100}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	total := []interface{}{
		models.SiteAll,
		table.Len(),
		table.SuccessCount(),
		table.FailureCount(),
		table.SuccessRate(),
	}
	return setRow(f, sheet, row, total)
}

func (e *Exporter) writeStatsSheet(f *excelize.File, sheet string, table *models.Table, summary *analytics.Summary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Total Launches", table.Len()},
		{"Successful Landings", table.SuccessCount()},
		{"Failed Landings", table.FailureCount()},
		{"Success Rate (%)", table.SuccessRate()},
		{"Min Payload (kg)", table.MinPayload()},
		{"Max Payload (kg)", table.MaxPayload()},
	}
	if summary != nil {
		rows = append(rows,
			[]interface{}{"Mean Payload (kg)", summary.Payload.Mean},
			[]interface{}{"Median Payload (kg)", summary.Payload.Median},
			[]interface{}{"Payload Std Dev (kg)", summary.Payload.StdDev},
			[]interface{}{"Payload/Outcome Correlation", summary.PayloadCorrelation},
		)
	}

	for i, values := range rows {
		if err := setRow(f, sheet, i+1, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
