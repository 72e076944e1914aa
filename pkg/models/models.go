package models

// SiteAll selects every launch site; it is the default dropdown value.
const SiteAll = "ALL"

// LaunchSites lists the four launch sites in the dataset. The dropdown
// offers SiteAll plus these, in this order.
var LaunchSites = []string{
	"CCAFS LC-40",
	"VAFB SLC-4E",
	"KSC LC-39A",
	"CCAFS SLC-40",
}

// Outcome class values. The dataset encodes a successful landing outcome
// as 1 and a failure as 0.
const (
	ClassFailure = 0
	ClassSuccess = 1
)

// LaunchRecord represents a single launch row from the dataset
type LaunchRecord struct {
	FlightNumber    int     `json:"flight_number"`
	Site            string  `json:"launch_site"`
	PayloadMass     float64 `json:"payload_mass_kg"`
	Class           int     `json:"class"`
	BoosterVersion  string  `json:"booster_version,omitempty"`
	BoosterCategory string  `json:"booster_version_category"`
}

// Success reports whether the launch outcome was successful
func (r LaunchRecord) Success() bool {
	return r.Class == ClassSuccess
}

// Table is an ordered collection of launch records. It is built once at
// startup and never mutated; filters return new projections.
type Table struct {
	records []LaunchRecord
}

// NewTable creates a table over a copy of the given records
func NewTable(records []LaunchRecord) *Table {
	rs := make([]LaunchRecord, len(records))
	copy(rs, records)
	return &Table{records: rs}
}

// Len returns the number of records in the table
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the rows in table order
func (t *Table) Records() []LaunchRecord {
	out := make([]LaunchRecord, len(t.records))
	copy(out, t.records)
	return out
}

// FilterBySite returns the rows launched from the given site. SiteAll
// returns every row.
func (t *Table) FilterBySite(site string) *Table {
	if site == SiteAll {
		return NewTable(t.records)
	}
	var filtered []LaunchRecord
	for _, r := range t.records {
		if r.Site == site {
			filtered = append(filtered, r)
		}
	}
	return NewTable(filtered)
}

// FilterByPayload returns the rows whose payload mass lies in the
// inclusive range [lo, hi].
func (t *Table) FilterByPayload(lo, hi float64) *Table {
	var filtered []LaunchRecord
	for _, r := range t.records {
		if r.PayloadMass >= lo && r.PayloadMass <= hi {
			filtered = append(filtered, r)
		}
	}
	return NewTable(filtered)
}

// SuccessCount returns the number of successful launches
func (t *Table) SuccessCount() int {
	count := 0
	for _, r := range t.records {
		if r.Success() {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed launches
func (t *Table) FailureCount() int {
	return len(t.records) - t.SuccessCount()
}

// SuccessRate returns the percentage of successful launches, 0 for an
// empty table.
func (t *Table) SuccessRate() float64 {
	if len(t.records) == 0 {
		return 0
	}
	return float64(t.SuccessCount()) / float64(len(t.records)) * 100
}

// CountBySite returns launch counts keyed by site
func (t *Table) CountBySite() map[string]int {
	counts := make(map[string]int)
	for _, r := range t.records {
		counts[r.Site]++
	}
	return counts
}

// SuccessCountBySite returns successful launch counts keyed by site
func (t *Table) SuccessCountBySite() map[string]int {
	counts := make(map[string]int)
	for _, r := range t.records {
		if r.Success() {
			counts[r.Site]++
		}
	}
	return counts
}

// Sites returns the distinct launch sites in first-seen order
func (t *Table) Sites() []string {
	seen := make(map[string]bool)
	var sites []string
	for _, r := range t.records {
		if !seen[r.Site] {
			seen[r.Site] = true
			sites = append(sites, r.Site)
		}
	}
	return sites
}

// BoosterCategories returns the distinct booster version categories in
// first-seen order
func (t *Table) BoosterCategories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, r := range t.records {
		if !seen[r.BoosterCategory] {
			seen[r.BoosterCategory] = true
			categories = append(categories, r.BoosterCategory)
		}
	}
	return categories
}

// MinPayload returns the smallest payload mass, 0 for an empty table
func (t *Table) MinPayload() float64 {
	if len(t.records) == 0 {
		return 0
	}
	min := t.records[0].PayloadMass
	for _, r := range t.records[1:] {
		if r.PayloadMass < min {
			min = r.PayloadMass
		}
	}
	return min
}

// MaxPayload returns the largest payload mass, 0 for an empty table
func (t *Table) MaxPayload() float64 {
	if len(t.records) == 0 {
		return 0
	}
	max := t.records[0].PayloadMass
	for _, r := range t.records[1:] {
		if r.PayloadMass > max {
			max = r.PayloadMass
		}
	}
	return max
}

// PayloadMasses returns every payload mass in table order
func (t *Table) PayloadMasses() []float64 {
	out := make([]float64, len(t.records))
	for i, r := range t.records {
		out[i] = r.PayloadMass
	}
	return out
}

// OutcomeClasses returns every outcome class in table order, as floats
// for the statistics routines
func (t *Table) OutcomeClasses() []float64 {
	out := make([]float64, len(t.records))
	for i, r := range t.records {
		out[i] = float64(r.Class)
	}
	return out
}
