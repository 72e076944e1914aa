package storage

import (
	"os"
	"testing"
	"time"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	dir, err := os.MkdirTemp("", "spacex-storage-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := NewDatabase(dir)
	if err != nil {
		t.Fatalf("NewDatabase() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndGetRecentFetches(t *testing.T) {
	db := newTestDatabase(t)

	now := time.Now().UTC().Truncate(time.Second)
	older := &FetchRecord{
		ID:          "fetch-older",
		FetchedAt:   now.Add(-2 * time.Hour),
		SourceURL:   "http://example.com/a.csv",
		ContentType: "text/csv",
		RowCount:    56,
		Successes:   31,
		Failures:    25,
		SuccessRate: 55.4,
		MinPayload:  0,
		MaxPayload:  9600,
		DurationMS:  830,
	}
	newer := &FetchRecord{
		ID:          "fetch-newer",
		FetchedAt:   now,
		SourceURL:   "http://example.com/a.csv",
		ContentType: "text/csv",
		RowCount:    57,
		Successes:   32,
		Failures:    25,
		SuccessRate: 56.1,
		MinPayload:  0,
		MaxPayload:  9600,
		DurationMS:  710,
	}

	if err := db.SaveFetch(older); err != nil {
		t.Fatalf("SaveFetch(older) failed: %v", err)
	}
	if err := db.SaveFetch(newer); err != nil {
		t.Fatalf("SaveFetch(newer) failed: %v", err)
	}

	fetches, err := db.GetRecentFetches(10)
	if err != nil {
		t.Fatalf("GetRecentFetches() failed: %v", err)
	}
	if len(fetches) != 2 {
		t.Fatalf("GetRecentFetches() returned %d records, want 2", len(fetches))
	}
	if fetches[0].ID != "fetch-newer" || fetches[1].ID != "fetch-older" {
		t.Errorf("Fetches not in reverse time order: %s, %s", fetches[0].ID, fetches[1].ID)
	}
	if fetches[0].RowCount != 57 || fetches[0].Successes != 32 {
		t.Errorf("Fetch fields not round-tripped: %+v", fetches[0])
	}
	if !fetches[0].FetchedAt.Equal(now) {
		t.Errorf("FetchedAt = %v, want %v", fetches[0].FetchedAt, now)
	}
}

func TestGetRecentFetchesLimit(t *testing.T) {
	db := newTestDatabase(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		fetch := &FetchRecord{
			ID:        string(rune('a'+i)) + "-fetch",
			FetchedAt: base.Add(time.Duration(i) * time.Minute),
			SourceURL: "http://example.com/a.csv",
			RowCount:  10 + i,
		}
		if err := db.SaveFetch(fetch); err != nil {
			t.Fatalf("SaveFetch() failed: %v", err)
		}
	}

	fetches, err := db.GetRecentFetches(3)
	if err != nil {
		t.Fatalf("GetRecentFetches() failed: %v", err)
	}
	if len(fetches) != 3 {
		t.Errorf("GetRecentFetches(3) returned %d records, want 3", len(fetches))
	}
}

func TestSiteStatsHistory(t *testing.T) {
	db := newTestDatabase(t)

	fetch := &FetchRecord{
		ID:        "fetch-1",
		FetchedAt: time.Now().UTC(),
		SourceURL: "http://example.com/a.csv",
		RowCount:  3,
	}
	if err := db.SaveFetch(fetch); err != nil {
		t.Fatalf("SaveFetch() failed: %v", err)
	}

	stats := []*SiteStatRecord{
		{FetchID: "fetch-1", Site: "KSC LC-39A", Launches: 13, Successes: 10, SuccessRate: 76.9},
		{FetchID: "fetch-1", Site: "CCAFS LC-40", Launches: 26, Successes: 7, SuccessRate: 26.9},
	}
	for _, s := range stats {
		if err := db.SaveSiteStat(s); err != nil {
			t.Fatalf("SaveSiteStat() failed: %v", err)
		}
	}

	history, err := db.GetSiteHistory("KSC LC-39A", 30)
	if err != nil {
		t.Fatalf("GetSiteHistory() failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("GetSiteHistory() returned %d records, want 1", len(history))
	}
	if history[0].Launches != 13 || history[0].Successes != 10 {
		t.Errorf("Site stat not round-tripped: %+v", history[0])
	}

	none, err := db.GetSiteHistory("Boca Chica", 30)
	if err != nil {
		t.Fatalf("GetSiteHistory() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("GetSiteHistory() for unknown site returned %d records, want 0", len(none))
	}
}

func TestGetTrendData(t *testing.T) {
	db := newTestDatabase(t)

	base := time.Now().UTC()
	rates := []float64{40.0, 55.0, 62.5}
	for i, rate := range rates {
		fetch := &FetchRecord{
			ID:          "trend-" + string(rune('a'+i)),
			FetchedAt:   base.Add(time.Duration(i-3) * time.Hour),
			SourceURL:   "http://example.com/a.csv",
			RowCount:    50,
			SuccessRate: rate,
		}
		if err := db.SaveFetch(fetch); err != nil {
			t.Fatalf("SaveFetch() failed: %v", err)
		}
	}

	trends, err := db.GetTrendData(7)
	if err != nil {
		t.Fatalf("GetTrendData() failed: %v", err)
	}
	if len(trends) != 3 {
		t.Fatalf("GetTrendData() returned %d points, want 3", len(trends))
	}
	for i, want := range rates {
		if trends[i].SuccessRate != want {
			t.Errorf("Trend point %d rate = %v, want %v (oldest first)", i, trends[i].SuccessRate, want)
		}
	}
}

func TestCleanupOldDataKeepsRecentRows(t *testing.T) {
	db := newTestDatabase(t)

	fetch := &FetchRecord{
		ID:        "fresh",
		FetchedAt: time.Now().UTC(),
		SourceURL: "http://example.com/a.csv",
		RowCount:  1,
	}
	if err := db.SaveFetch(fetch); err != nil {
		t.Fatalf("SaveFetch() failed: %v", err)
	}

	if err := db.CleanupOldData(365); err != nil {
		t.Fatalf("CleanupOldData() failed: %v", err)
	}

	fetches, err := db.GetRecentFetches(10)
	if err != nil {
		t.Fatalf("GetRecentFetches() failed: %v", err)
	}
	if len(fetches) != 1 {
		t.Errorf("CleanupOldData(365) removed fresh rows: %d left, want 1", len(fetches))
	}
}
