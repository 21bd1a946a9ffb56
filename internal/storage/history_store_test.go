package storage

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHistoryStoreAppendAndRecent(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		err := store.Append(ArchiveRecord{
			SessionID:     "s1",
			EventID:       "fuel_leak",
			FiredAt:       float64(1000 + i),
			PlayerLevel:   3,
			CurrentSector: 2,
			Credits:       100 * i,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.Append(ArchiveRecord{SessionID: "s2", EventID: "space_storm", FiredAt: 2000}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.RecentForSession("s1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].FiredAt != 1002 || records[2].FiredAt != 1004 {
		t.Fatalf("expected chronological tail, got %v", records)
	}
	for _, rec := range records {
		if rec.SessionID != "s1" {
			t.Fatalf("leaked record from other session: %+v", rec)
		}
	}
}

func TestHistoryStoreStatistics(t *testing.T) {
	store := openTestStore(t)

	entries := []ArchiveRecord{
		{SessionID: "s1", EventID: "fuel_leak", FiredAt: 1},
		{SessionID: "s1", EventID: "fuel_leak", FiredAt: 2},
		{SessionID: "s2", EventID: "space_storm", FiredAt: 3},
	}
	for _, rec := range entries {
		if err := store.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err := store.Statistics()
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalEvents != 3 || stats.Sessions != 2 {
		t.Fatalf("expected 3 events over 2 sessions, got %+v", stats)
	}
	if stats.EventCounts["fuel_leak"] != 2 {
		t.Fatalf("expected 2 fuel leaks, got %v", stats.EventCounts)
	}
}

func TestHistoryStorePurgeSession(t *testing.T) {
	store := openTestStore(t)

	store.Append(ArchiveRecord{SessionID: "s1", EventID: "fuel_leak", FiredAt: 1})
	store.Append(ArchiveRecord{SessionID: "s2", EventID: "fuel_leak", FiredAt: 2})

	if err := store.PurgeSession("s1"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	stats, err := store.Statistics()
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalEvents != 1 || stats.Sessions != 1 {
		t.Fatalf("expected only s2 left, got %+v", stats)
	}
}
