package storage

import (
	"testing"
	"time"

	"specmap/internal/logging"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir(), logging.NewDiscard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadSnapshots(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{RunID: "run-1", TakenAt: base.AddDate(0, -2, 0), ArtifactCount: 10, AvgComplexity: 3.5, AvgChangeFrequency: 1.2, AvgAuthorChurn: 2, TotalRequirements: 5, LinkedRequirements: 3},
		{RunID: "run-2", TakenAt: base, ArtifactCount: 12, AvgComplexity: 4.0, AvgChangeFrequency: 1.5, AvgAuthorChurn: 2.5, TotalRequirements: 5, LinkedRequirements: 4},
	}
	for _, s := range snapshots {
		if err := db.SaveSnapshot(s); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
	}

	loaded, err := db.Snapshots(base.AddDate(-1, 0, 0))
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(loaded))
	}
	if loaded[0].RunID != "run-1" || loaded[1].RunID != "run-2" {
		t.Errorf("snapshots not ordered oldest first: %+v", loaded)
	}
	if loaded[1].AvgComplexity != 4.0 || loaded[1].LinkedRequirements != 4 {
		t.Errorf("snapshot fields lost: %+v", loaded[1])
	}
}

func TestSnapshotsSinceFilter(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	old := Snapshot{RunID: "old", TakenAt: base.AddDate(-2, 0, 0)}
	recent := Snapshot{RunID: "recent", TakenAt: base}
	for _, s := range []Snapshot{old, recent} {
		if err := db.SaveSnapshot(s); err != nil {
			t.Fatal(err)
		}
	}

	loaded, err := db.Snapshots(base.AddDate(0, -11, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].RunID != "recent" {
		t.Errorf("snapshots = %+v, want only the recent one", loaded)
	}
}

func TestTrendSamples(t *testing.T) {
	db := openTestDB(t)

	s := Snapshot{
		RunID:              "run-1",
		TakenAt:            time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		AvgComplexity:      6,
		AvgChangeFrequency: 2,
		AvgAuthorChurn:     3,
	}
	if err := db.SaveSnapshot(s); err != nil {
		t.Fatal(err)
	}

	samples, err := db.TrendSamples(time.Time{})
	if err != nil {
		t.Fatalf("TrendSamples: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	got := samples[0]
	if got.Complexity != 6 || got.ChangeFrequency != 2 || got.AuthorChurn != 3 {
		t.Errorf("sample = %+v", got)
	}
}

func TestOpenReopens(t *testing.T) {
	root := t.TempDir()
	db, err := Open(root, logging.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSnapshot(Snapshot{RunID: "r", TakenAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(root, logging.NewDiscard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	loaded, err := db2.Snapshots(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Errorf("snapshot lost across reopen: %+v", loaded)
	}
}
