package ledger

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndRecentRoundTrip(t *testing.T) {
	db := openTestDB(t)

	run := Run{
		ID:                NewRunID(),
		Seed:              42,
		Width:             64,
		Height:            64,
		Plates:            6,
		WaterFrac:         0.6,
		ElapsedMillis:     1234,
		OutPNG:            "world.png",
		OutIR:             "world.json",
		InvariantsChecked: 9,
		InvariantsFailed:  0,
	}
	if err := db.Record(run); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	recent, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(recent))
	}
	if recent[0].ID != run.ID {
		t.Errorf("run id = %q, want %q", recent[0].ID, run.ID)
	}
	if recent[0].Width != 64 || recent[0].Height != 64 {
		t.Errorf("dimensions = %dx%d, want 64x64", recent[0].Width, recent[0].Height)
	}
	if recent[0].CreatedAt == "" {
		t.Error("expected CreatedAt to be populated from the table default")
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		run := Run{ID: NewRunID(), Seed: uint64(i), Width: 32, Height: 32, Plates: 4, WaterFrac: 0.5}
		if err := db.Record(run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := db.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs with limit=2, got %d", len(recent))
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if a == b {
		t.Fatal("expected distinct run ids")
	}
}
