package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	records := []RenderRecord{
		{Username: "alice", Policy: "column", FPS: 20, Format: "svg", Frames: 120, Bytes: 4096, Score: 1200, Seed: 18446744073709551615},
		{Username: "alice", Policy: "random", FPS: 20, Format: "gif", Frames: 90, Bytes: 20480, Score: 800, Seed: 42},
		{Username: "bob", Policy: "row", FPS: 10, Format: "svg", Frames: 60, Bytes: 2048, Score: 300, Seed: 7},
	}
	for _, rec := range records {
		if _, err := store.SaveRender(rec); err != nil {
			t.Fatalf("SaveRender() failed: %v", err)
		}
	}

	alice, err := store.RecentRenders("alice", 10)
	if err != nil {
		t.Fatalf("RecentRenders() failed: %v", err)
	}
	if len(alice) != 2 {
		t.Fatalf("Expected 2 alice renders, got %d", len(alice))
	}

	// Newest first.
	if alice[0].Policy != "random" || alice[1].Policy != "column" {
		t.Errorf("Renders not in recency order: %v", alice)
	}

	// Seeds above math.MaxInt64 survive the round trip.
	if alice[1].Seed != 18446744073709551615 {
		t.Errorf("Seed round trip failed: got %d", alice[1].Seed)
	}

	all, err := store.RecentRenders("", 10)
	if err != nil {
		t.Fatalf("RecentRenders() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 renders across users, got %d", len(all))
	}
}

func TestStoreRecentRendersLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRender(RenderRecord{Username: "alice", Policy: "column", FPS: 20, Format: "svg", Score: (i + 1) * 100})
	}

	records, err := store.RecentRenders("alice", 3)
	if err != nil {
		t.Fatalf("RecentRenders() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 renders with limit, got %d", len(records))
	}
	if records[0].Score != 500 || records[1].Score != 400 || records[2].Score != 300 {
		t.Errorf("Renders not in expected order: %v", records)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty history, got %d", high)
	}

	store.SaveRender(RenderRecord{Username: "alice", Policy: "column", Format: "svg", Score: 100})
	store.SaveRender(RenderRecord{Username: "alice", Policy: "row", Format: "svg", Score: 300})
	store.SaveRender(RenderRecord{Username: "alice", Policy: "random", Format: "gif", Score: 200})

	high, err = store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRender(RenderRecord{Username: "alice", Policy: "column", Format: "svg", Bytes: 1000, Score: 100})
	store.SaveRender(RenderRecord{Username: "alice", Policy: "column", Format: "svg", Bytes: 3000, Score: 300})
	store.SaveRender(RenderRecord{Username: "bob", Policy: "row", Format: "gif", Bytes: 9000, Score: 900})

	stats, err := store.Stats("alice")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Renders != 2 {
		t.Errorf("Expected 2 renders, got %d", stats.Renders)
	}
	if stats.HighScore != 300 {
		t.Errorf("Expected high score 300, got %d", stats.HighScore)
	}
	if stats.AvgScore != 200 {
		t.Errorf("Expected average 200, got %f", stats.AvgScore)
	}
	if stats.TotalBytes != 4000 {
		t.Errorf("Expected 4000 total bytes, got %d", stats.TotalBytes)
	}
}

func TestStoreClearHistory(t *testing.T) {
	store := openTestStore(t)

	store.SaveRender(RenderRecord{Username: "alice", Policy: "column", Format: "svg", Score: 100})
	store.SaveRender(RenderRecord{Username: "bob", Policy: "row", Format: "svg", Score: 200})

	if err := store.ClearHistory("alice"); err != nil {
		t.Fatalf("ClearHistory() failed: %v", err)
	}

	alice, _ := store.RecentRenders("alice", 10)
	if len(alice) != 0 {
		t.Errorf("Expected 0 alice renders after clear, got %d", len(alice))
	}
	bob, _ := store.RecentRenders("bob", 10)
	if len(bob) != 1 {
		t.Errorf("Bob history should not be affected by clearing alice")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
