package storage

import (
	"errors"
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

func finish(t *testing.T, store *Store, r RideResult) {
	t.Helper()
	if err := store.FinishRide(r); err != nil {
		t.Fatalf("FinishRide(%s) failed: %v", r.SessionID, err)
	}
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

func TestStoreRideLifecycle(t *testing.T) {
	store := openTestStore(t)

	if err := store.StartRide("s1", "alice"); err != nil {
		t.Fatalf("StartRide() failed: %v", err)
	}

	r, err := store.RideByID("s1")
	if err != nil {
		t.Fatalf("RideByID() failed: %v", err)
	}
	if r.Finished() || r.Player != "alice" || !r.EndedAt.IsZero() {
		t.Errorf("in-progress ride = %+v", r)
	}

	finish(t, store, RideResult{
		SessionID:     "s1",
		Player:        "alice",
		Outcome:       "finished",
		LevelReached:  2,
		MaxSpeed:      21.5,
		TotalDistance: 2500,
		TotalTime:     140.25,
		SuccessRatio:  0.9,
		LevelTimes: []LevelTime{
			{Level: 2, Seconds: 80, Completed: true},
			{Level: 1, Seconds: 60.25, Completed: true},
		},
	})

	r, err = store.RideByID("s1")
	if err != nil {
		t.Fatalf("RideByID() failed: %v", err)
	}
	if !r.Finished() || r.Outcome != "finished" || r.LevelReached != 2 {
		t.Errorf("finished ride = %+v", r)
	}
	if r.TotalDistance != 2500 || r.TotalTime != 140.25 || r.MaxSpeed != 21.5 {
		t.Errorf("totals = %v m, %v s, %v top", r.TotalDistance, r.TotalTime, r.MaxSpeed)
	}
	if len(r.LevelTimes) != 2 || r.LevelTimes[0].Level != 1 || !r.LevelTimes[0].Completed {
		t.Errorf("LevelTimes = %+v, expected two completed levels in order", r.LevelTimes)
	}
}

func TestStoreFinishWithoutStart(t *testing.T) {
	store := openTestStore(t)

	finish(t, store, RideResult{SessionID: "orphan", Player: "bob", Outcome: "stalled", LevelReached: 1})

	r, err := store.RideByID("orphan")
	if err != nil {
		t.Fatalf("RideByID() failed: %v", err)
	}
	if r.Player != "bob" || r.Outcome != "stalled" {
		t.Errorf("ride = %+v", r)
	}
}

func TestStoreFinishReplacesLevelTimes(t *testing.T) {
	store := openTestStore(t)

	finish(t, store, RideResult{
		SessionID:  "s1",
		Player:     "alice",
		Outcome:    "quit",
		LevelTimes: []LevelTime{{Level: 1, Seconds: 10}},
	})
	finish(t, store, RideResult{
		SessionID:  "s1",
		Player:     "alice",
		Outcome:    "exhausted",
		LevelTimes: []LevelTime{{Level: 1, Seconds: 12}},
	})

	r, err := store.RideByID("s1")
	if err != nil {
		t.Fatalf("RideByID() failed: %v", err)
	}
	if r.Outcome != "exhausted" || len(r.LevelTimes) != 1 || r.LevelTimes[0].Seconds != 12 {
		t.Errorf("ride = %+v", r)
	}
}

func TestStoreRideNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.RideByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RideByID() error = %v, expected ErrNotFound", err)
	}
}

func TestStoreStartRideDuplicate(t *testing.T) {
	store := openTestStore(t)

	if err := store.StartRide("dup", "alice"); err != nil {
		t.Fatalf("StartRide() failed: %v", err)
	}
	if err := store.StartRide("dup", "alice"); err == nil {
		t.Error("second StartRide() with the same session succeeded")
	}
}

func TestStoreTopRides(t *testing.T) {
	store := openTestStore(t)

	finish(t, store, RideResult{SessionID: "a", Player: "p1", Outcome: "stalled", TotalDistance: 500, TotalTime: 40})
	finish(t, store, RideResult{SessionID: "b", Player: "p2", Outcome: "finished", TotalDistance: 7000, TotalTime: 400})
	finish(t, store, RideResult{SessionID: "c", Player: "p3", Outcome: "finished", TotalDistance: 7000, TotalTime: 350})
	finish(t, store, RideResult{SessionID: "d", Player: "p1", Outcome: "exhausted", TotalDistance: 1200, TotalTime: 90})
	// In progress: never listed.
	if err := store.StartRide("e", "p4"); err != nil {
		t.Fatalf("StartRide() failed: %v", err)
	}

	top, err := store.TopRides(10)
	if err != nil {
		t.Fatalf("TopRides() failed: %v", err)
	}

	want := []string{"c", "b", "d", "a"}
	if len(top) != len(want) {
		t.Fatalf("TopRides() returned %d rides, expected %d", len(top), len(want))
	}
	for i, id := range want {
		if top[i].SessionID != id {
			t.Errorf("TopRides()[%d] = %s, expected %s", i, top[i].SessionID, id)
		}
	}

	limited, _ := store.TopRides(2)
	if len(limited) != 2 {
		t.Errorf("TopRides(2) returned %d rides", len(limited))
	}
}

func TestStorePlayerRides(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"r1", "r2", "r3"} {
		finish(t, store, RideResult{SessionID: id, Player: "alice", Outcome: "quit"})
	}
	finish(t, store, RideResult{SessionID: "x", Player: "bob", Outcome: "quit"})

	rides, err := store.PlayerRides("alice", 2)
	if err != nil {
		t.Fatalf("PlayerRides() failed: %v", err)
	}
	if len(rides) != 2 || rides[0].SessionID != "r3" || rides[1].SessionID != "r2" {
		t.Errorf("PlayerRides() = %+v, expected r3, r2", rides)
	}
}

func TestStoreBestLevelTimes(t *testing.T) {
	store := openTestStore(t)

	finish(t, store, RideResult{SessionID: "a", Player: "alice", Outcome: "finished", LevelTimes: []LevelTime{
		{Level: 1, Seconds: 50, Completed: true},
		{Level: 2, Seconds: 90, Completed: true},
	}})
	finish(t, store, RideResult{SessionID: "b", Player: "bob", Outcome: "stalled", LevelTimes: []LevelTime{
		{Level: 1, Seconds: 45, Completed: true},
		{Level: 2, Seconds: 10, Completed: false},
	}})

	best, err := store.BestLevelTimes()
	if err != nil {
		t.Fatalf("BestLevelTimes() failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("BestLevelTimes() = %+v, expected 2 levels", best)
	}
	if best[0].Level != 1 || best[0].Seconds != 45 || best[0].Player != "bob" {
		t.Errorf("level 1 best = %+v, expected bob in 45s", best[0])
	}
	// The unfinished 10s attempt does not count.
	if best[1].Level != 2 || best[1].Seconds != 90 || best[1].Player != "alice" {
		t.Errorf("level 2 best = %+v, expected alice in 90s", best[1])
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Rides != 0 || !stats.LastRide.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	finish(t, store, RideResult{SessionID: "a", Player: "p", Outcome: "finished", TotalDistance: 7000, MaxSpeed: 30})
	finish(t, store, RideResult{SessionID: "b", Player: "p", Outcome: "stalled", TotalDistance: 300, MaxSpeed: 12})

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Rides != 2 || stats.Finished != 1 {
		t.Errorf("counts = %d rides, %d finished", stats.Rides, stats.Finished)
	}
	if stats.TotalDistance != 7300 || stats.BestDistance != 7000 || stats.TopSpeed != 30 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastRide.IsZero() {
		t.Error("LastRide not set")
	}
}

func TestStoreClearRides(t *testing.T) {
	store := openTestStore(t)

	finish(t, store, RideResult{SessionID: "a", Player: "p", Outcome: "finished",
		LevelTimes: []LevelTime{{Level: 1, Seconds: 5, Completed: true}}})

	if err := store.ClearRides(); err != nil {
		t.Fatalf("ClearRides() failed: %v", err)
	}

	top, _ := store.TopRides(10)
	if len(top) != 0 {
		t.Errorf("TopRides() after clear = %d rides", len(top))
	}
	best, _ := store.BestLevelTimes()
	if len(best) != 0 {
		t.Errorf("BestLevelTimes() after clear = %+v", best)
	}
}
