package store

import (
	"testing"
	"time"

	"github.com/nightcouncil/mafia/internal/game"
)

func testRoom(code string) *game.Room {
	return &game.Room{
		Code:   code,
		Status: game.StatusLobby,
		Players: []game.Player{
			{ID: "p0", Name: "Player 0", IsAlive: true},
			{ID: "p1", Name: "Player 1", IsAlive: true},
		},
		Settings:  game.Settings{MaxPlayers: 15, DayTimerSeconds: 60, NightTimerSeconds: 30},
		State:     game.GameState{Phase: game.PhaseLobby},
		CreatedAt: time.Now(),
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Create(testRoom("AAAA22")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	room, version, err := s.Get("AAAA22")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if version != 1 {
		t.Fatalf("fresh room should be at version 1, got %d", version)
	}
	if len(room.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(room.Players))
	}

	if err := s.Create(testRoom("AAAA22")); err != ErrCodeTaken {
		t.Fatalf("expected ErrCodeTaken for duplicate code, got %v", err)
	}
	if _, _, err := s.Get("NOPE99"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	original := testRoom("AAAA22")
	if err := s.Create(original); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Mutating the caller's room or a fetched snapshot must not leak into
	// the stored state.
	original.Players[0].Name = "tampered"
	snapshot, _, err := s.Get("AAAA22")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	snapshot.Players[1].IsAlive = false

	fresh, _, err := s.Get("AAAA22")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fresh.Players[0].Name != "Player 0" {
		t.Fatal("stored room shares memory with the caller's room")
	}
	if !fresh.Players[1].IsAlive {
		t.Fatal("stored room shares memory with a fetched snapshot")
	}
}

func TestMemoryStoreVersionedUpdate(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Create(testRoom("AAAA22")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	room, version, err := s.Get("AAAA22")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	room.Players[0].Name = "Renamed"
	if err := s.Update(room, version); err != nil {
		t.Fatalf("update at the current version should commit: %v", err)
	}

	// The old version is now stale.
	if err := s.Update(room, version); err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict on stale version, got %v", err)
	}

	updated, newVersion, err := s.Get("AAAA22")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if newVersion != version+1 {
		t.Fatalf("expected version %d after commit, got %d", version+1, newVersion)
	}
	if updated.Players[0].Name != "Renamed" {
		t.Fatal("committed change did not persist")
	}

	missing := testRoom("NOPE99")
	if err := s.Update(missing, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}
}

func TestMemoryStoreExpiredActive(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	expired := testRoom("EXPIRE")
	expired.Status = game.StatusActive
	expired.State = game.GameState{Phase: game.PhaseNight, DayNumber: 1, PhaseEndTime: &past}

	running := testRoom("RUNNIN")
	running.Status = game.StatusActive
	running.State = game.GameState{Phase: game.PhaseNight, DayNumber: 1, PhaseEndTime: &future}

	lobby := testRoom("LOBBY2")

	finished := testRoom("DONE22")
	finished.Status = game.StatusFinished
	finished.State = game.GameState{Phase: game.PhaseGameOver, DayNumber: 3}

	for _, r := range []*game.Room{expired, running, lobby, finished} {
		if err := s.Create(r); err != nil {
			t.Fatalf("create %s failed: %v", r.Code, err)
		}
	}

	codes, err := s.ExpiredActive(now)
	if err != nil {
		t.Fatalf("expired scan failed: %v", err)
	}
	if len(codes) != 1 || codes[0] != "EXPIRE" {
		t.Fatalf("expected only the expired active room, got %v", codes)
	}
}
