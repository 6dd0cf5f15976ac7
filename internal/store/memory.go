package store

import (
	"sync"
	"time"

	"github.com/nightcouncil/mafia/internal/game"
)

type memoryEntry struct {
	room    *game.Room
	version uint64
}

// MemoryStore keeps rooms in process memory. The default backend.
type MemoryStore struct {
	rooms map[string]*memoryEntry
	mu    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Create(room *game.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[room.Code]; exists {
		return ErrCodeTaken
	}
	s.rooms[room.Code] = &memoryEntry{room: room.Clone(), version: 1}
	return nil
}

func (s *MemoryStore) Get(code string) (*game.Room, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.rooms[code]
	if !exists {
		return nil, 0, ErrNotFound
	}
	return entry.room.Clone(), entry.version, nil
}

func (s *MemoryStore) Update(room *game.Room, expectedVersion uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, exists := s.rooms[room.Code]
	if !exists {
		return ErrNotFound
	}
	if entry.version != expectedVersion {
		return ErrVersionConflict
	}
	entry.room = room.Clone()
	entry.version++
	return nil
}

func (s *MemoryStore) ExpiredActive(now time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var codes []string
	for code, entry := range s.rooms {
		if entry.room.Status == game.StatusActive && entry.room.State.Expired(now) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (s *MemoryStore) Close() error { return nil }
