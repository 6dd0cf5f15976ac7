package store

import (
	"errors"
	"time"

	"github.com/nightcouncil/mafia/internal/game"
)

var (
	ErrNotFound = errors.New("room not found")
	// ErrCodeTaken is returned by Create when the room code is already in use.
	ErrCodeTaken = errors.New("room code already in use")
	// ErrVersionConflict is returned by Update when the room changed since it
	// was read. Callers re-read and retry.
	ErrVersionConflict = errors.New("room was modified concurrently")
)

// Store is the room record store: atomic read-modify-write over one Room per
// code. Get hands out an isolated copy plus a version token; Update commits
// only if that version is still current, which is what serializes concurrent
// submissions against the same room.
type Store interface {
	Create(room *game.Room) error
	Get(code string) (*game.Room, uint64, error)
	Update(room *game.Room, expectedVersion uint64) error
	// ExpiredActive lists codes of active rooms whose phase deadline has
	// passed, for the expiry sweep.
	ExpiredActive(now time.Time) ([]string, error)
	Close() error
}
