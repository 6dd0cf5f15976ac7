package gateway

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nightcouncil/mafia/internal/game"
	"github.com/nightcouncil/mafia/internal/metrics"
	"github.com/nightcouncil/mafia/internal/store"
)

const (
	codeLength        = 6
	maxUpdateAttempts = 5
	maxCreateAttempts = 20
)

// Publisher receives one change notification per committed transition. The
// payload is signal-only: subscribers re-fetch their own projection, so no
// unfiltered room state ever fans out.
type Publisher interface {
	PublishRoomUpdate(code string, phase game.Phase, dayNumber int)
}

type Config struct {
	DefaultSettings game.Settings
	// EnforceMinPlayers gates game start on settings.minPlayers. Off by
	// default; start thresholds are room-owner policy, not an engine rule.
	EnforceMinPlayers bool
	SweepInterval     time.Duration
}

// Gateway owns room storage and concurrency: it loads a room snapshot, lets
// the engine transform it, commits with a version check and publishes the
// change. The engine itself never locks or blocks, so two concurrent
// submissions against one room serialize through the version conflict retry.
type Gateway struct {
	store   store.Store
	cfg     Config
	pub     Publisher
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(st store.Store, cfg Config) *Gateway {
	return &Gateway{store: st, cfg: cfg, now: time.Now}
}

func (g *Gateway) SetPublisher(p Publisher)      { g.pub = p }
func (g *Gateway) SetMetrics(m *metrics.Metrics) { g.metrics = m }
func (g *Gateway) SetClock(now func() time.Time) { g.now = now }

// CreateRoom opens a new lobby with the creator as its first player and hands
// back the room code and the creator's player id.
func (g *Gateway) CreateRoom(hostName, hostAvatar string) (game.RoomView, string, error) {
	if hostName == "" {
		hostName = "Host"
	}
	if hostAvatar == "" {
		hostAvatar = "default"
	}
	now := g.now()
	host := game.Player{
		ID:       uuid.NewString(),
		Name:     hostName,
		Avatar:   hostAvatar,
		IsAlive:  true,
		JoinedAt: now,
	}
	room := &game.Room{
		Status:    game.StatusLobby,
		Players:   []game.Player{host},
		Settings:  g.cfg.DefaultSettings,
		State:     game.GameState{Phase: game.PhaseLobby},
		CreatedAt: now,
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		room.Code = randomCode(codeLength)
		err := g.store.Create(room)
		if errors.Is(err, store.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return game.RoomView{}, "", err
		}
		if g.metrics != nil {
			g.metrics.RoomsCreated.Inc()
		}
		log.Info().Str("code", room.Code).Str("host", hostName).Msg("room created")
		return game.Project(room, host.ID), host.ID, nil
	}
	return game.RoomView{}, "", store.ErrCodeTaken
}

// JoinRoom appends a player to a lobby. Names must be unique in the room,
// case-insensitively.
func (g *Gateway) JoinRoom(code, name, avatar string) (game.RoomView, string, error) {
	if avatar == "" {
		avatar = "default"
	}
	playerID := uuid.NewString()
	room, err := g.update(code, func(r *game.Room) error {
		if r.Status != game.StatusLobby {
			return game.ErrInvalidTransition
		}
		if len(r.Players) >= r.Settings.MaxPlayers {
			return game.ErrRoomFull
		}
		if r.HasName(name) {
			return game.ErrDuplicateName
		}
		r.Players = append(r.Players, game.Player{
			ID:       playerID,
			Name:     name,
			Avatar:   avatar,
			IsAlive:  true,
			JoinedAt: g.now(),
		})
		return nil
	})
	if err != nil {
		return game.RoomView{}, "", err
	}
	log.Info().Str("code", code).Str("playerId", playerID).Str("name", name).Msg("player joined")
	return game.Project(room, playerID), playerID, nil
}

// StartGame deals roles and opens the first night. The requester must be a
// member of the room.
func (g *Gateway) StartGame(code, playerID string) error {
	_, err := g.update(code, func(r *game.Room) error {
		if r.Player(playerID) == nil {
			return game.ErrInvalidActor
		}
		if g.cfg.EnforceMinPlayers && len(r.Players) < r.Settings.MinPlayers {
			return game.ErrInvalidTransition
		}
		return game.StartGame(r, g.now())
	})
	if err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.ActiveRooms.Inc()
	}
	log.Info().Str("code", code).Msg("game started")
	return nil
}

// SubmitNightAction records a hidden night target for a living player.
func (g *Gateway) SubmitNightAction(code, playerID, targetID string) error {
	_, err := g.update(code, func(r *game.Room) error {
		return game.RecordNightAction(r, playerID, targetID)
	})
	if err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.ActionsSubmitted.Inc()
	}
	return nil
}

// SubmitVote records a lynch vote and reports whether it completed a lynch.
func (g *Gateway) SubmitVote(code, playerID, targetID string) (bool, error) {
	var lynched bool
	var finished bool
	room, err := g.update(code, func(r *game.Room) error {
		var err error
		lynched, err = game.RecordVote(r, playerID, targetID, g.now())
		finished = r.Status == game.StatusFinished
		return err
	})
	if err != nil {
		return false, err
	}
	if g.metrics != nil {
		g.metrics.VotesSubmitted.Inc()
		if finished {
			g.metrics.ActiveRooms.Dec()
		}
	}
	if lynched {
		log.Info().Str("code", code).Str("phase", string(room.State.Phase)).Msg("lynch resolved")
	}
	return lynched, nil
}

// ProcessPhaseExpiry advances a room whose phase deadline has passed. Safe to
// call redundantly; the engine rejects rooms that already moved on.
func (g *Gateway) ProcessPhaseExpiry(code string) error {
	var finished bool
	room, err := g.update(code, func(r *game.Room) error {
		if err := game.ResolveExpiredPhase(r, g.now()); err != nil {
			return err
		}
		finished = r.Status == game.StatusFinished
		return nil
	})
	if err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.PhaseResolutions.Inc()
		if finished {
			g.metrics.ActiveRooms.Dec()
		}
	}
	log.Info().
		Str("code", code).
		Str("phase", string(room.State.Phase)).
		Int("day", room.State.DayNumber).
		Msg("phase resolved")
	return nil
}

// ViewRoom returns the room as the given viewer may see it. Every client read
// goes through the projection; there is no unredacted read path.
func (g *Gateway) ViewRoom(code, viewerID string) (game.RoomView, error) {
	room, _, err := g.store.Get(code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return game.RoomView{}, game.ErrRoomNotFound
		}
		return game.RoomView{}, err
	}
	return game.Project(room, viewerID), nil
}

// Sweep periodically resolves rooms whose phase deadline has passed, so games
// advance even when no client triggers the check. Redundant with the
// client-driven process call by design; both are no-ops once a phase moved on.
func (g *Gateway) Sweep(ctx context.Context) {
	interval := g.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			codes, err := g.store.ExpiredActive(g.now())
			if err != nil {
				log.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			for _, code := range codes {
				if err := g.ProcessPhaseExpiry(code); err != nil {
					// Conflicts and already-advanced phases are expected here.
					log.Debug().Err(err).Str("code", code).Msg("sweep skipped room")
				}
			}
		}
	}
}

// update runs one read-modify-write cycle against the store, retrying on
// version conflicts. fn sees a private copy; nothing is published or observed
// unless the commit succeeds.
func (g *Gateway) update(code string, fn func(*game.Room) error) (*game.Room, error) {
	start := time.Now()
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		room, version, err := g.store.Get(code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, game.ErrRoomNotFound
			}
			return nil, err
		}
		if err := fn(room); err != nil {
			return nil, err
		}
		err = g.store.Update(room, version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, game.ErrRoomNotFound
		}
		if err != nil {
			return nil, err
		}
		if g.metrics != nil {
			g.metrics.ObserveTransition(start)
		}
		if g.pub != nil {
			g.pub.PublishRoomUpdate(room.Code, room.State.Phase, room.State.DayNumber)
		}
		return room, nil
	}
	return nil, store.ErrVersionConflict
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
