package game

import (
	"strings"
	"time"
)

// Role is the hidden role dealt to a player at game start. The set is closed;
// switches over Role handle all four values.
type Role string

const (
	RoleMafia     Role = "MAFIA"
	RoleDoctor    Role = "DOCTOR"
	RoleDetective Role = "DETECTIVE"
	RoleCivilian  Role = "CIVILIAN"
)

// Phase is the current stage of the day/night cycle.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseNight    Phase = "NIGHT"
	PhaseDay      Phase = "DAY"
	PhaseGameOver Phase = "GAME_OVER"
)

// Status is the coarse room lifecycle.
type Status string

const (
	StatusLobby    Status = "LOBBY"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role,omitempty"`
	// IsAlive starts true and becomes false permanently once the player is
	// eliminated.
	IsAlive bool `json:"isAlive"`
	// VoteTarget and ActionTarget hold the player's current-phase submission
	// (last write wins); cleared on every phase transition.
	VoteTarget   string    `json:"voteTarget,omitempty"`
	ActionTarget string    `json:"actionTarget,omitempty"`
	JoinedAt     time.Time `json:"joinedAt"`
}

type Settings struct {
	MinPlayers              int  `json:"minPlayers"`
	MaxPlayers              int  `json:"maxPlayers"`
	DayTimerSeconds         int  `json:"dayTimerSeconds"`
	NightTimerSeconds       int  `json:"nightTimerSeconds"`
	RevealRoleOnElimination bool `json:"revealRoleOnElimination"`
}

type GameState struct {
	Phase     Phase `json:"phase"`
	DayNumber int   `json:"dayNumber"`
	// PhaseEndTime is nil while the room is in LOBBY or GAME_OVER.
	PhaseEndTime *time.Time `json:"phaseEndTime,omitempty"`
	LastResult   string     `json:"lastResultMessage,omitempty"`
}

// Room is one game session. The engine only ever transforms a Room value
// handed to it; it retains no state between calls.
type Room struct {
	Code      string    `json:"code"`
	Status    Status    `json:"status"`
	Players   []Player  `json:"players"` // join order, first player is the host
	Settings  Settings  `json:"settings"`
	State     GameState `json:"gameState"`
	CreatedAt time.Time `json:"createdAt"`
}

// Player returns a pointer into the roster, or nil if the id is unknown.
func (r *Room) Player(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// HasName reports whether any member already uses the name, case-insensitively.
func (r *Room) HasName(name string) bool {
	for i := range r.Players {
		if strings.EqualFold(r.Players[i].Name, name) {
			return true
		}
	}
	return false
}

// AliveCount counts living members.
func (r *Room) AliveCount() int {
	n := 0
	for i := range r.Players {
		if r.Players[i].IsAlive {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = make([]Player, len(r.Players))
	copy(cp.Players, r.Players)
	if r.State.PhaseEndTime != nil {
		end := *r.State.PhaseEndTime
		cp.State.PhaseEndTime = &end
	}
	return &cp
}
