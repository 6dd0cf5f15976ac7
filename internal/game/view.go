package game

import "time"

// PlayerView is a player as one particular viewer may see them. Role and
// pending targets are the complete redaction set; name, avatar and alive
// status stay visible to everyone.
type PlayerView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	IsAlive      bool      `json:"isAlive"`
	Role         Role      `json:"role,omitempty"`
	VoteTarget   string    `json:"voteTarget,omitempty"`
	ActionTarget string    `json:"actionTarget,omitempty"`
	JoinedAt     time.Time `json:"joinedAt"`
}

type RoomView struct {
	Code      string       `json:"code"`
	Status    Status       `json:"status"`
	Players   []PlayerView `json:"players"`
	Settings  Settings     `json:"settings"`
	State     GameState    `json:"gameState"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Project redacts the room for one viewer. This is the only sanctioned path
// for a client to learn anything about another player's role: while the game
// is ACTIVE, everyone except the viewer themselves (and, with the
// reveal-on-elimination setting, the dead) has role and targets stripped.
// In LOBBY roles do not exist yet and after GAME_OVER everything is revealed.
func Project(r *Room, viewerID string) RoomView {
	view := RoomView{
		Code:      r.Code,
		Status:    r.Status,
		Players:   make([]PlayerView, 0, len(r.Players)),
		Settings:  r.Settings,
		State:     r.State,
		CreatedAt: r.CreatedAt,
	}
	for i := range r.Players {
		p := &r.Players[i]
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			IsAlive:  p.IsAlive,
			JoinedAt: p.JoinedAt,
		}
		reveal := r.Status != StatusActive ||
			p.ID == viewerID ||
			(!p.IsAlive && r.Settings.RevealRoleOnElimination)
		if reveal {
			pv.Role = p.Role
			pv.VoteTarget = p.VoteTarget
			pv.ActionTarget = p.ActionTarget
		}
		view.Players = append(view.Players, pv)
	}
	return view
}
