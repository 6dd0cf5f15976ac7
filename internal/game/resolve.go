package game

import (
	"fmt"
	"time"
)

// StartGame performs the one-time LOBBY -> NIGHT transition: roles are dealt
// and the first night opens. Whether enough players have gathered is the
// caller's policy; the engine only refuses rooms that already left the lobby.
func StartGame(r *Room, now time.Time) error {
	if r.Status != StatusLobby {
		return ErrInvalidTransition
	}
	r.Players = AssignRoles(r.Players)
	r.Status = StatusActive
	r.State.DayNumber = 1
	r.State.LastResult = ""
	beginPhase(r, PhaseNight, now)
	return nil
}

// ResolveExpiredPhase advances a room whose phase deadline has passed:
// NIGHT resolves the buffered kill/save actions, DAY without a majority rolls
// into the next night. Calling it again after the phase has advanced is a
// rejected no-op, because the deadline check runs against the current phase.
func ResolveExpiredPhase(r *Room, now time.Time) error {
	if r.Status != StatusActive || !r.State.Expired(now) {
		return ErrInvalidTransition
	}
	switch r.State.Phase {
	case PhaseNight:
		resolveNight(r, now)
		return nil
	case PhaseDay:
		// Timer ran out without a majority lynch. Nothing changed that could
		// affect the win condition, so it is not re-evaluated.
		r.State.DayNumber++
		beginPhase(r, PhaseNight, now)
		r.State.LastResult = "No one was lynched today."
		return nil
	default:
		return ErrInvalidTransition
	}
}

func resolveNight(r *Room, now time.Time) {
	killID := mafiaKillTarget(r)
	saved := doctorSaves(r)

	msg := "No one died last night."
	if killID != "" {
		if saved[killID] {
			msg = "Someone was attacked but saved!"
		} else if victim := r.Player(killID); victim != nil && victim.IsAlive {
			victim.IsAlive = false
			msg = fmt.Sprintf("%s was killed last night.", victim.Name)
		}
	}

	if win, over := winner(r); over {
		finishGame(r, win)
		return
	}
	beginPhase(r, PhaseDay, now)
	r.State.LastResult = msg
}

// mafiaKillTarget tallies the living mafia's targets and returns the one with
// the strictly highest count. A tie means the mafia could not agree: no one
// dies.
func mafiaKillTarget(r *Room) string {
	tally := make(map[string]int)
	for i := range r.Players {
		p := &r.Players[i]
		if p.IsAlive && p.Role == RoleMafia && p.ActionTarget != "" {
			tally[p.ActionTarget]++
		}
	}
	best, bestCount, tied := "", 0, false
	for target, count := range tally {
		switch {
		case count > bestCount:
			best, bestCount, tied = target, count, false
		case count == bestCount:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return best
}

// doctorSaves collects every living doctor's target; a target is saved if any
// doctor picked it.
func doctorSaves(r *Room) map[string]bool {
	saved := make(map[string]bool)
	for i := range r.Players {
		p := &r.Players[i]
		if p.IsAlive && p.Role == RoleDoctor && p.ActionTarget != "" {
			saved[p.ActionTarget] = true
		}
	}
	return saved
}

// winner evaluates the win condition. Mafia win on reaching parity with the
// living non-mafia: at that point they can no longer be outvoted.
func winner(r *Room) (string, bool) {
	aliveMafia, aliveOthers := 0, 0
	for i := range r.Players {
		p := &r.Players[i]
		if !p.IsAlive {
			continue
		}
		switch p.Role {
		case RoleMafia:
			aliveMafia++
		case RoleDoctor, RoleDetective, RoleCivilian:
			aliveOthers++
		}
	}
	if aliveMafia == 0 {
		return "Civilians Win!", true
	}
	if aliveMafia >= aliveOthers {
		return "Mafia Wins!", true
	}
	return "", false
}

func finishGame(r *Room, message string) {
	r.Status = StatusFinished
	beginPhase(r, PhaseGameOver, time.Time{})
	r.State.LastResult = message
}
