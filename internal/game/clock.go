package game

import "time"

// Expired reports whether the current phase is eligible for resolution. The
// clock never triggers anything itself; the deadline only makes the room
// eligible, and the actual transition still needs an explicit trigger.
func (gs GameState) Expired(now time.Time) bool {
	return gs.PhaseEndTime != nil && !now.Before(*gs.PhaseEndTime)
}

// beginPhase moves the room into a gameplay phase, opens its deadline and
// clears every pending vote/action target so nothing leaks across phases.
// The result message is the caller's to set; beginPhase leaves it alone.
func beginPhase(r *Room, phase Phase, now time.Time) {
	var secs int
	switch phase {
	case PhaseNight:
		secs = r.Settings.NightTimerSeconds
	case PhaseDay:
		secs = r.Settings.DayTimerSeconds
	default:
		// LOBBY and GAME_OVER carry no deadline.
		r.State.Phase = phase
		r.State.PhaseEndTime = nil
		clearTargets(r)
		return
	}
	end := now.Add(time.Duration(secs) * time.Second)
	r.State.Phase = phase
	r.State.PhaseEndTime = &end
	clearTargets(r)
}

func clearTargets(r *Room) {
	for i := range r.Players {
		r.Players[i].VoteTarget = ""
		r.Players[i].ActionTarget = ""
	}
}
