package game

import (
	"fmt"
	"time"
)

// RecordNightAction stores a living player's hidden night target. Valid only
// while the room is in NIGHT. A second submission from the same actor
// overwrites the first. Targets must resolve to a current member; dead targets
// are accepted here and become no-ops at resolution.
func RecordNightAction(r *Room, actorID, targetID string) error {
	if r.Status != StatusActive || r.State.Phase != PhaseNight {
		return ErrInvalidTransition
	}
	actor := r.Player(actorID)
	if actor == nil || !actor.IsAlive {
		return ErrInvalidActor
	}
	if r.Player(targetID) == nil {
		return ErrInvalidTarget
	}
	actor.ActionTarget = targetID
	return nil
}

// RecordVote stores a living player's lynch vote and immediately re-runs the
// majority check: day voting resolves reactively, vote by vote, unlike night
// actions which resolve in bulk at phase end. It reports whether this vote
// completed a lynch (and with it a possible game over).
func RecordVote(r *Room, actorID, targetID string, now time.Time) (bool, error) {
	if r.Status != StatusActive || r.State.Phase != PhaseDay {
		return false, ErrInvalidTransition
	}
	actor := r.Player(actorID)
	if actor == nil || !actor.IsAlive {
		return false, ErrInvalidActor
	}
	if r.Player(targetID) == nil {
		return false, ErrInvalidTarget
	}
	actor.VoteTarget = targetID

	lynchedID := majorityTarget(r)
	if lynchedID == "" {
		return false, nil
	}
	victim := r.Player(lynchedID)
	if victim == nil || !victim.IsAlive {
		// A majority piled onto an already-dead target; nothing to do.
		return false, nil
	}
	victim.IsAlive = false
	msg := fmt.Sprintf("%s was lynched.", victim.Name)

	if win, over := winner(r); over {
		finishGame(r, win)
		return true, nil
	}
	r.State.DayNumber++
	beginPhase(r, PhaseNight, now)
	r.State.LastResult = msg
	return true, nil
}

// majorityTarget tallies the pending votes of living players and returns the
// first target to reach floor(alive/2)+1 votes, or "" if none has. Because
// votes are applied one at a time, at most one target can cross the threshold
// per submission.
func majorityTarget(r *Room) string {
	tally := make(map[string]int)
	for i := range r.Players {
		p := &r.Players[i]
		if p.IsAlive && p.VoteTarget != "" {
			tally[p.VoteTarget]++
		}
	}
	majority := r.AliveCount()/2 + 1
	for target, count := range tally {
		if count >= majority {
			return target
		}
	}
	return ""
}
