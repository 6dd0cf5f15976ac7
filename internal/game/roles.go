package game

import "math/rand"

// MafiaCount returns the number of mafia for a roster of n players:
// one per four players, at least one.
func MafiaCount(n int) int {
	m := n / 4
	if m < 1 {
		m = 1
	}
	return m
}

// AssignRoles deals hidden roles to the roster: MafiaCount(n) mafia, then one
// detective, then one doctor, then civilians. Which player receives which role
// is decided by a uniform permutation; roster order (and with it the host
// convention) is preserved. With very small rosters the detective/doctor slots
// may simply go unfilled.
//
// Every player's IsAlive is reset and pending targets are cleared. This is the
// only place a role is ever written.
func AssignRoles(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)

	perm := rand.Perm(len(out))

	deck := make([]Role, 0, len(out))
	for i := 0; i < MafiaCount(len(out)); i++ {
		deck = append(deck, RoleMafia)
	}
	deck = append(deck, RoleDetective, RoleDoctor)
	for len(deck) < len(out) {
		deck = append(deck, RoleCivilian)
	}

	for i, pi := range perm {
		out[pi].Role = deck[i]
		out[pi].IsAlive = true
		out[pi].VoteTarget = ""
		out[pi].ActionTarget = ""
	}
	return out
}
