package game

import (
	"fmt"
	"testing"
)

func testRoster(n int) []Player {
	players := make([]Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, Player{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Player %d", i),
		})
	}
	return players
}

func countRoles(players []Player) map[Role]int {
	counts := make(map[Role]int)
	for _, p := range players {
		counts[p.Role]++
	}
	return counts
}

func TestRoleCounts(t *testing.T) {
	for n := 1; n <= 20; n++ {
		assigned := AssignRoles(testRoster(n))
		if len(assigned) != n {
			t.Fatalf("n=%d: expected %d players, got %d", n, n, len(assigned))
		}
		counts := countRoles(assigned)

		wantMafia := n / 4
		if wantMafia < 1 {
			wantMafia = 1
		}
		if counts[RoleMafia] != wantMafia {
			t.Fatalf("n=%d: expected %d mafia, got %d", n, wantMafia, counts[RoleMafia])
		}
		if counts[RoleDetective] > 1 {
			t.Fatalf("n=%d: expected at most 1 detective, got %d", n, counts[RoleDetective])
		}
		if counts[RoleDoctor] > 1 {
			t.Fatalf("n=%d: expected at most 1 doctor, got %d", n, counts[RoleDoctor])
		}
		total := counts[RoleMafia] + counts[RoleDetective] + counts[RoleDoctor] + counts[RoleCivilian]
		if total != n {
			t.Fatalf("n=%d: role counts sum to %d, every player must get exactly one role", n, total)
		}
	}
}

func TestRoleCountsSmallRosters(t *testing.T) {
	// With one player only the mafia slot is filled.
	counts := countRoles(AssignRoles(testRoster(1)))
	if counts[RoleMafia] != 1 || counts[RoleDetective] != 0 || counts[RoleDoctor] != 0 {
		t.Fatalf("n=1: expected a single mafia, got %v", counts)
	}

	// Two players: mafia plus detective, the doctor slot goes unfilled.
	counts = countRoles(AssignRoles(testRoster(2)))
	if counts[RoleMafia] != 1 || counts[RoleDetective] != 1 || counts[RoleDoctor] != 0 {
		t.Fatalf("n=2: expected mafia+detective, got %v", counts)
	}
}

func TestAssignRolesPreservesRosterOrder(t *testing.T) {
	assigned := AssignRoles(testRoster(8))
	for i, p := range assigned {
		if want := fmt.Sprintf("p%d", i); p.ID != want {
			t.Fatalf("roster order changed at %d: expected %s, got %s", i, want, p.ID)
		}
	}
}

func TestAssignRolesResetsPlayers(t *testing.T) {
	players := testRoster(6)
	players[2].IsAlive = false
	players[3].VoteTarget = "p0"
	players[4].ActionTarget = "p1"

	for _, p := range AssignRoles(players) {
		if !p.IsAlive {
			t.Fatalf("player %s should be reset to alive", p.ID)
		}
		if p.VoteTarget != "" || p.ActionTarget != "" {
			t.Fatalf("player %s should have no pending targets", p.ID)
		}
		if p.Role == "" {
			t.Fatalf("player %s should have a role", p.ID)
		}
	}
}

func TestAssignRolesFairness(t *testing.T) {
	// Statistical: with 8 players (2 mafia), each player should draw mafia
	// about a quarter of the time.
	const trials = 2000
	mafiaHits := make(map[string]int)
	for i := 0; i < trials; i++ {
		for _, p := range AssignRoles(testRoster(8)) {
			if p.Role == RoleMafia {
				mafiaHits[p.ID]++
			}
		}
	}
	for id, hits := range mafiaHits {
		freq := float64(hits) / trials
		if freq < 0.19 || freq > 0.31 {
			t.Fatalf("player %s drew mafia with frequency %.3f, expected about 0.25", id, freq)
		}
	}
	if len(mafiaHits) != 8 {
		t.Fatalf("expected every player to draw mafia at least once over %d trials", trials)
	}
}
