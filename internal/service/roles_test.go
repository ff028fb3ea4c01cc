package service

import (
	"math/rand"
	"testing"

	"wordspy/internal/models"
)

func TestAssignRolesPreservesCounts(t *testing.T) {
	counts := models.RoleCounts{Spies: 2, Citizens: 3, Jokers: 1, Sheriffs: 1}
	players := []models.Player{
		{UserID: 1}, {UserID: 2}, {UserID: 3}, {UserID: 4},
		{UserID: 5}, {UserID: 6}, {UserID: 7},
	}

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		assigned := AssignRoles(counts, players, rng)

		if len(assigned) != len(players) {
			t.Fatalf("seed %d: expected %d players, got %d", seed, len(players), len(assigned))
		}

		got := map[models.Role]int{}
		for i, p := range assigned {
			if p.UserID != players[i].UserID {
				t.Errorf("seed %d: player order changed at index %d", seed, i)
			}
			got[p.Role]++
		}

		want := map[models.Role]int{
			models.RoleSpy:     counts.Spies,
			models.RoleCitizen: counts.Citizens,
			models.RoleJoker:   counts.Jokers,
			models.RoleSheriff: counts.Sheriffs,
		}
		for role, n := range want {
			if got[role] != n {
				t.Errorf("seed %d: expected %d %s roles, got %d", seed, n, role, got[role])
			}
		}
	}
}

func TestAssignRolesDoesNotModifyInput(t *testing.T) {
	counts := models.RoleCounts{Spies: 1, Citizens: 1}
	players := []models.Player{
		{UserID: 1, Role: models.RoleCitizen},
		{UserID: 2, Role: models.RoleSpy},
	}

	rng := rand.New(rand.NewSource(1))
	AssignRoles(counts, players, rng)

	if players[0].Role != models.RoleCitizen || players[1].Role != models.RoleSpy {
		t.Error("expected the input slice to be left untouched")
	}
}

func TestAssignRolesPartialRoster(t *testing.T) {
	counts := models.RoleCounts{Spies: 1, Citizens: 2, Sheriffs: 1}
	players := []models.Player{{UserID: 10}, {UserID: 20}}

	rng := rand.New(rand.NewSource(7))
	assigned := AssignRoles(counts, players, rng)

	if len(assigned) != 2 {
		t.Fatalf("expected 2 assigned players, got %d", len(assigned))
	}
	for _, p := range assigned {
		switch p.Role {
		case models.RoleSpy, models.RoleCitizen, models.RoleJoker, models.RoleSheriff:
		default:
			t.Errorf("player %d got unknown role %q", p.UserID, p.Role)
		}
	}
}

func TestRolePoolOrder(t *testing.T) {
	pool := rolePool(models.RoleCounts{Spies: 1, Citizens: 2, Jokers: 1, Sheriffs: 1})
	want := []models.Role{
		models.RoleSpy,
		models.RoleCitizen, models.RoleCitizen,
		models.RoleJoker,
		models.RoleSheriff,
	}

	if len(pool) != len(want) {
		t.Fatalf("expected pool of %d, got %d", len(want), len(pool))
	}
	for i, role := range want {
		if pool[i] != role {
			t.Errorf("expected %s at index %d, got %s", role, i, pool[i])
		}
	}
}
