package models

import (
	"encoding/json"
	"testing"
)

func TestRoleInformed(t *testing.T) {
	tests := []struct {
		role     Role
		informed bool
	}{
		{RoleSpy, false},
		{RoleCitizen, true},
		{RoleJoker, true},
		{RoleSheriff, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Informed(); got != tt.informed {
				t.Errorf("Informed() = %v, want %v", got, tt.informed)
			}
		})
	}
}

func TestGameSessionRoster(t *testing.T) {
	g := GameSession{
		TotalPlayers: 2,
		Players:      []Player{{UserID: 11, Role: RoleSpy}},
	}

	if !g.HasPlayer(11) {
		t.Error("expected player 11 to be registered")
	}
	if g.HasPlayer(12) {
		t.Error("expected player 12 to be unknown")
	}
	if g.AtCapacity() {
		t.Error("expected one free seat")
	}

	g.Players = append(g.Players, Player{UserID: 12, Role: RoleCitizen})
	if !g.AtCapacity() {
		t.Error("expected the roster to be full")
	}
}

func TestRoleCountsSum(t *testing.T) {
	c := RoleCounts{Spies: 1, Citizens: 2, Jokers: 0, Sheriffs: 1}
	if c.Sum() != 4 {
		t.Errorf("Sum() = %d, want 4", c.Sum())
	}
}

func TestSnapshotWordUsed(t *testing.T) {
	s := Snapshot{UsedWordIDs: []int64{3, 7}}
	if !s.WordUsed(3) || !s.WordUsed(7) {
		t.Error("expected 3 and 7 to be used")
	}
	if s.WordUsed(5) {
		t.Error("expected 5 to be available")
	}
}

// The session record is stored as JSON; field names are part of the stored
// format and must stay stable across releases.
func TestGameSessionJSONFieldNames(t *testing.T) {
	data := []byte(`{"gamePassword":"pw123","totalPlayers":3,"spyCount":1,"citizenCount":2,"players":[{"userId":11,"role":"spy"}]}`)

	var g GameSession
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if g.GamePassword != "pw123" || g.TotalPlayers != 3 {
		t.Errorf("unexpected session: %+v", g)
	}
	if len(g.Players) != 1 || g.Players[0].UserID != 11 || g.Players[0].Role != RoleSpy {
		t.Errorf("unexpected players: %+v", g.Players)
	}
}
