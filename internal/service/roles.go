package service

import (
	"math/rand"

	"wordspy/internal/models"
)

// rolePool expands the configured counts into the flat pool of roles to be
// handed out, one entry per seat.
func rolePool(counts models.RoleCounts) []models.Role {
	pool := make([]models.Role, 0, counts.Sum())
	for i := 0; i < counts.Spies; i++ {
		pool = append(pool, models.RoleSpy)
	}
	for i := 0; i < counts.Citizens; i++ {
		pool = append(pool, models.RoleCitizen)
	}
	for i := 0; i < counts.Jokers; i++ {
		pool = append(pool, models.RoleJoker)
	}
	for i := 0; i < counts.Sheriffs; i++ {
		pool = append(pool, models.RoleSheriff)
	}
	return pool
}

// AssignRoles shuffles the full role pool uniformly and assigns it
// positionally to the players in their registration order. The players must
// not outnumber the pool. The input slice is not modified.
func AssignRoles(counts models.RoleCounts, players []models.Player, rng *rand.Rand) []models.Player {
	pool := rolePool(counts)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	assigned := make([]models.Player, len(players))
	for i, p := range players {
		assigned[i] = models.Player{UserID: p.UserID, Role: pool[i]}
	}
	return assigned
}
