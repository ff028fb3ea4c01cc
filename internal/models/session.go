package models

// Phase is the current position of the game's state machine. Exactly one
// phase is active at a time, global to the deployment. The zero value means
// no game is in progress.
type Phase string

const (
	PhaseIdle                      Phase = ""
	PhaseAwaitingMasterPassword    Phase = "waiting_for_master_password"
	PhaseGodMenu                   Phase = "god_menu"
	PhaseWordsMenu                 Phase = "words_menu"
	PhaseAwaitingWordsJSON         Phase = "waiting_for_words_json"
	PhaseAwaitingGamePassword      Phase = "waiting_for_game_password"
	PhaseAwaitingTotalPlayers      Phase = "waiting_for_total_players"
	PhaseAwaitingSpies             Phase = "waiting_for_spies"
	PhaseAwaitingCitizens          Phase = "waiting_for_citizens"
	PhaseAwaitingJokers            Phase = "waiting_for_jokers"
	PhaseAwaitingSheriffs          Phase = "waiting_for_sheriffs"
	PhaseAwaitingRoleConfirmation  Phase = "waiting_for_role_confirmation"
	PhaseAwaitingRoundConfirmation Phase = "waiting_for_round_confirmation"
	PhaseGameStarted               Phase = "game_started"
	PhaseAwaitingResetConfirmation Phase = "waiting_for_reset_confirmation"
	PhaseAwaitingResetPassword     Phase = "waiting_for_reset_password"
)

// Role is one of the four categories a player can be assigned.
type Role string

const (
	RoleSpy     Role = "spy"
	RoleCitizen Role = "citizen"
	RoleJoker   Role = "joker"
	RoleSheriff Role = "sheriff"
)

// Informed reports whether the role receives the secret word itself.
// Spies and sheriffs only ever see the hint.
func (r Role) Informed() bool {
	return r == RoleCitizen || r == RoleJoker
}

// Title returns the display name used in chat messages.
func (r Role) Title() string {
	switch r {
	case RoleSpy:
		return "Spy"
	case RoleCitizen:
		return "Citizen"
	case RoleJoker:
		return "Joker"
	case RoleSheriff:
		return "Sheriff"
	}
	return string(r)
}

// Player is one registered participant and their current role.
type Player struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}

// RoleCounts holds how many of each role the moderator configured.
type RoleCounts struct {
	Spies    int
	Citizens int
	Jokers   int
	Sheriffs int
}

// Sum returns the total size of the role pool.
func (c RoleCounts) Sum() int {
	return c.Spies + c.Citizens + c.Jokers + c.Sheriffs
}

// GameSession is the single process-wide game record. It is persisted as a
// JSON blob in the session key/value table.
type GameSession struct {
	GamePassword string   `json:"gamePassword,omitempty"`
	TotalPlayers int      `json:"totalPlayers,omitempty"`
	SpyCount     int      `json:"spyCount,omitempty"`
	CitizenCount int      `json:"citizenCount,omitempty"`
	JokerCount   int      `json:"jokerCount,omitempty"`
	SheriffCount int      `json:"sheriffCount,omitempty"`
	Players      []Player `json:"players,omitempty"`
}

// Counts returns the configured role counts.
func (g *GameSession) Counts() RoleCounts {
	return RoleCounts{
		Spies:    g.SpyCount,
		Citizens: g.CitizenCount,
		Jokers:   g.JokerCount,
		Sheriffs: g.SheriffCount,
	}
}

// HasPlayer reports whether the participant already holds a role.
func (g *GameSession) HasPlayer(userID int64) bool {
	for _, p := range g.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// AtCapacity reports whether the roster is full.
func (g *GameSession) AtCapacity() bool {
	return len(g.Players) >= g.TotalPlayers
}

// Snapshot is the full persisted state loaded at the start of every inbound
// event and saved back after a transition: the session record, the phase,
// the moderator, and the word bookkeeping.
type Snapshot struct {
	Game          GameSession
	Phase         Phase
	GodID         int64
	PendingWordID int64
	CurrentWordID int64
	UsedWordIDs   []int64
}

// WordUsed reports whether the catalog id was already shown this session.
func (s *Snapshot) WordUsed(id int64) bool {
	for _, used := range s.UsedWordIDs {
		if used == id {
			return true
		}
	}
	return false
}
