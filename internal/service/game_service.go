package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"wordspy/internal/models"
)

// Event is one normalized inbound interaction: either a plain chat message
// (Text) or an inline keyboard selection (Action). Both carry the actor,
// the chat, and the id of the triggering message.
type Event struct {
	ActorID   int64
	ChatID    int64
	MessageID int
	Text      string
	Action    string
}

// payload returns the value the state machine dispatches on; commands and
// callback selections are treated uniformly.
func (e Event) payload() string {
	if e.Action != "" {
		return e.Action
	}
	return e.Text
}

// GameService owns the session state machine. Every inbound event loads
// the full snapshot, reconciles the ephemeral message registry, applies at
// most one transition, persists, and notifies.
type GameService struct {
	sessions  SessionStore
	catalog   *CatalogService
	cleanup   *CleanupService
	transport Transport

	masterPassword string
	wordsPrompt    string
	messageTTL     time.Duration

	rng *rand.Rand
	now func() time.Time
}

// NewGameService creates a new game service
func NewGameService(sessions SessionStore, catalog *CatalogService, cleanup *CleanupService,
	transport Transport, masterPassword, wordsPrompt string, messageTTL time.Duration,
	rng *rand.Rand) *GameService {
	return &GameService{
		sessions:       sessions,
		catalog:        catalog,
		cleanup:        cleanup,
		transport:      transport,
		masterPassword: masterPassword,
		wordsPrompt:    wordsPrompt,
		messageTTL:     messageTTL,
		rng:            rng,
		now:            time.Now,
	}
}

// HandleEvent runs one inbound event through the state machine. Errors
// returned here have already been reported to the triggering chat; the
// caller only needs to log them.
func (s *GameService) HandleEvent(ev Event) error {
	eventID := uuid.New().String()
	log.Printf("[%s] event: actor=%d chat=%d payload=%q", eventID, ev.ActorID, ev.ChatID, ev.payload())

	// Required deployment configuration, checked before any state is read.
	if s.masterPassword == "" || s.wordsPrompt == "" {
		s.send(ev.ChatID, "Error: the bot is not fully configured. Please contact the administrator.")
		return fmt.Errorf("missing required configuration")
	}

	snap, err := s.sessions.Load()
	if err != nil {
		s.sendRetry(ev.ChatID)
		return fmt.Errorf("[%s] failed to load session: %w", eventID, err)
	}

	// Cooperative garbage collection of expired secret messages. A failure
	// here must not block the event itself.
	if _, err := s.cleanup.Reconcile(s.now()); err != nil {
		log.Printf("[%s] reconcile failed: %v", eventID, err)
	}

	text := ev.payload()

	// Default prompt while nothing is running.
	if snap.GodID == 0 && snap.Phase == models.PhaseIdle && text != "/god" && text != "/r" {
		s.send(ev.ChatID, "No game is running. Send /god to begin.")
		s.retractInbound(ev)
		return nil
	}

	switch text {
	case "/god":
		return s.handleGodClaim(snap, ev)
	case "/r":
		return s.handleResetRequest(snap, ev)
	}

	if ev.Action != "" {
		if handled, err := s.handleAction(snap, ev); handled {
			return err
		}
	}

	return s.handleText(snap, ev)
}

// handleGodClaim processes the moderator claim. The first claimant wins;
// later claims are rejected until the game is reset.
func (s *GameService) handleGodClaim(snap *models.Snapshot, ev Event) error {
	if snap.GodID != 0 {
		s.send(ev.ChatID, "A moderator is already active. Nobody else can claim /god until the game is reset.")
		s.retractInbound(ev)
		return nil
	}

	snap.GodID = ev.ActorID
	snap.Phase = models.PhaseAwaitingMasterPassword
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}

	s.send(ev.ChatID, "Please enter the master password:")
	s.retractInbound(ev)
	return nil
}

// handleResetRequest starts the two-step reset confirmation.
func (s *GameService) handleResetRequest(snap *models.Snapshot, ev Event) error {
	snap.Phase = models.PhaseAwaitingResetConfirmation
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}

	s.sendMessage(Message{
		ChatID: ev.ChatID,
		Text:   "Are you sure you want to reset the game?",
		Choices: [][]Choice{{
			{Label: "Yes", Data: "confirm_reset"},
			{Label: "No", Data: "cancel_reset"},
		}},
	})
	s.retractInbound(ev)
	return nil
}

// handleAction dispatches inline keyboard selections. It reports false for
// unknown actions so they fall through to the phase-gated text handling.
func (s *GameService) handleAction(snap *models.Snapshot, ev Event) (bool, error) {
	switch ev.Action {
	case "confirm_reset":
		snap.Phase = models.PhaseAwaitingResetPassword
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.send(ev.ChatID, "Please enter the master password:")
		s.retractInbound(ev)
		return true, nil

	case "cancel_reset":
		snap.Phase = models.PhaseIdle
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.send(ev.ChatID, "Reset cancelled.")
		s.retractInbound(ev)
		return true, nil

	case "players":
		if !s.requireGod(snap, ev, "view the player list") {
			return true, nil
		}
		s.send(ev.ChatID, fmt.Sprintf("%d of %d players have taken a role.",
			len(snap.Game.Players), snap.Game.TotalPlayers))
		return true, nil

	case "next_round":
		if !s.requireGod(snap, ev, "start the next round") {
			return true, nil
		}
		if len(snap.Game.Players) == 0 {
			s.send(ev.ChatID, "There are no players in the game.")
			return true, nil
		}
		return true, s.proposeWord(snap, ev)

	case "end_game":
		if !s.requireGod(snap, ev, "end the game") {
			return true, nil
		}
		snap.Phase = models.PhaseAwaitingResetConfirmation
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.sendMessage(Message{
			ChatID: ev.ChatID,
			Text:   "Are you sure you want to end the game?",
			Choices: [][]Choice{{
				{Label: "Yes", Data: "confirm_reset"},
				{Label: "No", Data: "cancel_reset"},
			}},
		})
		s.retractInbound(ev)
		return true, nil

	case "god_menu":
		if !s.requireGod(snap, ev, "open the moderator menu") {
			return true, nil
		}
		snap.Phase = models.PhaseGodMenu
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.sendGodMenu(ev.ChatID, "Choose an option:")
		return true, nil

	case "words_menu":
		if !s.requireGod(snap, ev, "open the words menu") {
			return true, nil
		}
		snap.Phase = models.PhaseWordsMenu
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.sendWordsMenu(ev.ChatID, "Choose an option:")
		return true, nil

	case "send_prompt":
		snap.Phase = models.PhaseWordsMenu
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.send(ev.ChatID, s.wordsPrompt)
		return true, nil

	case "edit_words":
		if !s.requireGod(snap, ev, "edit the word catalog") {
			return true, nil
		}
		snap.Phase = models.PhaseAwaitingWordsJSON
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.send(ev.ChatID, "Please send the word list as a JSON array of {id, word, hint}:")
		return true, nil

	case "setup_game":
		if !s.requireGod(snap, ev, "set up the game") {
			return true, nil
		}
		snap.Phase = models.PhaseAwaitingGamePassword
		if err := s.persist(snap, ev.ChatID); err != nil {
			return true, err
		}
		s.send(ev.ChatID, "Enter the game password:")
		return true, nil

	case "confirm_roles":
		if !s.requireGod(snap, ev, "confirm the roles") {
			return true, nil
		}
		snap.Game.Players = nil
		return true, s.proposeWord(snap, ev)

	case "confirm_round":
		if !s.requireGod(snap, ev, "start the round") {
			return true, nil
		}
		return true, s.startRound(snap, ev)

	case "reject_word":
		if !s.requireGod(snap, ev, "reject the word") {
			return true, nil
		}
		return true, s.rejectWord(snap, ev)
	}

	return false, nil
}

// handleText dispatches free text against the current phase.
func (s *GameService) handleText(snap *models.Snapshot, ev Event) error {
	text := ev.payload()

	switch snap.Phase {
	case models.PhaseAwaitingMasterPassword:
		if text != s.masterPassword {
			s.send(ev.ChatID, "Wrong master password. Try again.")
			s.retractInbound(ev)
			return nil
		}
		snap.GodID = ev.ActorID
		snap.Phase = models.PhaseGodMenu
		if err := s.persist(snap, ev.ChatID); err != nil {
			return err
		}
		s.sendGodMenu(ev.ChatID, "Welcome to the moderator menu. Choose an option:")
		s.retractInbound(ev)
		return nil

	case models.PhaseAwaitingResetPassword:
		if text != s.masterPassword {
			s.send(ev.ChatID, "Wrong master password. Try again.")
			s.retractInbound(ev)
			return nil
		}
		if err := s.sessions.Reset(); err != nil {
			s.sendRetry(ev.ChatID)
			return fmt.Errorf("failed to reset session: %w", err)
		}
		if err := s.cleanup.Clear(); err != nil {
			s.sendRetry(ev.ChatID)
			return err
		}
		s.send(ev.ChatID, "The game has been reset.")
		s.retractInbound(ev)
		return nil

	case models.PhaseAwaitingWordsJSON:
		if ev.ActorID != snap.GodID {
			break
		}
		return s.handleWordsJSON(snap, ev)

	case models.PhaseAwaitingGamePassword:
		if !s.requireGod(snap, ev, "set the game password") {
			return nil
		}
		snap.Game.GamePassword = text
		snap.Phase = models.PhaseAwaitingTotalPlayers
		if err := s.persist(snap, ev.ChatID); err != nil {
			return err
		}
		s.send(ev.ChatID, "Enter the total number of players:")
		s.retractInbound(ev)
		return nil

	case models.PhaseAwaitingTotalPlayers:
		if !s.requireGod(snap, ev, "set the number of players") {
			return nil
		}
		n, ok := parseCount(text, 1)
		if !ok {
			s.send(ev.ChatID, "Please enter a valid number.")
			return nil
		}
		snap.Game.TotalPlayers = n
		snap.Phase = models.PhaseAwaitingSpies
		if err := s.persist(snap, ev.ChatID); err != nil {
			return err
		}
		s.send(ev.ChatID, "Enter the number of spies:")
		s.retractInbound(ev)
		return nil

	case models.PhaseAwaitingSpies:
		return s.handleCount(snap, ev, "spies", &snap.Game.SpyCount,
			models.PhaseAwaitingCitizens, "Enter the number of citizens:")

	case models.PhaseAwaitingCitizens:
		return s.handleCount(snap, ev, "citizens", &snap.Game.CitizenCount,
			models.PhaseAwaitingJokers, "Enter the number of jokers:")

	case models.PhaseAwaitingJokers:
		return s.handleCount(snap, ev, "jokers", &snap.Game.JokerCount,
			models.PhaseAwaitingSheriffs, "Enter the number of sheriffs:")

	case models.PhaseAwaitingSheriffs:
		return s.handleSheriffCount(snap, ev)

	case models.PhaseGameStarted:
		if snap.Game.GamePassword != "" && text == snap.Game.GamePassword {
			return s.handleLateJoin(snap, ev)
		}
	}

	s.send(ev.ChatID, "There is no active game, or the password is wrong.")
	return nil
}

// handleCount stores one role count and advances to the next entry step.
func (s *GameService) handleCount(snap *models.Snapshot, ev Event, what string, dst *int,
	next models.Phase, prompt string) error {
	if !s.requireGod(snap, ev, "set the number of "+what) {
		return nil
	}
	n, ok := parseCount(ev.payload(), 0)
	if !ok {
		s.send(ev.ChatID, "Please enter a valid number.")
		return nil
	}
	*dst = n
	snap.Phase = next
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}
	s.send(ev.ChatID, prompt)
	s.retractInbound(ev)
	return nil
}

// handleSheriffCount stores the last count and validates the sum. On a
// mismatch the machine rewinds to the spy-count step, not to the start.
func (s *GameService) handleSheriffCount(snap *models.Snapshot, ev Event) error {
	if !s.requireGod(snap, ev, "set the number of sheriffs") {
		return nil
	}
	n, ok := parseCount(ev.payload(), 0)
	if !ok {
		s.send(ev.ChatID, "Please enter a valid number.")
		return nil
	}
	snap.Game.SheriffCount = n

	if snap.Game.Counts().Sum() != snap.Game.TotalPlayers {
		snap.Phase = models.PhaseAwaitingSpies
		if err := s.persist(snap, ev.ChatID); err != nil {
			return err
		}
		s.send(ev.ChatID, "The role counts do not match the number of players. Enter the number of spies again:")
		s.retractInbound(ev)
		return nil
	}

	snap.Phase = models.PhaseAwaitingRoleConfirmation
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}
	s.sendMessage(Message{
		ChatID: ev.ChatID,
		Text: fmt.Sprintf("Role counts:\nSpy: %d\nCitizen: %d\nJoker: %d\nSheriff: %d\nDo you confirm?",
			snap.Game.SpyCount, snap.Game.CitizenCount, snap.Game.JokerCount, snap.Game.SheriffCount),
		Choices: [][]Choice{{{Label: "Confirm", Data: "confirm_roles"}}},
	})
	s.retractInbound(ev)
	return nil
}

// handleWordsJSON replaces the whole catalog from a moderator-submitted
// JSON array.
func (s *GameService) handleWordsJSON(snap *models.Snapshot, ev Event) error {
	var words []models.Word
	if err := json.Unmarshal([]byte(ev.Text), &words); err != nil {
		s.send(ev.ChatID, "Could not parse the JSON. Please check the format and send it again.")
		return nil
	}

	if err := s.catalog.ReplaceAll(words); err != nil {
		if errors.Is(err, ErrInvalidCatalog) {
			s.send(ev.ChatID, "Invalid word list: every entry needs an id, a word, and a hint. Please send it again.")
			return nil
		}
		s.sendRetry(ev.ChatID)
		return err
	}

	snap.Phase = models.PhaseWordsMenu
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}
	s.send(ev.ChatID, "The word catalog has been updated.")
	s.sendWordsMenu(ev.ChatID, "Back in the words menu. Choose an option:")
	s.retractInbound(ev)
	return nil
}

// proposeWord draws a fresh word and offers it to the moderator for
// confirmation. The secret word is wrapped in a MarkdownV2 spoiler.
func (s *GameService) proposeWord(snap *models.Snapshot, ev Event) error {
	w, err := s.catalog.DrawExcluding(snap.UsedWordIDs)
	if errors.Is(err, ErrCatalogExhausted) {
		s.send(ev.ChatID, "No words are left for a new round. Please update the word catalog.")
		return nil
	}
	if err != nil {
		s.sendRetry(ev.ChatID)
		return err
	}

	snap.PendingWordID = w.ID
	snap.Phase = models.PhaseAwaitingRoundConfirmation
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}

	s.sendMessage(Message{
		ChatID: snap.GodID,
		Text: fmt.Sprintf("Secret word: ||%s||\nHint: %s",
			escapeMarkdownV2(w.Word), escapeMarkdownV2(w.Hint)),
		Choices: [][]Choice{{
			{Label: "Confirm", Data: "confirm_round"},
			{Label: "Reject", Data: "reject_word"},
		}},
		Markdown: true,
	})
	s.retractInbound(ev)
	return nil
}

// startRound accepts the pending word: it is marked used and made current,
// roles are reshuffled over the roster, every registered player gets their
// private role message, and the moderator gets the round control panel.
func (s *GameService) startRound(snap *models.Snapshot, ev Event) error {
	if snap.PendingWordID == 0 {
		s.send(ev.ChatID, "Error: no pending word was found.")
		return nil
	}

	w, err := s.catalog.Lookup(snap.PendingWordID)
	if errors.Is(err, ErrWordNotFound) {
		s.send(ev.ChatID, "Error: the selected word no longer exists.")
		return nil
	}
	if err != nil {
		s.sendRetry(ev.ChatID)
		return err
	}

	snap.UsedWordIDs = append(snap.UsedWordIDs, w.ID)
	snap.CurrentWordID = w.ID
	snap.PendingWordID = 0
	snap.Game.Players = AssignRoles(snap.Game.Counts(), snap.Game.Players, s.rng)
	snap.Phase = models.PhaseGameStarted
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}

	for _, p := range snap.Game.Players {
		s.sendRoleMessage(p, w)
	}

	s.sendMessage(Message{
		ChatID: snap.GodID,
		Text:   "A new round has started!",
		Choices: [][]Choice{
			{{Label: "Players", Data: "players"}},
			{{Label: "Next Round", Data: "next_round"}},
			{{Label: "End Game", Data: "end_game"}},
		},
	})
	s.retractInbound(ev)
	return nil
}

// rejectWord burns the pending word and proposes another one. The phase
// stays at round confirmation.
func (s *GameService) rejectWord(snap *models.Snapshot, ev Event) error {
	if snap.PendingWordID == 0 {
		s.send(ev.ChatID, "Error: there is no word to reject.")
		return nil
	}

	snap.UsedWordIDs = append(snap.UsedWordIDs, snap.PendingWordID)

	w, err := s.catalog.DrawExcluding(snap.UsedWordIDs)
	if errors.Is(err, ErrCatalogExhausted) {
		if err := s.persist(snap, ev.ChatID); err != nil {
			return err
		}
		s.send(ev.ChatID, "No other words are left to choose from. Please update the word catalog.")
		return nil
	}
	if err != nil {
		s.sendRetry(ev.ChatID)
		return err
	}

	snap.PendingWordID = w.ID
	snap.Phase = models.PhaseAwaitingRoundConfirmation
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}

	s.sendMessage(Message{
		ChatID: snap.GodID,
		Text: fmt.Sprintf("Secret word: ||%s||\nHint: %s",
			escapeMarkdownV2(w.Word), escapeMarkdownV2(w.Hint)),
		Choices: [][]Choice{{
			{Label: "Confirm", Data: "confirm_round"},
			{Label: "Reject", Data: "reject_word"},
		}},
		Markdown: true,
	})
	s.retractInbound(ev)
	return nil
}

// handleLateJoin registers a participant who supplied the game password
// while a round is running. The full role pool is reshuffled and the new
// player takes the draw at their roster position; earlier players keep the
// roles they were already told, so relative shuffle ordering across joins
// is deliberately not preserved.
func (s *GameService) handleLateJoin(snap *models.Snapshot, ev Event) error {
	if snap.Game.AtCapacity() {
		s.send(ev.ChatID, "The game is full.")
		return nil
	}
	if snap.Game.HasPlayer(ev.ActorID) {
		s.send(ev.ChatID, "You already have a role.")
		return nil
	}

	joined := append(append([]models.Player{}, snap.Game.Players...), models.Player{UserID: ev.ActorID})
	assigned := AssignRoles(snap.Game.Counts(), joined, s.rng)
	role := assigned[len(assigned)-1].Role

	w, err := s.catalog.Lookup(snap.CurrentWordID)
	if errors.Is(err, ErrWordNotFound) {
		s.send(ev.ChatID, "Error: no word is available to assign.")
		return nil
	}
	if err != nil {
		s.sendRetry(ev.ChatID)
		return err
	}

	snap.Game.Players = append(snap.Game.Players, models.Player{UserID: ev.ActorID, Role: role})
	if err := s.persist(snap, ev.ChatID); err != nil {
		return err
	}

	s.sendRoleMessage(models.Player{UserID: ev.ActorID, Role: role}, w)
	s.retractInbound(ev)
	return nil
}

// sendRoleMessage delivers one private role assignment and schedules its
// deletion. Informed roles see the word, the rest only the hint.
func (s *GameService) sendRoleMessage(p models.Player, w *models.Word) {
	var text string
	if p.Role.Informed() {
		text = fmt.Sprintf("Role: %s - Secret word: %s", p.Role.Title(), w.Word)
	} else {
		text = fmt.Sprintf("Role: %s - Hint: %s", p.Role.Title(), w.Hint)
	}

	messageID, err := s.transport.Notify(Message{ChatID: p.UserID, Text: text})
	if err != nil {
		log.Printf("Failed to send role message to %d: %v", p.UserID, err)
		return
	}
	if err := s.cleanup.Register(p.UserID, messageID, s.messageTTL, s.now()); err != nil {
		log.Printf("Failed to register role message for %d: %v", p.UserID, err)
	}
}

// requireGod rejects moderator-only actions from anyone else without
// touching state.
func (s *GameService) requireGod(snap *models.Snapshot, ev Event, what string) bool {
	if snap.GodID != 0 && ev.ActorID == snap.GodID {
		return true
	}
	s.send(ev.ChatID, "Only the moderator can "+what+".")
	return false
}

// persist saves the snapshot and reports a generic retry prompt on failure.
func (s *GameService) persist(snap *models.Snapshot, chatID int64) error {
	if err := s.sessions.Save(snap); err != nil {
		s.sendRetry(chatID)
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *GameService) sendGodMenu(chatID int64, text string) {
	s.sendMessage(Message{
		ChatID: chatID,
		Text:   text,
		Choices: [][]Choice{
			{{Label: "Set Up Game", Data: "setup_game"}},
			{{Label: "Words", Data: "words_menu"}},
		},
	})
}

func (s *GameService) sendWordsMenu(chatID int64, text string) {
	s.sendMessage(Message{
		ChatID: chatID,
		Text:   text,
		Choices: [][]Choice{
			{{Label: "Send Prompt", Data: "send_prompt"}},
			{{Label: "Edit Words", Data: "edit_words"}},
			{{Label: "Back", Data: "god_menu"}},
		},
	})
}

func (s *GameService) send(chatID int64, text string) {
	s.sendMessage(Message{ChatID: chatID, Text: text})
}

func (s *GameService) sendMessage(msg Message) {
	if _, err := s.transport.Notify(msg); err != nil {
		log.Printf("Failed to notify chat %d: %v", msg.ChatID, err)
	}
}

func (s *GameService) sendRetry(chatID int64) {
	s.send(chatID, "Something went wrong while processing your request. Please try again.")
}

// retractInbound removes the triggering message, so passwords and counts
// do not linger in the chat. Failures are expected (the message may already
// be gone) and only logged.
func (s *GameService) retractInbound(ev Event) {
	if ev.MessageID == 0 {
		return
	}
	if err := s.transport.Retract(ev.ChatID, ev.MessageID); err != nil {
		log.Printf("Failed to retract message %d in chat %d: %v", ev.MessageID, ev.ChatID, err)
	}
}

// parseCount parses a numeric input with a lower bound.
func parseCount(text string, min int) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < min {
		return 0, false
	}
	return n, true
}
