package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wordspy/internal/service"
)

// secretTokenHeader carries the webhook secret Telegram echoes back on
// every delivery.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler receives Telegram updates and feeds them to the game
type WebhookHandler struct {
	game   *service.GameService
	secret string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(game *service.GameService, secret string) *WebhookHandler {
	return &WebhookHandler{game: game, secret: secret}
}

// HandleUpdate processes one webhook delivery. Decodable updates are always
// answered with 200 so Telegram does not redeliver them: every event is
// processed at most once.
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretTokenHeader) != h.secret {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Webhook secret mismatch", nil)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, http.StatusBadRequest, "Bad request", "Failed to decode update", err)
		return
	}

	ev, ok := toEvent(update)
	if !ok {
		// Not a message or callback; nothing for the game to do.
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.game.HandleEvent(ev); err != nil {
		log.Printf("Event handling failed: %v", err)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// toEvent normalizes a Telegram update into the game's event shape: a
// plain message or an inline keyboard selection, treated uniformly.
func toEvent(update tgbotapi.Update) (service.Event, bool) {
	if update.Message != nil && update.Message.From != nil {
		return service.Event{
			ActorID:   update.Message.From.ID,
			ChatID:    update.Message.Chat.ID,
			MessageID: update.Message.MessageID,
			Text:      update.Message.Text,
		}, true
	}

	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		ev := service.Event{
			ActorID: update.CallbackQuery.From.ID,
			ChatID:  update.CallbackQuery.From.ID,
			Action:  update.CallbackQuery.Data,
		}
		if update.CallbackQuery.Message != nil {
			ev.MessageID = update.CallbackQuery.Message.MessageID
		}
		return ev, true
	}

	return service.Event{}, false
}

// Healthz reports process liveness
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
