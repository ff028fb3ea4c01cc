package handlers

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wordspy/internal/models"
	"wordspy/internal/service"
)

// Minimal in-memory implementations of the game's store and transport
// interfaces, enough to run the state machine behind the handler.

type stubSessions struct {
	snap models.Snapshot
}

func (s *stubSessions) Load() (*models.Snapshot, error) {
	c := s.snap
	return &c, nil
}

func (s *stubSessions) Save(snap *models.Snapshot) error {
	s.snap = *snap
	return nil
}

func (s *stubSessions) Reset() error {
	s.snap = models.Snapshot{}
	return nil
}

type stubWords struct{}

func (s *stubWords) SelectAll() ([]models.Word, error)      { return nil, nil }
func (s *stubWords) GetByID(id int64) (*models.Word, error) { return nil, nil }
func (s *stubWords) ReplaceAll(words []models.Word) error   { return nil }

type stubMessages struct{}

func (s *stubMessages) Insert(chatID int64, messageID int, deleteAt time.Time) error { return nil }
func (s *stubMessages) SelectAll() ([]models.PendingDeletion, error)                 { return nil, nil }
func (s *stubMessages) DeleteMatching(chatID int64, messageID int) error             { return nil }
func (s *stubMessages) DeleteAll() error                                             { return nil }

type stubTransport struct {
	sent []service.Message
}

func (s *stubTransport) Notify(msg service.Message) (int, error) {
	s.sent = append(s.sent, msg)
	return len(s.sent), nil
}

func (s *stubTransport) Retract(chatID int64, messageID int) error { return nil }

func newTestHandler(secret string) (*WebhookHandler, *stubSessions, *stubTransport) {
	sessions := &stubSessions{}
	transport := &stubTransport{}
	rng := rand.New(rand.NewSource(1))
	game := service.NewGameService(sessions, service.NewCatalogService(&stubWords{}, rng),
		service.NewCleanupService(&stubMessages{}, transport), transport,
		"m123", "Send your words.", 120*time.Second, rng)
	return NewWebhookHandler(game, secret), sessions, transport
}

func postUpdate(handler *WebhookHandler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
	}
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	return rec
}

func TestHandleUpdateSecretMismatch(t *testing.T) {
	handler, _, transport := newTestHandler("hook-secret")

	rec := postUpdate(handler, "wrong", `{"update_id":1}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}

	rec = postUpdate(handler, "", `{"update_id":1}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a missing header, got %d", rec.Code)
	}

	if len(transport.sent) != 0 {
		t.Errorf("Expected no deliveries for rejected requests, got %d", len(transport.sent))
	}
}

func TestHandleUpdateBadJSON(t *testing.T) {
	handler, _, _ := newTestHandler("hook-secret")

	rec := postUpdate(handler, "hook-secret", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleUpdateIgnoresOtherUpdateKinds(t *testing.T) {
	handler, _, transport := newTestHandler("hook-secret")

	rec := postUpdate(handler, "hook-secret", `{"update_id":1,"edited_message":{"message_id":5}}`)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if len(transport.sent) != 0 {
		t.Errorf("Expected the game to be skipped, got %d deliveries", len(transport.sent))
	}
}

func TestHandleUpdateDispatchesMessage(t *testing.T) {
	handler, sessions, transport := newTestHandler("hook-secret")

	body := `{"update_id":1,"message":{"message_id":10,"from":{"id":100},"chat":{"id":100},"text":"/god"}}`
	rec := postUpdate(handler, "hook-secret", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Expected OK body, got %q", rec.Body.String())
	}

	if sessions.snap.GodID != 100 {
		t.Errorf("Expected the claim to reach the game, got god=%d", sessions.snap.GodID)
	}
	if len(transport.sent) != 1 || transport.sent[0].Text != "Please enter the master password:" {
		t.Errorf("Unexpected outbound traffic: %+v", transport.sent)
	}
}

func TestHandleUpdateWithoutConfiguredSecret(t *testing.T) {
	handler, _, _ := newTestHandler("")

	rec := postUpdate(handler, "", `{"update_id":1}`)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 when no secret is configured, got %d", rec.Code)
	}
}

func TestToEvent(t *testing.T) {
	t.Run("callback uses the sender's private chat", func(t *testing.T) {
		handler, sessions, transport := newTestHandler("hook-secret")
		sessions.snap = models.Snapshot{GodID: 100, Phase: models.PhaseGodMenu}

		body := `{"update_id":2,"callback_query":{"id":"cb1","from":{"id":100},"message":{"message_id":42,"chat":{"id":100}},"data":"setup_game"}}`
		rec := postUpdate(handler, "hook-secret", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		if sessions.snap.Phase != models.PhaseAwaitingGamePassword {
			t.Errorf("Expected the callback to advance the phase, got %q", sessions.snap.Phase)
		}
		if len(transport.sent) != 1 || transport.sent[0].ChatID != 100 {
			t.Errorf("Expected the prompt in the sender's chat, got %+v", transport.sent)
		}
	})

	t.Run("messages without a sender are skipped", func(t *testing.T) {
		handler, _, transport := newTestHandler("hook-secret")

		rec := postUpdate(handler, "hook-secret", `{"update_id":3,"message":{"message_id":5,"chat":{"id":9},"text":"hi"}}`)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
		if len(transport.sent) != 0 {
			t.Errorf("Expected no deliveries, got %d", len(transport.sent))
		}
	})
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
