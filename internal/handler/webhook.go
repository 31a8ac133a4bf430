package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shagtracker/shagbot/internal/bot"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type WebhookHandler struct {
	router *bot.Router
	secret string
}

func NewWebhookHandler(router *bot.Router, secret string) *WebhookHandler {
	return &WebhookHandler{
		router: router,
		secret: secret,
	}
}

// Receive accepts one webhook update. It always answers 200 once the secret
// checks out: a non-2xx response makes the platform redeliver the update,
// and a broken update would then block the queue forever.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretTokenHeader) != h.secret {
		slog.Warn("webhook secret mismatch", "remote_addr", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var update tgbotapi.Update
	err := json.NewDecoder(r.Body).Decode(&update)
	if err != nil {
		slog.Warn("failed to decode webhook update", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	h.router.HandleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}
