package handler

import (
	"net/http"
	"time"

	"github.com/dskvich/video-downloader-bot/pkg/api/response"
)

type health struct {
	telegramConfigured bool
	writer             response.JSONResponseWriter
}

func NewHealth(telegramConfigured bool) *health {
	return &health{
		telegramConfigured: telegramConfigured,
		writer:             response.JSONResponseWriter{},
	}
}

type HealthResponse struct {
	Status             string `json:"status"`
	Timestamp          string `json:"timestamp"`
	TelegramConfigured bool   `json:"telegram_configured"`
}

// Live handles GET /healthz. It reports the process as alive even when the
// bot token is missing; the webhook itself answers 500 in that case.
func (h *health) Live(w http.ResponseWriter, r *http.Request) {
	h.writer.WriteSuccessResponse(w, HealthResponse{
		Status:             "ok",
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		TelegramConfigured: h.telegramConfigured,
	})
}
