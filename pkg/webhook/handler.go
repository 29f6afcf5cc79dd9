package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dskvich/video-downloader-bot/pkg/logger"
)

const (
	bodyOK            = "ok"
	bodyRunning       = "Bot is running"
	bodyNoBody        = "No body"
	bodyTokenNotSet   = "TELEGRAM_TOKEN not set"
	maxRequestBodyLen = 1 << 20
)

// Event is the transport payload delivered by the hosting platform.
type Event struct {
	HTTPMethod string `json:"httpMethod"`
	Body       string `json:"body"`
}

type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type Dispatcher interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
}

type Handler struct {
	dispatcher Dispatcher
}

// NewHandler returns the webhook entry point. A nil dispatcher means the bot
// token is not configured and every event is answered with 500.
func NewHandler(dispatcher Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

func (h *Handler) Handle(ctx context.Context, event Event) (resp Response) {
	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())

	if h.dispatcher == nil {
		slog.ErrorContext(ctx, "Bot token is not configured")
		return Response{StatusCode: http.StatusInternalServerError, Body: bodyTokenNotSet}
	}

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Recovered from panic", "panic", r)
			resp = Response{StatusCode: http.StatusInternalServerError, Body: fmt.Sprint(r)}
		}
	}()

	if event.HTTPMethod != http.MethodPost {
		return Response{StatusCode: http.StatusOK, Body: bodyRunning}
	}

	if event.Body == "" {
		return Response{StatusCode: http.StatusBadRequest, Body: bodyNoBody}
	}

	if err := h.process(ctx, event.Body); err != nil {
		slog.ErrorContext(ctx, "Processing update failed", logger.Err(err))
		return Response{StatusCode: http.StatusInternalServerError, Body: err.Error()}
	}

	return Response{StatusCode: http.StatusOK, Body: bodyOK}
}

func (h *Handler) process(ctx context.Context, body string) error {
	var update tgbotapi.Update
	if err := json.Unmarshal([]byte(body), &update); err != nil {
		return fmt.Errorf("decoding update: %w", err)
	}

	return h.dispatcher.HandleUpdate(ctx, &update)
}

// ServeHTTP adapts an HTTP request to an Event and writes the Response as plain text.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyLen))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := h.Handle(r.Context(), Event{HTTPMethod: r.Method, Body: string(body)})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		slog.ErrorContext(r.Context(), "Writing webhook response", logger.Err(err))
	}
}
