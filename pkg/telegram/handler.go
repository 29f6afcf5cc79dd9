package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

type ChatService interface {
	SendGreeting(ctx context.Context, chatID int64) error
}

type VideoService interface {
	DownloadVideo(ctx context.Context, chatID int64, text string) error
}

type handler struct {
	chatService  ChatService
	videoService VideoService
}

func NewHandler(chatService ChatService, videoService VideoService) *handler {
	return &handler{
		chatService:  chatService,
		videoService: videoService,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		slog.WarnContext(ctx, "Unhandled update", "updateID", update.UpdateID)
		return nil
	}

	slog.InfoContext(ctx, "Processing update", "updateID", update.UpdateID, "chatID", msg.Chat.ID)

	switch m := domain.ParseMessage(msg.Text).(type) {
	case domain.GreetingCommand:
		return h.chatService.SendGreeting(ctx, msg.Chat.ID)
	case domain.FreeText:
		return h.videoService.DownloadVideo(ctx, msg.Chat.ID, m.Content)
	default:
		return fmt.Errorf("unsupported message type %T", m)
	}
}
