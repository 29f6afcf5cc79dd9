package services

import (
	"context"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

type Sender interface {
	SendResponse(ctx context.Context, response *domain.Response) error
}

type chatService struct {
	sender Sender
}

func NewChatService(sender Sender) *chatService {
	return &chatService{sender: sender}
}

func (c *chatService) SendGreeting(ctx context.Context, chatID int64) error {
	return c.sender.SendResponse(ctx, &domain.Response{
		ChatID: chatID,
		Text:   domain.GreetingText,
	})
}
