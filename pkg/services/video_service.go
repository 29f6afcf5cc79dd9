package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
	"github.com/dskvich/video-downloader-bot/pkg/logger"
)

type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type videoService struct {
	downloader Downloader
	sender     Sender
}

func NewVideoService(downloader Downloader, sender Sender) *videoService {
	return &videoService{
		downloader: downloader,
		sender:     sender,
	}
}

// DownloadVideo replies with the video behind the link in text, or with an
// error message when text is not a link or the download fails.
func (s *videoService) DownloadVideo(ctx context.Context, chatID int64, text string) error {
	url := strings.TrimSpace(text)
	if !domain.IsLink(url) {
		return s.reply(ctx, chatID, domain.InvalidLinkText)
	}

	if err := s.reply(ctx, chatID, domain.DownloadingText); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Starting video download", "url", url)

	data, err := s.downloader.Download(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "Video download failed", "url", url, logger.Err(err))
		return s.reply(ctx, chatID, fmt.Sprintf(domain.DownloadErrorText, err))
	}
	if len(data) == 0 {
		return fmt.Errorf("downloading %s: %w", url, domain.ErrEmptyDownload)
	}

	slog.InfoContext(ctx, "Video downloaded", "url", url, "size", len(data))

	return s.sender.SendResponse(ctx, &domain.Response{
		ChatID: chatID,
		File: &domain.File{
			Name: domain.VideoFileName,
			Data: data,
		},
	})
}

func (s *videoService) reply(ctx context.Context, chatID int64, text string) error {
	return s.sender.SendResponse(ctx, &domain.Response{ChatID: chatID, Text: text})
}
