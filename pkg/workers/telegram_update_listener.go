package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dskvich/video-downloader-bot/pkg/logger"
)

type Dispatcher interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
}

type UpdateSource interface {
	GetUpdates() tgbotapi.UpdatesChannel
	StopUpdates()
}

// telegramUpdateListener feeds long-polled updates to the same dispatcher the
// webhook uses. Every update is handled independently.
type telegramUpdateListener struct {
	source     UpdateSource
	dispatcher Dispatcher
	wg         sync.WaitGroup
}

func NewTelegramUpdateListener(source UpdateSource, dispatcher Dispatcher) *telegramUpdateListener {
	return &telegramUpdateListener{
		source:     source,
		dispatcher: dispatcher,
	}
}

func (t *telegramUpdateListener) Name() string { return "telegram_listener_worker" }

func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.source.GetUpdates()
	defer t.source.StopUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				t.wg.Wait()
				return nil
			}
			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer t.wg.Done()
				t.processUpdate(ctx, &update)
			}(update)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Recovered from panic", "updateID", update.UpdateID, "panic", fmt.Sprint(r))
		}
	}()

	if err := t.dispatcher.HandleUpdate(ctx, update); err != nil {
		slog.ErrorContext(ctx, "Processing update failed", "updateID", update.UpdateID, logger.Err(err))
	}
}
