package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/spf13/cobra"

	"github.com/dskvich/video-downloader-bot/pkg/api"
	"github.com/dskvich/video-downloader-bot/pkg/api/handler"
	"github.com/dskvich/video-downloader-bot/pkg/domain"
	"github.com/dskvich/video-downloader-bot/pkg/downloader"
	"github.com/dskvich/video-downloader-bot/pkg/logger"
	"github.com/dskvich/video-downloader-bot/pkg/services"
	"github.com/dskvich/video-downloader-bot/pkg/telegram"
	"github.com/dskvich/video-downloader-bot/pkg/webhook"
	"github.com/dskvich/video-downloader-bot/pkg/workers"
)

type Config struct {
	TelegramToken       string            `env:"TELEGRAM_TOKEN"`
	TelegramAPIEndpoint string            `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	TelegramDebug       bool              `env:"TELEGRAM_DEBUG"`
	WebhookURL          string            `env:"WEBHOOK_URL"`
	ListenAddr          string            `env:"LISTEN_ADDR" envDefault:":8080"`
	ServerWriteTimeout  time.Duration     `env:"SERVER_WRITE_TIMEOUT" envDefault:"5m"`
	LogLevel            slog.Level        `env:"LOG_LEVEL" envDefault:"debug"`
	LogFormat           logger.Format     `env:"LOG_FORMAT" envDefault:"text"`
	LogNoColor          bool              `env:"LOG_NO_COLOR"`
	Download            downloader.Config `envPrefix:"DOWNLOAD_"`
}

// parseConfig reads Config from environment, or from the process environment when it is nil.
func parseConfig(environment map[string]string) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:           "video-downloader-bot",
		Short:         "Telegram webhook bot that replies to video links with the video file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseConfig(nil)
			if err != nil {
				return err
			}
			cfg = parsed
			setupLogger(cfg)
			return nil
		},
	}

	cmd.AddCommand(
		newServeCommand(&cfg),
		newPollCommand(&cfg),
		newSetWebhookCommand(&cfg),
		newDownloadCommand(&cfg),
	)

	return cmd
}

func setupLogger(cfg Config) {
	opts := *logger.DefaultOptions
	opts.Level = cfg.LogLevel
	opts.NoColor = cfg.LogNoColor
	slog.SetDefault(logger.New(os.Stderr, cfg.LogFormat, &opts))
}

func newServeCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Telegram webhook over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workerGroup, err := setupWorkers(*cfg)
			if err != nil {
				return err
			}

			ctx, cancelFn := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancelFn()

			if err := workerGroup.Start(ctx); err != nil {
				return err
			}
			slog.Info("shutdown complete")
			return nil
		},
	}
}

func newPollCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Remove the webhook and receive updates by long polling (local development)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTelegramClient(*cfg, telegram.WithAuthorization())
			if err != nil {
				return err
			}
			if err := client.DeleteWebhook(cmd.Context()); err != nil {
				return err
			}

			ctx, cancelFn := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancelFn()

			workerGroup := workers.Group{
				workers.NewTelegramUpdateListener(client, newDispatcher(*cfg, client)),
			}
			return workerGroup.Start(ctx)
		},
	}
}

func newSetWebhookCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "set-webhook [url]",
		Short: "Register the webhook URL with the Bot API (defaults to WEBHOOK_URL)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := cfg.WebhookURL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("webhook url is required: pass it as an argument or set WEBHOOK_URL")
			}

			client, err := newTelegramClient(*cfg)
			if err != nil {
				return err
			}
			return client.SetWebhook(cmd.Context(), url)
		},
	}
}

func newDownloadCommand(cfg *Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a video locally with the configured downloader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := downloader.New(cfg.Download).Download(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("downloading %s: %w", args[0], err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("saving video: %w", err)
			}
			slog.Info("video saved", "path", output, "size", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", domain.VideoFileName, "output file")

	return cmd
}

func newTelegramClient(cfg Config, opts ...telegram.ClientOption) (*telegram.Client, error) {
	opts = append([]telegram.ClientOption{
		telegram.WithAPIEndpoint(cfg.TelegramAPIEndpoint),
		telegram.WithDebug(cfg.TelegramDebug),
	}, opts...)

	client, err := telegram.NewClient(cfg.TelegramToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	return client, nil
}

func newDispatcher(cfg Config, client *telegram.Client) webhook.Dispatcher {
	return telegram.NewHandler(
		services.NewChatService(client),
		services.NewVideoService(downloader.New(cfg.Download), client),
	)
}

// setupWorkers builds the process-wide bot, downloader and router once; they
// are read-only while serving.
func setupWorkers(cfg Config) (workers.Group, error) {
	var dispatcher webhook.Dispatcher

	if cfg.TelegramToken == "" {
		slog.Warn("TELEGRAM_TOKEN is not set, webhook requests will be rejected")
	} else {
		telegramClient, err := newTelegramClient(cfg)
		if err != nil {
			return nil, err
		}

		dispatcher = newDispatcher(cfg, telegramClient)
	}

	router := api.NewRouter(
		webhook.NewHandler(dispatcher),
		handler.NewHealth(dispatcher != nil).Live,
	)

	return workers.Group{
		workers.NewHTTPServer(cfg.ListenAddr, router, cfg.ServerWriteTimeout),
	}, nil
}
