package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

type Client struct {
	bot        *tgbotapi.BotAPI
	authorized bool
}

type clientConfig struct {
	endpoint   string
	httpClient tgbotapi.HTTPClient
	debug      bool
	authorize  bool
}

type ClientOption func(*clientConfig)

// WithAPIEndpoint overrides the Bot API endpoint template (host/bot%s/%s).
func WithAPIEndpoint(endpoint string) ClientOption {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

func WithHTTPClient(client tgbotapi.HTTPClient) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

func WithDebug(debug bool) ClientOption {
	return func(c *clientConfig) {
		c.debug = debug
	}
}

// WithAuthorization calls getMe during construction. Long polling needs it.
func WithAuthorization() ClientOption {
	return func(c *clientConfig) {
		c.authorize = true
	}
}

// NewClient builds a Bot API client. Unless WithAuthorization is given, it
// never touches the network, which keeps webhook cold starts cheap.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("empty bot token")
	}

	cfg := clientConfig{
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.authorize {
		bot, err := tgbotapi.NewBotAPIWithClient(token, cfg.endpoint, cfg.httpClient)
		if err != nil {
			return nil, fmt.Errorf("creating bot api instance: %w", err)
		}
		bot.Debug = cfg.debug

		slog.Info("authorized on telegram", "account", bot.Self.UserName)

		return &Client{bot: bot, authorized: true}, nil
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Debug:  cfg.debug,
		Client: cfg.httpClient,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(cfg.endpoint)

	return &Client{bot: bot}, nil
}

func (c *Client) SendResponse(ctx context.Context, response *domain.Response) error {
	var chattable tgbotapi.Chattable

	switch {
	case response.File != nil:
		chattable = tgbotapi.NewDocument(response.ChatID, tgbotapi.FileBytes{
			Name:  response.File.Name,
			Bytes: response.File.Data,
		})
		slog.DebugContext(ctx, "Sending document", "chatID", response.ChatID, "name", response.File.Name, "size", len(response.File.Data))
	case response.Text != "":
		chattable = tgbotapi.NewMessage(response.ChatID, response.Text)
		slog.DebugContext(ctx, "Sending text", "chatID", response.ChatID, "text", response.Text)
	default:
		return domain.ErrEmptyResponse
	}

	if _, err := c.bot.Send(chattable); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", response.ChatID, err)
	}
	return nil
}

func (c *Client) SetWebhook(ctx context.Context, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("creating webhook config: %w", err)
	}

	if _, err := c.bot.Request(wh); err != nil {
		return fmt.Errorf("setting webhook: %w", err)
	}

	slog.InfoContext(ctx, "Webhook registered", "url", url)
	return nil
}

func (c *Client) DeleteWebhook(ctx context.Context) error {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}

	slog.InfoContext(ctx, "Webhook deleted")
	return nil
}

// GetUpdates starts long polling; StopUpdates ends it. A client built without
// WithAuthorization cannot poll and gets a closed channel.
func (c *Client) GetUpdates() tgbotapi.UpdatesChannel {
	if !c.authorized {
		slog.Error("long polling requires an authorized client")
		ch := make(chan tgbotapi.Update)
		close(ch)
		return ch
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return c.bot.GetUpdatesChan(u)
}

func (c *Client) StopUpdates() {
	if c.authorized {
		c.bot.StopReceivingUpdates()
	}
}
