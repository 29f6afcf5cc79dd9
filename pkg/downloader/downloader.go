package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

// Downloader resolves a platform link through Cobalt and fetches the video bytes.
type Downloader struct {
	cfg    Config
	client *http.Client
	media  *retryablehttp.Client
}

func New(cfg Config) *Downloader {
	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	media := retryablehttp.NewClient()
	media.HTTPClient = client
	media.Logger = slog.Default()
	media.RetryMax = max(cfg.MaxRetries-1, 0)
	media.RetryWaitMin = cfg.RetryDelay
	media.RetryWaitMax = cfg.MaxRetryDelay
	media.CheckRetry = retryablehttp.DefaultRetryPolicy
	media.Backoff = retryablehttp.DefaultBackoff
	media.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Downloader{
		cfg:    cfg,
		client: client,
		media:  media,
	}
}

// Download returns the video behind link. Errors are meant to be shown to the user.
func (d *Downloader) Download(ctx context.Context, link string) ([]byte, error) {
	platform, err := DetectPlatform(link)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Resolving media link", "platform", platform, "url", link)

	mediaURL, err := d.resolve(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("resolving media link: %w", err)
	}

	data, err := d.fetch(ctx, mediaURL)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Media fetched", "platform", platform, "size", len(data))

	return data, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// fetch downloads url. Rate limits, server errors and network failures are
// retried with capped exponential backoff; the last response decides the result.
func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)
	req.Header.Set("Accept", "video/mp4,video/*;q=0.9,*/*;q=0.8")

	resp, err := d.media.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrLinkExpired
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, &statusError{code: resp.StatusCode}
	}

	limit := d.cfg.MaxFileSize
	if limit > 0 && resp.ContentLength > limit {
		return nil, domain.ErrVideoTooLarge
	}

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, domain.ErrVideoTooLarge
	}

	return data, nil
}
