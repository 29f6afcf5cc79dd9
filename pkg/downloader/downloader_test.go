package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

const videoLink = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func testConfig(cobaltURL string) Config {
	return Config{
		CobaltURL:     cobaltURL,
		CobaltAPIKey:  "secret",
		Timeout:       5 * time.Second,
		MaxRetries:    3,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 5 * time.Millisecond,
		MaxFileSize:   1024,
		UserAgent:     "test-agent",
	}
}

// newCobalt serves the Cobalt API on / and media on /media.
func newCobalt(t *testing.T, cobalt func(srvURL string) any, media http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Api-Key secret", r.Header.Get("Authorization"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		var req cobaltRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, videoLink, req.URL)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cobalt(srv.URL))
	})
	if media != nil {
		mux.HandleFunc("/media", media)
	}

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func tunnel(srvURL string) any {
	return map[string]any{"status": "tunnel", "url": srvURL + "/media", "filename": "video.mp4"}
}

func TestDownloader_Download_Success(t *testing.T) {
	srv := newCobalt(t, tunnel, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("video content"))
	})

	data, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	require.NoError(t, err)
	assert.Equal(t, []byte("video content"), data)
}

func TestDownloader_Download_Picker(t *testing.T) {
	srv := newCobalt(t, func(srvURL string) any {
		return map[string]any{
			"status": "picker",
			"picker": []map[string]string{
				{"type": "photo", "url": srvURL + "/photo"},
				{"type": "video", "url": srvURL + "/media"},
			},
		}
	}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("picked"))
	})

	data, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	require.NoError(t, err)
	assert.Equal(t, []byte("picked"), data)
}

func TestDownloader_Download_UnsupportedPlatform(t *testing.T) {
	data, err := New(testConfig("http://127.0.0.1:0")).Download(context.Background(), "https://example.com/video")

	assert.Nil(t, data)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
}

func TestDownloader_Download_CobaltError(t *testing.T) {
	srv := newCobalt(t, func(string) any {
		return map[string]any{"status": "error", "error": map[string]string{"code": "error.api.content.video.unavailable"}}
	}, nil)

	_, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	require.Error(t, err)
	assert.Equal(t, "resolving media link: cobalt: error.api.content.video.unavailable", err.Error())
}

func TestDownloader_Download_CobaltInvalidResponse(t *testing.T) {
	srv := newCobalt(t, func(string) any {
		return map[string]any{"status": "success"}
	}, nil)

	_, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	assert.ErrorIs(t, err, errInvalidCobaltResponse)
}

func TestDownloader_Download_RateLimitedThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	srv := newCobalt(t, tunnel, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("success"))
	})

	data, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	require.NoError(t, err)
	assert.Equal(t, []byte("success"), data)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestDownloader_Download_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := newCobalt(t, tunnel, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 502")
	assert.EqualValues(t, 3, attempts.Load())
}

func TestDownloader_Download_NotRetried(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{http.StatusForbidden, domain.ErrLinkExpired.Error()},
		{http.StatusUnauthorized, domain.ErrLinkExpired.Error()},
		{http.StatusNotFound, "unexpected status code: 404"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			var attempts atomic.Int32
			srv := newCobalt(t, tunnel, func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.status)
			})

			_, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())
			assert.EqualValues(t, 1, attempts.Load())
		})
	}
}

func TestDownloader_Download_TooLarge(t *testing.T) {
	srv := newCobalt(t, tunnel, func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	})

	_, err := New(testConfig(srv.URL)).Download(context.Background(), videoLink)

	assert.ErrorIs(t, err, domain.ErrVideoTooLarge)
}

func TestDownloader_Download_ContextCanceled(t *testing.T) {
	srv := newCobalt(t, tunnel, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	cfg := testConfig(srv.URL)
	cfg.RetryDelay = time.Second
	cfg.MaxRetryDelay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(cfg).Download(ctx, videoLink)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_RetryPolicy(t *testing.T) {
	d := New(Config{MaxRetries: 3, RetryDelay: time.Second, MaxRetryDelay: 3 * time.Second})

	assert.Equal(t, 2, d.media.RetryMax)
	assert.Equal(t, time.Second, d.media.RetryWaitMin)
	assert.Equal(t, 3*time.Second, d.media.RetryWaitMax)

	d = New(Config{})
	assert.Equal(t, 0, d.media.RetryMax)
}
