package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type cobaltRequest struct {
	URL           string `json:"url"`
	VideoQuality  string `json:"videoQuality,omitempty"`
	FilenameStyle string `json:"filenameStyle,omitempty"`
}

type cobaltResponse struct {
	Status   string             `json:"status"`
	URL      string             `json:"url"`
	Filename string             `json:"filename"`
	Picker   []cobaltPickerItem `json:"picker"`
	Error    *cobaltError       `json:"error"`
	Text     string             `json:"text"`
}

type cobaltPickerItem struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type cobaltError struct {
	Code string `json:"code"`
}

var errInvalidCobaltResponse = errors.New("cobalt returned invalid response")

// resolve asks the Cobalt API for a direct media link.
func (d *Downloader) resolve(ctx context.Context, link string) (string, error) {
	body, err := json.Marshal(cobaltRequest{
		URL:           link,
		VideoQuality:  "720",
		FilenameStyle: "basic",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(d.cfg.CobaltURL, "/") + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", d.cfg.UserAgent)
	if d.cfg.CobaltAPIKey != "" {
		req.Header.Set("Authorization", "Api-Key "+d.cfg.CobaltAPIKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var cr cobaltResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("cobalt: unexpected status code: %d", resp.StatusCode)
		}
		return "", errInvalidCobaltResponse
	}

	switch cr.Status {
	case "tunnel", "redirect", "stream", "success":
		if cr.URL == "" {
			return "", errInvalidCobaltResponse
		}
		return cr.URL, nil
	case "picker":
		return pickVideo(cr.Picker)
	case "error":
		if cr.Error != nil && cr.Error.Code != "" {
			return "", fmt.Errorf("cobalt: %s", cr.Error.Code)
		}
		if cr.Text != "" {
			return "", fmt.Errorf("cobalt: %s", cr.Text)
		}
		return "", errors.New("cobalt: unknown error")
	default:
		return "", errInvalidCobaltResponse
	}
}

func pickVideo(items []cobaltPickerItem) (string, error) {
	for _, item := range items {
		if item.Type == "video" && item.URL != "" {
			return item.URL, nil
		}
	}
	if len(items) > 0 && items[0].URL != "" {
		return items[0].URL, nil
	}
	return "", errInvalidCobaltResponse
}
