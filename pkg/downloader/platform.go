package downloader

import (
	"net/url"
	"strings"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

var platformHosts = map[string]domain.Platform{
	"youtube.com":   domain.PlatformYouTube,
	"youtu.be":      domain.PlatformYouTube,
	"instagram.com": domain.PlatformInstagram,
	"instagr.am":    domain.PlatformInstagram,
	"tiktok.com":    domain.PlatformTikTok,
}

// DetectPlatform maps a link to the video platform serving it.
// Subdomains (www., m., vm., vt.) resolve to their parent platform.
func DetectPlatform(link string) (domain.Platform, error) {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return "", domain.ErrUnsupportedPlatform
	}

	host := strings.ToLower(u.Hostname())
	for suffix, platform := range platformHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return platform, nil
		}
	}

	return "", domain.ErrUnsupportedPlatform
}
