package domain

import "errors"

var (
	ErrEmptyResponse = errors.New("response has neither text nor file")
	ErrEmptyDownload = errors.New("downloader returned neither video nor error")

	ErrUnsupportedPlatform = errors.New("unsupported platform, currently supported: YouTube, Instagram, TikTok")
	ErrLinkExpired         = errors.New("media link expired or access denied")
	ErrRateLimited         = errors.New("rate limited by media host")
	ErrVideoTooLarge       = errors.New("video is too large")
)
