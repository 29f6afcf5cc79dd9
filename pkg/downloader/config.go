package downloader

import "time"

// Config holds video download configuration.
type Config struct {
	CobaltURL     string        `env:"COBALT_URL" envDefault:"https://api.cobalt.tools"`
	CobaltAPIKey  string        `env:"COBALT_API_KEY"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"60s"`
	MaxRetries    int           `env:"MAX_RETRIES" envDefault:"3"`
	RetryDelay    time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	MaxRetryDelay time.Duration `env:"MAX_RETRY_DELAY" envDefault:"10s"`
	MaxFileSize   int64         `env:"MAX_FILE_SIZE" envDefault:"52428800"` // Bot API upload limit
	UserAgent     string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (compatible; TGbot/1.0)"`
}
