package scrape

import "time"

// Defaults applied by Config.withDefaults.
const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.159 Safari/537.36"
	defaultRequestTimeout  = 15 * time.Second
	defaultHeadlessTimeout = 25 * time.Second
)

// Config controls the structured fetcher and the headless fallback.
type Config struct {
	UserAgent       string
	RequestTimeout  time.Duration
	Headless        bool
	HeadlessTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.HeadlessTimeout <= 0 {
		c.HeadlessTimeout = defaultHeadlessTimeout
	}
	return c
}
