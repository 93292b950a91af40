package entity

import "time"

type Config struct {
	NewsAPIKey string `yaml:"-"`

	// X (Twitter) credentials, all required for live posting.
	XAPIKey            string `yaml:"-"`
	XAPIKeySecret      string `yaml:"-"`
	XAccessToken       string `yaml:"-"`
	XAccessTokenSecret string `yaml:"-"`
	XBearerToken       string `yaml:"-"`

	NewsEndpoint string `yaml:"newsEndpoint"`
	Country      string `yaml:"country"`
	Category     string `yaml:"category"`
	PageSize     int    `yaml:"pageSize"`
	MaxPage      int    `yaml:"maxPage"`

	SnippetLength int `yaml:"snippetLength"`
	MaxPostLength int `yaml:"maxPostLength"`

	RetryAttempts int           `yaml:"retryAttempts"`
	RetryBackoff  time.Duration `yaml:"retryBackoff"`
	HTTPTimeout   time.Duration `yaml:"httpTimeout"`

	LogFile   string `yaml:"logFile"`
	RedisHost string `yaml:"redisHost"`
	// In minutes, 0 disables the headlines cache.
	CacheTTL  int    `yaml:"cacheTtlMinutes"`
	DryRun    bool   `yaml:"dryRun"`
	// Look up og:image on the article page when NewsAPI has no image. Off
	// by default, image-less articles are posted as text.
	Preview   bool   `yaml:"preview"`
}
