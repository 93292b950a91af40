package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nDmitry/technewsbot/internal/entity"
	"gopkg.in/yaml.v3"
)

const (
	LogFileName = "tech_news_log.txt"
	EnvFileName = ".env"
)

// Defaults returns the settings used when neither a config file nor the
// environment overrides them.
func Defaults() entity.Config {
	return entity.Config{
		NewsEndpoint:  "https://newsapi.org/v2/top-headlines",
		Country:       "us",
		Category:      "technology",
		PageSize:      10,
		MaxPage:       5,
		SnippetLength: 200,
		MaxPostLength: 280,
		RetryAttempts: 3,
		RetryBackoff:  5 * time.Second,
		HTTPTimeout:   10 * time.Second,
		LogFile:       LogFileName,
	}
}

// Read parses a YAML settings file on top of the defaults.
func Read(configPath string) (*entity.Config, error) {
	config := Defaults()

	contents, err := os.ReadFile(configPath)

	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	if err = yaml.Unmarshal(contents, &config); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	return &config, nil
}

// Load builds the configuration for a run. baseDir is the directory of the
// executable: the .env file and a relative log file path are resolved
// against it.
func Load(baseDir string) (*entity.Config, error) {
	err := godotenv.Load(filepath.Join(baseDir, EnvFileName))

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load %s: %w", EnvFileName, err)
	}

	var config *entity.Config

	if path := os.Getenv("TECHNEWS_CONFIG"); path != "" {
		if config, err = Read(path); err != nil {
			return nil, err
		}
	} else {
		defaults := Defaults()
		config = &defaults
	}

	if err = applyEnv(config); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(config.LogFile) {
		config.LogFile = filepath.Join(baseDir, config.LogFile)
	}

	return config, nil
}

func applyEnv(config *entity.Config) error {
	config.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	config.XAPIKey = os.Getenv("X_API_KEY")
	config.XAPIKeySecret = os.Getenv("X_API_KEY_SECRET")
	config.XAccessToken = os.Getenv("X_ACCESS_TOKEN")
	config.XAccessTokenSecret = os.Getenv("X_ACCESS_TOKEN_SECRET")
	config.XBearerToken = os.Getenv("X_BEARER_TOKEN")

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		config.LogFile = logFile
	}

	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		config.RedisHost = redisHost
	}

	if ttl := os.Getenv("NEWS_CACHE_TTL"); ttl != "" {
		minutes, err := strconv.Atoi(ttl)

		if err != nil {
			return fmt.Errorf("NEWS_CACHE_TTL must be a valid integer")
		}

		if minutes < 0 {
			return fmt.Errorf("NEWS_CACHE_TTL must be non-negative")
		}

		config.CacheTTL = minutes
	}

	if dryRun := os.Getenv("DRY_RUN"); dryRun != "" {
		config.DryRun = isTrue(dryRun)
	}

	if preview := os.Getenv("PREVIEW_IMAGES"); preview != "" {
		config.Preview = isTrue(preview)
	}

	return nil
}

// Missing lists the required environment variables that are not set.
func Missing(config *entity.Config) []string {
	required := []struct {
		name  string
		value string
	}{
		{"NEWS_API_KEY", config.NewsAPIKey},
		{"X_API_KEY", config.XAPIKey},
		{"X_API_KEY_SECRET", config.XAPIKeySecret},
		{"X_ACCESS_TOKEN", config.XAccessToken},
		{"X_ACCESS_TOKEN_SECRET", config.XAccessTokenSecret},
		{"X_BEARER_TOKEN", config.XBearerToken},
	}

	var missing []string

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	return missing
}

func isTrue(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}
