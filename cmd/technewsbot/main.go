package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nDmitry/technewsbot/internal/app"
	"github.com/nDmitry/technewsbot/internal/cache"
	"github.com/nDmitry/technewsbot/internal/config"
	"github.com/nDmitry/technewsbot/internal/format"
	"github.com/nDmitry/technewsbot/internal/news"
	"github.com/nDmitry/technewsbot/internal/preview"
	"github.com/nDmitry/technewsbot/internal/publish"
	"github.com/nDmitry/technewsbot/internal/retry"
	"github.com/nDmitry/technewsbot/internal/transport"
)

func main() {
	cfg, err := config.Load(baseDir())

	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile := app.NewLogger(cfg.LogFile, os.Stdout)
	defer logFile.Close()

	slog.SetDefault(logger)

	if missing := config.Missing(cfg); len(missing) > 0 {
		logger.Warn("Missing credentials", "vars", missing)
	}

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received first shutdown signal, cancelling the run...")
		cancel()

		// If we receive a second signal, exit immediately
		<-sigChan
		logger.Info("Received second shutdown signal, exiting immediately...")
		os.Exit(1)
	}()

	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	httpClient := transport.NewClient(cfg.HTTPTimeout, logger)
	policy := retry.NewPolicy(cfg.RetryAttempts, cfg.RetryBackoff)

	clientOpts := []news.ClientOption{
		news.WithHTTPClient(httpClient),
		news.WithLogger(logger),
	}

	if cfg.RedisHost != "" && cfg.CacheTTL > 0 {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisHost, "technews:")

		if err != nil {
			logger.Warn("Headlines cache disabled", "error", err)
		} else {
			defer redisCache.Close()

			clientOpts = append(clientOpts, news.WithCache(redisCache, time.Duration(cfg.CacheTTL)*time.Minute))
		}
	}

	fetcher := &news.Fetcher{
		Client: news.NewClient(cfg.NewsEndpoint, cfg.NewsAPIKey, clientOpts...),
		Policy: policy,
		Rand:   rnd,
		Query: news.Query{
			Country:  cfg.Country,
			Category: cfg.Category,
			PageSize: cfg.PageSize,
		},
		MaxPage: cfg.MaxPage,
		Logger:  logger,
	}

	x := publish.NewXClient(publish.Credentials{
		APIKey:            cfg.XAPIKey,
		APIKeySecret:      cfg.XAPIKeySecret,
		AccessToken:       cfg.XAccessToken,
		AccessTokenSecret: cfg.XAccessTokenSecret,
		BearerToken:       cfg.XBearerToken,
	}, cfg.HTTPTimeout, httpClient)

	publisher := publish.NewPublisher(x,
		publish.WithHTTPClient(httpClient),
		publish.WithPolicy(policy),
		publish.WithDryRun(cfg.DryRun),
		publish.WithLogger(logger),
	)

	runner := &app.Runner{
		Fetcher:       fetcher,
		Formatter:     format.NewFormatter(cfg.SnippetLength, rnd),
		Publisher:     publisher,
		Rand:          rnd,
		MaxPostLength: cfg.MaxPostLength,
		Logger:        logger,
	}

	if cfg.Preview {
		runner.Images = preview.NewFinder(cfg.HTTPTimeout, transport.Logger(nil, logger), logger)
	}

	if runner.Run(ctx) {
		logger.Info("Run finished")
	} else {
		logger.Info("Run finished without a post")
	}
}

// baseDir is the directory of the executable, where .env and the log file
// live. Falls back to the working directory.
func baseDir() string {
	exe, err := os.Executable()

	if err != nil {
		return "."
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}
