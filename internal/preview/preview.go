// Package preview finds the lead image of an article page.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// ErrNoImage is returned when the page declares no lead image.
var ErrNoImage = errors.New("no preview image")

// Finder looks up og:image and similar tags on article pages.
type Finder struct {
	timeout   time.Duration
	transport http.RoundTripper
	logger    *slog.Logger
}

func NewFinder(timeout time.Duration, transport http.RoundTripper, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Finder{timeout: timeout, transport: transport, logger: logger}
}

// Find visits pageURL and returns the absolute URL of its lead image.
// Cancelling ctx aborts the page request.
func (f *Finder) Find(ctx context.Context, pageURL string) (imageURL string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return "", fmt.Errorf("unsupported article URL %q", pageURL)
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)

	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}

	if f.transport != nil {
		c.WithTransport(f.transport)
	}

	c.OnHTML("html", func(e *colly.HTMLElement) {
		if imageURL != "" {
			return
		}

		if found := extractImage(e.DOM); found != "" {
			imageURL = e.Request.AbsoluteURL(found)
		}
	})

	c.OnError(func(r *colly.Response, requestErr error) {
		err = fmt.Errorf("request error %s (status %d): %w", pageURL, r.StatusCode, requestErr)
	})

	if visitErr := c.Visit(pageURL); visitErr != nil && err == nil {
		err = fmt.Errorf("could not visit %s: %w", pageURL, visitErr)
	}

	if err != nil {
		return "", err
	}

	if imageURL == "" {
		return "", ErrNoImage
	}

	f.logger.Debug("Found preview image", "articleUrl", pageURL, "imageUrl", imageURL)

	return imageURL, nil
}
