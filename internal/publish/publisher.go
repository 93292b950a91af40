// Package publish posts formatted news to X.
package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nDmitry/technewsbot/internal/retry"
)

// X rejects images over 5 MB.
const maxImageSize = 5 << 20

// Platform is the microblogging API a post is published to.
type Platform interface {
	// UploadMedia uploads raw image bytes and returns a media handle.
	UploadMedia(ctx context.Context, filename string, media io.Reader) (string, error)

	// CreatePost publishes text with optional media and returns the post ID.
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
}

type Publisher struct {
	platform   Platform
	httpClient *http.Client
	policy     *retry.Policy
	tmpDir     string
	dryRun     bool
	logger     *slog.Logger
}

type Option func(*Publisher)

// WithHTTPClient sets the client used to download images.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(p *Publisher) {
		p.httpClient = httpClient
	}
}

func WithPolicy(policy *retry.Policy) Option {
	return func(p *Publisher) {
		p.policy = policy
	}
}

// WithTempDir sets where downloaded images are kept while uploading.
// The default is the OS temp directory.
func WithTempDir(dir string) Option {
	return func(p *Publisher) {
		p.tmpDir = dir
	}
}

// WithDryRun makes Publish log the post instead of sending it.
func WithDryRun(dryRun bool) Option {
	return func(p *Publisher) {
		p.dryRun = dryRun
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(platform Platform, opts ...Option) *Publisher {
	p := &Publisher{
		platform:   platform,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		policy:     retry.Default(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.policy == nil {
		p.policy = retry.Default()
	}

	return p
}

// Publish posts body, attaching the image at imageURL when it is set.
// With an image every attempt downloads it, uploads it and then creates
// the post; a failed upload fails the attempt and never degrades into a
// text-only post. Failures are logged and reported as false.
func (p *Publisher) Publish(ctx context.Context, body string, imageURL string) bool {
	if p.dryRun {
		p.logger.Info("Dry run, post not sent", "body", body, "imageUrl", imageURL)
		return true
	}

	policy := *p.policy
	policy.OnFailure = func(attempt, attempts int, err error) {
		p.logger.Error(fmt.Sprintf("Error posting to X (attempt %d/%d): %v", attempt, attempts, err))
	}

	var postID string

	err := policy.Do(ctx, func(ctx context.Context, _ int) error {
		var err error
		postID, err = p.publishOnce(ctx, body, imageURL)

		return err
	})

	if err != nil {
		p.logger.Error("Failed to post after retries.", "error", err)
		return false
	}

	p.logger.Info("Tweet posted: "+postID, "withImage", imageURL != "")

	return true
}

func (p *Publisher) publishOnce(ctx context.Context, body string, imageURL string) (string, error) {
	if imageURL == "" {
		return p.platform.CreatePost(ctx, body, nil)
	}

	image, cleanup, err := p.downloadImage(ctx, imageURL)

	if err != nil {
		return "", err
	}

	defer cleanup()

	mediaID, err := p.platform.UploadMedia(ctx, filepath.Base(image.Name()), image)

	if err != nil {
		return "", err
	}

	return p.platform.CreatePost(ctx, body, []string{mediaID})
}

// downloadImage saves the image into a temp file and returns it rewound.
// cleanup closes and removes the file.
func (p *Publisher) downloadImage(ctx context.Context, imageURL string) (*os.File, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)

	if err != nil {
		return nil, nil, fmt.Errorf("could not create an image request: %w", err)
	}

	res, err := p.httpClient.Do(req)

	if err != nil {
		return nil, nil, fmt.Errorf("could not download an image: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, nil, fmt.Errorf("could not download an image: status %d", res.StatusCode)
	}

	tmpFile, err := os.CreateTemp(p.tmpDir, "technews_image_*"+imageExt(imageURL))

	if err != nil {
		return nil, nil, fmt.Errorf("could not create a temp file: %w", err)
	}

	cleanup := func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}

	n, err := io.Copy(tmpFile, io.LimitReader(res.Body, maxImageSize+1))

	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not save an image into %s: %w", tmpFile.Name(), err)
	}

	if n > maxImageSize {
		cleanup()
		return nil, nil, fmt.Errorf("image %s is larger than %d bytes", imageURL, maxImageSize)
	}

	if _, err = tmpFile.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not rewind %s: %w", tmpFile.Name(), err)
	}

	return tmpFile, cleanup, nil
}

func imageExt(imageURL string) string {
	u, err := url.Parse(imageURL)

	if err != nil {
		return ".jpg"
	}

	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
