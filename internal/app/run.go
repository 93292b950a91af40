package app

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/nDmitry/technewsbot/internal/entity"
	"github.com/nDmitry/technewsbot/internal/format"
)

type Fetcher interface {
	FetchArticles(ctx context.Context) []entity.Article
}

type Formatter interface {
	Format(article entity.Article) entity.Post
}

type Publisher interface {
	Publish(ctx context.Context, body string, imageURL string) bool
}

// ImageFinder looks up a lead image on the article page.
type ImageFinder interface {
	Find(ctx context.Context, pageURL string) (string, error)
}

// Runner performs one fetch, select, format and publish cycle.
type Runner struct {
	Fetcher       Fetcher
	Formatter     Formatter
	Publisher     Publisher
	Images        ImageFinder // optional
	Rand          *rand.Rand
	MaxPostLength int
	Logger        *slog.Logger
}

// Run reports whether a post was published. Every outcome is logged.
func (r *Runner) Run(ctx context.Context) bool {
	logger := r.logger()

	articles := r.Fetcher.FetchArticles(ctx)

	if len(articles) == 0 {
		logger.Info("No news fetched; no post made.")
		return false
	}

	article, post, ok := r.selectPost(articles)

	if !ok {
		logger.Warn("No article fits in a post; no post made.", "articles", len(articles))
		return false
	}

	if post.ImageURL == "" && r.Images != nil && article.URL != "" {
		imageURL, err := r.Images.Find(ctx, article.URL)

		if err != nil {
			logger.Debug("No preview image", "articleUrl", article.URL, "error", err)
		} else {
			post.ImageURL = imageURL
		}
	}

	logger.Info("Selected article", "title", article.Title, "source", article.Source, "url", article.URL)

	return r.Publisher.Publish(ctx, post.Body, post.ImageURL)
}

// selectPost formats articles in random order and returns the first one
// whose post fits the length limit. "[Removed]" placeholders are skipped.
func (r *Runner) selectPost(articles []entity.Article) (entity.Article, entity.Post, bool) {
	limit := r.MaxPostLength

	if limit <= 0 {
		limit = format.DefaultMaxPostLength
	}

	var order []int

	if r.Rand != nil {
		order = r.Rand.Perm(len(articles))
	} else {
		order = rand.Perm(len(articles))
	}

	for _, i := range order {
		article := articles[i]

		if article.Removed() {
			continue
		}

		post := r.Formatter.Format(article)

		if format.Fits(post.Body, limit) {
			return article, post, true
		}

		r.logger().Debug("Post too long, trying another article",
			"title", article.Title,
			"length", len([]rune(post.Body)),
			"limit", limit)
	}

	return entity.Article{}, entity.Post{}, false
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}

	return r.Logger
}
