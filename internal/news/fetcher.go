package news

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/nDmitry/technewsbot/internal/entity"
	"github.com/nDmitry/technewsbot/internal/retry"
)

// Headlines returns one page of top headlines.
type Headlines interface {
	TopHeadlines(ctx context.Context, q Query) ([]entity.Article, error)
}

// Fetcher picks a random result page and fetches it with retries.
type Fetcher struct {
	Client  Headlines
	Policy  *retry.Policy
	Rand    *rand.Rand
	// Query.Page is ignored, a page in [1, MaxPage] is drawn for every fetch.
	Query   Query
	MaxPage int
	Logger  *slog.Logger
}

// FetchArticles returns the articles of a random page or nil once all
// attempts have failed. Failures are logged, not returned.
func (f *Fetcher) FetchArticles(ctx context.Context) []entity.Article {
	logger := f.Logger

	if logger == nil {
		logger = slog.Default()
	}

	q := f.Query
	q.Page = f.randomPage()

	policy := retry.Default()

	if f.Policy != nil {
		p := *f.Policy
		policy = &p
	}

	policy.OnFailure = func(attempt, attempts int, err error) {
		logger.Error(fmt.Sprintf("Error fetching news (attempt %d/%d): %v", attempt, attempts, err), "page", q.Page)
	}

	var articles []entity.Article

	err := policy.Do(ctx, func(ctx context.Context, _ int) error {
		var err error
		articles, err = f.Client.TopHeadlines(ctx, q)

		return err
	})

	if err != nil {
		logger.Error("Failed to fetch news after retries. Skipping post.", "error", err)
		return nil
	}

	logger.Debug("Fetched news", "page", q.Page, "articles", len(articles))

	return articles
}

func (f *Fetcher) randomPage() int {
	if f.MaxPage <= 1 {
		return 1
	}

	if f.Rand == nil {
		return 1 + rand.IntN(f.MaxPage)
	}

	return 1 + f.Rand.IntN(f.MaxPage)
}
