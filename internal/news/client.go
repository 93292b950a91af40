package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nDmitry/technewsbot/internal/cache"
	"github.com/nDmitry/technewsbot/internal/entity"
)

const (
	DefaultEndpoint = "https://newsapi.org/v2/top-headlines"
	statusOK        = "ok"
	maxBodySize     = 4 << 20
	cacheTimeout    = 5 * time.Second
)

// ErrAPIStatus is matched by errors.Is for responses whose status field is not "ok".
var ErrAPIStatus = errors.New("news api error")

// APIError is the error envelope NewsAPI returns with status "error".
type APIError struct {
	Status  string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("News API error: %s", e.Message)
	}

	return fmt.Sprintf("News API error: %s (%s)", e.Message, e.Code)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPIStatus
}

// Query selects a page of top headlines.
type Query struct {
	Country  string
	Category string
	PageSize int
	Page     int
}

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// Client talks to the NewsAPI top-headlines endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCache keeps successful responses in c for ttl. A zero ttl disables it.
func WithCache(c cache.Cache, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(endpoint string, apiKey string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TopHeadlines returns the articles of one result page exactly as received.
func (c *Client) TopHeadlines(ctx context.Context, q Query) ([]entity.Article, error) {
	key := cacheKey(q)

	if body, ok := c.cached(ctx, key); ok {
		var res response

		if err := json.Unmarshal(body, &res); err == nil && res.Status == statusOK {
			c.logger.Debug("Using cached headlines", "page", q.Page)
			return toArticles(res.Articles), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(q), nil)

	if err != nil {
		return nil, fmt.Errorf("could not create a request: %w", err)
	}

	res, err := c.httpClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("could not get headlines: %w", redactURL(err))
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))

	if err != nil {
		return nil, fmt.Errorf("could not read headlines response: %w", err)
	}

	var payload response
	decodeErr := json.Unmarshal(body, &payload)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if decodeErr == nil && payload.Message != "" {
			return nil, fmt.Errorf("headlines returned status %d: %w", res.StatusCode, apiError(payload))
		}

		return nil, fmt.Errorf("headlines returned status %d", res.StatusCode)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("could not decode headlines response: %w", decodeErr)
	}

	if payload.Status != statusOK {
		return nil, apiError(payload)
	}

	c.store(ctx, key, body)

	return toArticles(payload.Articles), nil
}

func (c *Client) requestURL(q Query) string {
	params := url.Values{}
	params.Set("country", q.Country)
	params.Set("category", q.Category)
	params.Set("apiKey", c.apiKey)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("page", strconv.Itoa(q.Page))

	return c.endpoint + "?" + params.Encode()
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil, false
	}

	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	body, err := c.cache.Get(cacheCtx, key)

	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("Cache error", "key", key, "error", err)
		}

		return nil, false
	}

	return body, true
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancel()

	if err := c.cache.Set(cacheCtx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn("Failed to cache headlines", "key", key, "error", err)
	}
}

func cacheKey(q Query) string {
	return fmt.Sprintf("newsapi:top-headlines:%s:%s:%d:%d", q.Country, q.Category, q.PageSize, q.Page)
}

func apiError(payload response) *APIError {
	return &APIError{Status: payload.Status, Code: payload.Code, Message: payload.Message}
}

func toArticles(items []article) []entity.Article {
	articles := make([]entity.Article, 0, len(items))

	for _, item := range items {
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)

		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, entity.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			Source:      item.Source.Name,
			Author:      item.Author,
			PublishedAt: publishedAt,
		})
	}

	return articles
}

// redactURL drops the query, which carries the API key, from the URL
// embedded in transport errors.
func redactURL(err error) error {
	var urlErr *url.Error

	if errors.As(err, &urlErr) {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u.RawQuery = ""
			urlErr.URL = u.String()
		} else {
			urlErr.URL = ""
		}
	}

	return err
}
