package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const (
	DefaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	DefaultTweetURL  = "https://api.twitter.com/2/tweets"
	maxResponseSize  = 1 << 20
)

// ErrAPI is matched by errors.Is for any error response from the X API.
var ErrAPI = errors.New("x api error")

// APIError describes a non-success response from the X API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("X API returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("X API returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// Credentials authenticate requests on behalf of the posting account.
type Credentials struct {
	APIKey            string
	APIKeySecret      string
	AccessToken       string
	AccessTokenSecret string
	// BearerToken is app-only auth, which cannot create posts; it is kept
	// for read-only endpoints.
	BearerToken       string
}

// XClient implements Platform with the X API, signing requests with
// OAuth 1.0a user context.
type XClient struct {
	httpClient *http.Client
	uploadURL  string
	tweetURL   string
}

type XOption func(*XClient)

// WithEndpoints overrides the media upload and post creation URLs.
func WithEndpoints(uploadURL, tweetURL string) XOption {
	return func(c *XClient) {
		c.uploadURL = uploadURL
		c.tweetURL = tweetURL
	}
}

// NewXClient builds a client on top of base, which may be nil.
func NewXClient(creds Credentials, timeout time.Duration, base *http.Client, opts ...XOption) *XClient {
	if base == nil {
		base = http.DefaultClient
	}

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	config := oauth1.NewConfig(creds.APIKey, creds.APIKeySecret)
	httpClient := config.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret))
	httpClient.Timeout = timeout

	c := &XClient{
		httpClient: httpClient,
		uploadURL:  DefaultUploadURL,
		tweetURL:   DefaultTweetURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type mediaResponse struct {
	MediaIDString string `json:"media_id_string"`
}

// UploadMedia uploads raw image bytes and returns the media ID.
func (c *XClient) UploadMedia(ctx context.Context, filename string, media io.Reader) (string, error) {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", filename)

	if err != nil {
		return "", fmt.Errorf("could not create media form: %w", err)
	}

	if _, err = io.Copy(part, media); err != nil {
		return "", fmt.Errorf("could not read media: %w", err)
	}

	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("could not create media form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)

	if err != nil {
		return "", fmt.Errorf("could not create an upload request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	var res mediaResponse

	if err = c.do(req, &res); err != nil {
		return "", fmt.Errorf("could not upload media: %w", err)
	}

	if res.MediaIDString == "" {
		return "", fmt.Errorf("could not upload media: empty media id")
	}

	return res.MediaIDString, nil
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// CreatePost publishes text with the given media attached and returns the post ID.
func (c *XClient) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	payload := tweetRequest{Text: text}

	if len(mediaIDs) > 0 {
		payload.Media = &tweetMedia{MediaIDs: mediaIDs}
	}

	body, err := json.Marshal(payload)

	if err != nil {
		return "", fmt.Errorf("could not encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tweetURL, bytes.NewReader(body))

	if err != nil {
		return "", fmt.Errorf("could not create a post request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	var res tweetResponse

	if err = c.do(req, &res); err != nil {
		return "", fmt.Errorf("could not create post: %w", err)
	}

	if res.Data.ID == "" {
		return "", fmt.Errorf("could not create post: empty post id")
	}

	return res.Data.ID, nil
}

// errorResponse covers both the v2 problem format and the v1.1 errors list.
type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
}

func (c *XClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))

	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Message: errorMessage(body)}
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	return nil
}

func errorMessage(body []byte) string {
	var res errorResponse

	if err := json.Unmarshal(body, &res); err != nil {
		return strings.TrimSpace(string(body))
	}

	if res.Detail != "" {
		return res.Detail
	}

	messages := make([]string, 0, len(res.Errors))

	for _, e := range res.Errors {
		messages = append(messages, e.Message)
	}

	if len(messages) > 0 {
		return strings.Join(messages, "; ")
	}

	return res.Title
}
