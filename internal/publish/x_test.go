package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nDmitry/technewsbot/internal/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = publish.Credentials{
	APIKey:            "consumer-key",
	APIKeySecret:      "consumer-secret",
	AccessToken:       "access-token",
	AccessTokenSecret: "access-secret",
	BearerToken:       "bearer",
}

func newXServer(t *testing.T, upload, tweet http.HandlerFunc) *publish.XClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /1.1/media/upload.json", upload)
	mux.HandleFunc("POST /2/tweets", tweet)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return publish.NewXClient(testCredentials, 5*time.Second, srv.Client(),
		publish.WithEndpoints(srv.URL+"/1.1/media/upload.json", srv.URL+"/2/tweets"))
}

func assertSigned(t *testing.T, r *http.Request) {
	t.Helper()

	auth := r.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "OAuth "), "missing OAuth header: %q", auth)
	assert.Contains(t, auth, `oauth_consumer_key="consumer-key"`)
	assert.Contains(t, auth, `oauth_token="access-token"`)
	assert.Contains(t, auth, `oauth_signature_method="HMAC-SHA1"`)
	assert.NotContains(t, auth, "bearer")
}

func TestXClient_UploadMedia(t *testing.T) {
	client := newXServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			assertSigned(t, r)

			file, header, err := r.FormFile("media")
			if !assert.NoError(t, err) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer file.Close()

			data, _ := io.ReadAll(file)
			assert.Equal(t, "fake-png-bytes", string(data))
			assert.Equal(t, "lead.png", header.Filename)

			_, _ = w.Write([]byte(`{"media_id": 710511363345354753, "media_id_string": "710511363345354753", "size": 14}`))
		},
		func(w http.ResponseWriter, _ *http.Request) {
			t.Error("post should not be created")
		},
	)

	mediaID, err := client.UploadMedia(context.Background(), "lead.png", strings.NewReader("fake-png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "710511363345354753", mediaID)
}

func TestXClient_CreatePost(t *testing.T) {
	tests := []struct {
		name          string
		mediaIDs      []string
		expectedMedia any
	}{
		{
			name:          "Text only",
			mediaIDs:      nil,
			expectedMedia: nil,
		},
		{
			name:          "With media",
			mediaIDs:      []string{"42"},
			expectedMedia: map[string]any{"media_ids": []any{"42"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newXServer(t,
				func(w http.ResponseWriter, _ *http.Request) {
					t.Error("media should not be uploaded")
				},
				func(w http.ResponseWriter, r *http.Request) {
					assertSigned(t, r)
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

					var payload map[string]any
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
					assert.Equal(t, "🤖 Big AI Breakthrough", payload["text"])
					assert.Equal(t, tt.expectedMedia, payload["media"])

					w.WriteHeader(http.StatusCreated)
					_, _ = w.Write([]byte(`{"data": {"id": "1445880548472328192", "text": "🤖 Big AI Breakthrough"}}`))
				},
			)

			postID, err := client.CreatePost(context.Background(), "🤖 Big AI Breakthrough", tt.mediaIDs)
			require.NoError(t, err)
			assert.Equal(t, "1445880548472328192", postID)
		})
	}
}

func TestXClient_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr string
	}{
		{
			name:        "v2 problem response",
			status:      http.StatusUnauthorized,
			body:        `{"title": "Unauthorized", "type": "about:blank", "status": 401, "detail": "Unauthorized"}`,
			expectedErr: "X API returned status 401: Unauthorized",
		},
		{
			name:        "v1.1 errors list",
			status:      http.StatusForbidden,
			body:        `{"errors": [{"code": 187, "message": "Status is a duplicate."}]}`,
			expectedErr: "X API returned status 403: Status is a duplicate.",
		},
		{
			name:        "Plain text body",
			status:      http.StatusServiceUnavailable,
			body:        "Over capacity",
			expectedErr: "X API returned status 503: Over capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}

			client := newXServer(t, fail, fail)

			_, err := client.CreatePost(context.Background(), "text", nil)
			assert.ErrorIs(t, err, publish.ErrAPI)
			assert.ErrorContains(t, err, tt.expectedErr)

			_, err = client.UploadMedia(context.Background(), "a.jpg", strings.NewReader("x"))
			assert.ErrorIs(t, err, publish.ErrAPI)

			var apiErr *publish.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestXClient_EmptyIDs(t *testing.T) {
	empty := func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}

	client := newXServer(t, empty, empty)

	_, err := client.CreatePost(context.Background(), "text", nil)
	assert.ErrorContains(t, err, "empty post id")

	_, err = client.UploadMedia(context.Background(), "a.jpg", strings.NewReader("x"))
	assert.ErrorContains(t, err, "empty media id")
}
