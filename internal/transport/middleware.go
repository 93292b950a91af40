package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingRoundTripper wraps an http.RoundTripper with request/response logging
type loggingRoundTripper struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// Logger wraps next so every outgoing request is logged at debug level.
// Query strings are left out as they carry API keys.
func Logger(next http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &loggingRoundTripper{next: next, logger: logger}
}

func (t *loggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	res, err := t.next.RoundTrip(r)

	duration := time.Since(start)

	if err != nil {
		t.logger.DebugContext(r.Context(), "HTTP request failed",
			"method", r.Method,
			"host", r.URL.Host,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)

		return nil, err
	}

	t.logger.DebugContext(r.Context(), "HTTP response",
		"method", r.Method,
		"host", r.URL.Host,
		"path", r.URL.Path,
		"status", res.StatusCode,
		"duration_ms", duration.Milliseconds(),
		"bytes", res.ContentLength,
	)

	return res, nil
}
