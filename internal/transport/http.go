package transport

import (
	"log/slog"
	"net"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

var httpTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 2,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	DisableCompression:  false,
}

// NewClient returns an HTTP client with the given overall timeout whose
// requests and responses are logged.
func NewClient(timeout time.Duration, logger *slog.Logger) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport: Logger(httpTransport, logger),
		Timeout:   timeout,
	}
}
