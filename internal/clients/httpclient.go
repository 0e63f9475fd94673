package clients

import (
	"net"
	"net/http"
	"time"

	"github.com/c0pper/data-driven-blog/internal/config"
)

// NewHTTPClient builds the client shared by both backend clients. The
// overall timeout comes from REQUEST_TIMEOUT_SECONDS.
func NewHTTPClient(cfg config.Config) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
	}
	return &http.Client{Transport: transport, Timeout: cfg.RequestTimeout()}
}
