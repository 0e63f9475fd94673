// Package journiv is the client for the Journiv journaling API. It owns the
// bearer-token session, retries a call once after refreshing on 401, and
// walks paged list endpoints to materialize whole collections.
package journiv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/c0pper/data-driven-blog/internal/config"
	"github.com/c0pper/data-driven-blog/internal/logging"
	"github.com/c0pper/data-driven-blog/internal/metrics"
	"github.com/c0pper/data-driven-blog/internal/upstream"
)

const (
	serviceName  = "journiv"
	maxBodyBytes = 32 << 20
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	password   string
	exhaustive bool
	logger     *logging.Logger

	mu           sync.RWMutex
	state        State
	accessToken  string
	refreshToken string

	flight singleflight.Group
}

func NewClient(httpClient *http.Client, cfg config.JournivConfig, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.New("error")
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		email:      cfg.Email,
		password:   cfg.Password,
		exhaustive: cfg.ExhaustivePaging,
		logger:     logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

type response struct {
	status int
	body   []byte
}

// send performs one round trip and reads the whole body. Transport
// failures come back wrapped in ErrConnectivity unless ctx has ended.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, header http.Header, body any) (*response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = upstream.Transport(ctx, serviceName, err)
		metrics.RecordUpstreamCall(serviceName, upstream.Outcome(err))
		return nil, err
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamCall(serviceName, strconv.Itoa(resp.StatusCode))
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, upstream.Transport(ctx, serviceName, err)
	}
	return &response{status: resp.StatusCode, body: b}, nil
}

func (r *response) err() error {
	return &upstream.StatusError{Service: serviceName, StatusCode: r.status, Body: string(r.body)}
}

func (r *response) decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", serviceName, err)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}
