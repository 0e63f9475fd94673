// Package immich forwards metadata searches to an Immich server.
package immich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/c0pper/data-driven-blog/internal/config"
	"github.com/c0pper/data-driven-blog/internal/logging"
	"github.com/c0pper/data-driven-blog/internal/metrics"
	"github.com/c0pper/data-driven-blog/internal/upstream"
)

const (
	serviceName   = "immich"
	searchPath    = "/api/search/metadata"
	searchTimeout = 30 * time.Second
	maxBodyBytes  = 64 << 20
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, cfg config.ImmichConfig, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.New("error")
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Search posts the filter to the metadata endpoint and returns the response
// body untouched.
func (c *Client) Search(ctx context.Context, req SearchAssetsRequest) (json.RawMessage, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}
	sctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(sctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	// searchTimeout expiring is the server's fault; only the caller's ctx
	// ending passes through unwrapped.
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = upstream.Transport(ctx, serviceName, err)
		metrics.RecordUpstreamCall(serviceName, upstream.Outcome(err))
		return nil, err
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamCall(serviceName, strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, upstream.Transport(ctx, serviceName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &upstream.StatusError{Service: serviceName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	summary := gjson.GetManyBytes(body, "assets.total", "albums.total")
	if summary[0].Exists() {
		metrics.ObserveSearchAssets(summary[0].Int())
	}
	c.logger.Debugf("immich search: assets=%d albums=%d", summary[0].Int(), summary[1].Int())
	return json.RawMessage(body), nil
}

// DayRequest builds a filter for assets taken on date (YYYY-MM-DD), from
// 00:00:00 to 23:59:59.999999 UTC, oldest first.
func DayRequest(date string, withExif bool) (SearchAssetsRequest, error) {
	day, err := upstream.ParseDate("date", date)
	if err != nil {
		return SearchAssetsRequest{}, err
	}
	order := OrderAsc
	return SearchAssetsRequest{
		TakenAfter:  &Timestamp{Time: day},
		TakenBefore: &Timestamp{Time: day.Add(24*time.Hour - time.Microsecond)},
		WithExif:    &withExif,
		Order:       &order,
	}, nil
}

func (c *Client) SearchByDate(ctx context.Context, date string, withExif bool) (json.RawMessage, error) {
	req, err := DayRequest(date, withExif)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, req)
}

// SearchTyped runs Search and decodes the result.
func (c *Client) SearchTyped(ctx context.Context, req SearchAssetsRequest) (*SearchMetadataResponse, error) {
	raw, err := c.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	var out SearchMetadataResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: decode search response: %w", serviceName, err)
	}
	return &out, nil
}
