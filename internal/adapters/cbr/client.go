// Package cbr implements the rate source backed by the cbr-xml-daily JSON feed.
package cbr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// DefaultHost is the public mirror of the Central Bank of Russia daily rates.
const DefaultHost = "https://www.cbr-xml-daily.ru"

const (
	dailyEndpoint   = "daily_json.js"
	archiveEndpoint = "archive/%04d/%02d/%02d/daily_json.js"

	endpointDaily   = "daily"
	endpointArchive = "archive"

	maxBodyBytes = 1 << 20
)

type valute struct {
	CharCode string          `json:"CharCode"`
	Name     string          `json:"Name"`
	Nominal  int             `json:"Nominal"`
	Value    decimal.Decimal `json:"Value"`
}

type dailyResponse struct {
	Date   string            `json:"Date"`
	Valute map[string]valute `json:"Valute"`
	Error  string            `json:"error"`
}

// Client fetches and parses feed snapshots.
type Client struct {
	host       string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMetrics records request latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a feed client for host (DefaultHost when empty).
func NewClient(host string, opts ...Option) *Client {
	if host == "" {
		host = DefaultHost
	}
	c := &Client{
		host: strings.TrimRight(host, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portssvc.RateSource = (*Client)(nil)

// LatestURL returns the address of the latest snapshot.
func (c *Client) LatestURL() string {
	return c.host + "/" + dailyEndpoint
}

// URLForDay returns the archive address for date.
func (c *Client) URLForDay(date time.Time) string {
	return c.host + "/" + fmt.Sprintf(archiveEndpoint, date.Year(), int(date.Month()), date.Day())
}

// FetchDay returns the archived snapshot for date. On days without
// publication the feed answers with an error payload.
func (c *Client) FetchDay(ctx context.Context, date time.Time) (*domain.DaySnapshot, error) {
	return c.fetch(ctx, endpointArchive, c.URLForDay(date))
}

// FetchLatest returns the most recently published snapshot.
func (c *Client) FetchLatest(ctx context.Context) (*domain.DaySnapshot, error) {
	return c.fetch(ctx, endpointDaily, c.LatestURL())
}

func (c *Client) fetch(ctx context.Context, endpoint, url string) (snap *domain.DaySnapshot, err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveFeedRequest(endpoint, started, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request for %s: %w", apperrors.ErrFetch, url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrFetch, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response from %s: %w", apperrors.ErrFetch, url, err)
	}

	var payload dailyResponse
	decodeErr := json.Unmarshal(body, &payload)

	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrParse, url, payload.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrParse, url, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", apperrors.ErrParse, url, decodeErr)
	}

	return parseSnapshot(url, payload)
}

func parseSnapshot(url string, payload dailyResponse) (*domain.DaySnapshot, error) {
	if payload.Date == "" {
		return nil, fmt.Errorf("%w: %s: payload has no Date", apperrors.ErrParse, url)
	}
	published, err := time.Parse(time.RFC3339, payload.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: invalid Date %q: %w", apperrors.ErrParse, url, payload.Date, err)
	}

	quotes := make(map[string]domain.Quote, len(payload.Valute))
	for key, v := range payload.Valute {
		code := v.CharCode
		if code == "" {
			code = key
		}
		code = domain.NormalizeCurrencyCode(code)
		if !domain.IsValidCurrencyCode(code) {
			return nil, fmt.Errorf("%w: %s: invalid currency code %q", apperrors.ErrParse, url, code)
		}
		quotes[code] = domain.Quote{
			CurrencyCode: code,
			Name:         strings.TrimSpace(v.Name),
			Value:        v.Value,
		}
	}

	return &domain.DaySnapshot{
		// the calendar date in the feed's own offset
		Date:   domain.DateOf(published),
		Quotes: quotes,
		URL:    url,
	}, nil
}
