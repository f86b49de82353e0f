// Package mlbstats implements ports.DataProvider against the public MLB Stats API.
//
// Player stats are fetched one request per player, in parallel up to the
// configured concurrency and paced by a token-bucket limiter. Any player whose
// stats cannot be fetched, or whose sample is too small, gets league averages.
package mlbstats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aretw0/ballpark/internal/logging"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public MLB Stats API.
const DefaultBaseURL = "https://statsapi.mlb.com"

// Client talks to the MLB Stats API.
type Client struct {
	baseURL     string
	http        *http.Client
	limiter     *rate.Limiter
	concurrency int
	teamsTTL    time.Duration
	logger      *slog.Logger
	src         probability.Source

	mu      sync.Mutex
	teams   []domain.Team
	teamsAt time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another host, such as a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithConcurrency bounds parallel stat requests.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTeamsTTL sets how long the team list is cached.
func WithTeamsTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.teamsTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSource sets the random source used to draw opponents.
func WithSource(src probability.Source) Option {
	return func(c *Client) {
		c.src = src
	}
}

// New creates a client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		http:        &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(20), 10),
		concurrency: 8,
		teamsTTL:    time.Hour,
		logger:      logging.NewNop(),
		src:         probability.DefaultSource(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get decodes a JSON response into dst. Transport failures and non-2xx
// statuses wrap domain.ErrProviderUnavailable.
func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: %s: %s", domain.ErrProviderUnavailable, path, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrProviderUnavailable, path, err)
	}
	return nil
}
