// Package finnhub implements a wallet.Quoter backed by the finnhub.io quote API.
package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/wallet"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://finnhub.io/api/v1"
	// DefaultSuffix is the exchange suffix of the Egyptian exchange.
	DefaultSuffix = ".CA"
	DefaultTTL    = time.Minute
)

var (
	ErrNoAPIKey = errors.New("finnhub API key is not set")
	// ErrNoData is returned when finnhub has no recent trade for a symbol.
	ErrNoData = errors.New("no quote data")
)

// Client fetches quotes from finnhub. It caches quotes and limits the request
// rate to stay within the free tier.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	suffix  string
	cache   *cache.Cache
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mostly for tests.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }

// WithSuffix sets the exchange suffix appended to bare symbols, empty for none.
func WithSuffix(s string) Option { return func(c *Client) { c.suffix = s } }

// WithTTL sets how long quotes are cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = cache.New(ttl, 2*ttl) }
}

// WithRate sets the request rate limit.
func WithRate(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithHTTPClient sets the http client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("module", "finnhub").Logger() }
}

// New returns a client authenticated with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: DefaultBaseURL,
		token:   token,
		suffix:  DefaultSuffix,
		cache:   cache.New(DefaultTTL, 2*DefaultTTL),
		// free tier allows 60 calls per minute.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Symbol returns the finnhub symbol for a stock name.
func (c *Client) Symbol(stock string) string {
	s := strings.ToUpper(strings.TrimSpace(stock))
	if c.suffix == "" || strings.HasSuffix(s, strings.ToUpper(c.suffix)) {
		return s
	}
	return s + strings.ToUpper(c.suffix)
}

// fields maps Quote fields to their path in the finnhub response.
var fields = []struct {
	path string
	set  func(q *wallet.Quote, v float64)
}{
	{"$.c", func(q *wallet.Quote, v float64) { q.CurrentPrice = wallet.A(v) }},
	{"$.d", func(q *wallet.Quote, v float64) { q.Change = wallet.A(v) }},
	{"$.dp", func(q *wallet.Quote, v float64) { q.PercentChange = v }},
	{"$.h", func(q *wallet.Quote, v float64) { q.High = wallet.A(v) }},
	{"$.l", func(q *wallet.Quote, v float64) { q.Low = wallet.A(v) }},
	{"$.o", func(q *wallet.Quote, v float64) { q.Open = wallet.A(v) }},
	{"$.pc", func(q *wallet.Quote, v float64) { q.PreviousClose = wallet.A(v) }},
}

// Quote returns the last quote of stock.
func (c *Client) Quote(ctx context.Context, stock string) (wallet.Quote, error) {
	if c.token == "" {
		return wallet.Quote{}, ErrNoAPIKey
	}
	symbol := c.Symbol(stock)
	if q, ok := c.cache.Get(symbol); ok {
		return q.(wallet.Quote), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return wallet.Quote{}, fmt.Errorf("rate limit wait for %s: %w", symbol, err)
	}

	var jobj any
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &jobj); err != nil {
		return wallet.Quote{}, fmt.Errorf("error retrieving quote of %q: %w", symbol, err)
	}
	q := wallet.Quote{Symbol: symbol}
	for _, f := range fields {
		jval, err := jsonpath.Get(f.path, jobj)
		if err != nil {
			// null or missing fields are left to zero.
			continue
		}
		if v, ok := jval.(float64); ok {
			f.set(&q, v)
		}
	}
	if !q.CurrentPrice.IsPositive() {
		c.log.Warn().Str("symbol", symbol).Msg("no data received")
		return wallet.Quote{}, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}
	c.cache.SetDefault(symbol, q)
	return q, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	query.Set("token", c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("finnhub request")
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
