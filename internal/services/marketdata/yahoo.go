// Package marketdata is the Yahoo Finance gateway: search, quotes and details
// normalized into StockSummary and StockDetails.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	domsvc "StockTrack/internal/domain/service"
	"StockTrack/pkg/cache"
	"StockTrack/pkg/errs"
	xhttp "StockTrack/pkg/http"
	applogger "StockTrack/pkg/logger"
	"StockTrack/pkg/metrics"
)

const serviceName = "market_data"

// Option configures Client.
type Option func(*Client)

// Client implements service.MarketData against the Yahoo Finance public endpoints.
type Client struct {
	http        *xhttp.Client
	baseURL     string
	searchLimit int
	cache       cache.Service
	quoteTTL    time.Duration
	metrics     repository.Metrics
	logger      *applogger.Logger
}

func NewClient(httpClient *xhttp.Client, baseURL string, opts ...Option) *Client {
	c := &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		searchLimit: 5,
		metrics:     metrics.Nop{},
		logger:      applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSearchLimit caps the number of search hits.
func WithSearchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithCache caches chart lookups for ttl. A zero ttl disables caching.
func WithCache(s cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		if s != nil && ttl > 0 {
			c.cache = s
			c.quoteTTL = ttl
		}
	}
}

func WithMetrics(m repository.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Search returns at most searchLimit matches for query.
func (c *Client) Search(ctx context.Context, query string) ([]models.StockSummary, error) {
	var resp searchResponse
	err := c.get(ctx, "search", "/v1/finance/search", url.Values{
		"q":           {query},
		"quotesCount": {strconv.Itoa(c.searchLimit)},
		"newsCount":   {"0"},
	}, &resp)
	if err != nil {
		return nil, errs.Wrap(errs.Upstream, "Error fetching stock data", err)
	}

	stocks := make([]models.StockSummary, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		stocks = append(stocks, models.StockSummary{
			Ticker:   q.Symbol,
			Name:     displayName(q.LongName, q.ShortName),
			Exchange: q.Exchange,
		})
		if len(stocks) == c.searchLimit {
			break
		}
	}
	return stocks, nil
}

// Quote returns the current price summary for ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (models.StockSummary, error) {
	meta, err := c.chart(ctx, ticker)
	if err != nil {
		return models.StockSummary{}, err
	}
	s := meta.summary()
	if s.Price != nil {
		c.metrics.RecordLastPrice(s.Ticker, *s.Price)
	}
	return s, nil
}

// Details returns the extended quote for ticker.
func (c *Client) Details(ctx context.Context, ticker string) (models.StockDetails, error) {
	meta, err := c.chart(ctx, ticker)
	if err != nil {
		return models.StockDetails{}, err
	}
	return meta.details(), nil
}

func (c *Client) chart(ctx context.Context, ticker string) (*chartMeta, error) {
	key := cache.GenerateKey("chart", ticker)
	if c.cache != nil {
		var cached chartMeta
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("quote cache read failed", applogger.String("ticker", ticker), applogger.Error(err))
		}
	}

	var resp chartResponse
	err := c.get(ctx, "chart", "/v8/finance/chart/"+url.PathEscape(ticker), url.Values{
		"range":    {"1d"},
		"interval": {"1d"},
	}, &resp)
	if err != nil {
		if xhttp.IsStatus(err, http.StatusNotFound) {
			return nil, errs.Wrap(errs.NotFound, "Stock not found", err)
		}
		return nil, errs.Wrap(errs.Upstream, "Error fetching stock data", err)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, errs.NotFoundf("Stock not found")
	}

	meta := resp.Chart.Result[0].Meta
	if meta.Symbol == "" {
		meta.Symbol = ticker
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, meta, c.quoteTTL); err != nil {
			c.logger.Warn("quote cache write failed", applogger.String("ticker", ticker), applogger.Error(err))
		}
	}
	return &meta, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, dest interface{}) error {
	start := time.Now()
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	}, dest)
	c.metrics.ObserveUpstream(serviceName, op, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

var _ domsvc.MarketData = (*Client)(nil)
