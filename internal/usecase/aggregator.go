package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	domsvc "StockTrack/internal/domain/service"
	"StockTrack/pkg/errs"
	applogger "StockTrack/pkg/logger"
	"StockTrack/pkg/metrics"
	"StockTrack/pkg/util"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	DefaultTrendingSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"}
	DefaultOverviewSymbols = []string{"^GSPC", "^DJI", "^IXIC"}
	DefaultModels          = []string{"rf", "xgb"}
)

// AggregatorOption configures Aggregator.
type AggregatorOption func(*Aggregator)

// Aggregator mediates between the user's stored watchlist and predictions and
// the market data and prediction gateways. Every error it returns is classified
// with pkg/errs.
type Aggregator struct {
	watchlist   repository.WatchlistRepository
	predictions repository.PredictionRepository
	market      domsvc.MarketData
	predictor   domsvc.Predictor
	metrics     repository.Metrics
	logger      *applogger.Logger
	events      *eventSink

	trending []string
	overview []string
	models   map[string]struct{}
	fanOut   int
	now      func() time.Time
	newID    func() string
}

func NewAggregator(
	wl repository.WatchlistRepository,
	pr repository.PredictionRepository,
	md domsvc.MarketData,
	pd domsvc.Predictor,
	pub repository.EventPublisher,
	opts ...AggregatorOption,
) *Aggregator {
	a := &Aggregator{
		watchlist:   wl,
		predictions: pr,
		market:      md,
		predictor:   pd,
		metrics:     metrics.Nop{},
		logger:      applogger.Nop(),
		trending:    DefaultTrendingSymbols,
		overview:    DefaultOverviewSymbols,
		fanOut:      4,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	WithModels(DefaultModels)(a)

	for _, opt := range opts {
		opt(a)
	}

	a.events = &eventSink{pub: pub, metrics: a.metrics, logger: a.logger, now: a.now, newID: a.newID}
	return a
}

func WithTrendingSymbols(symbols []string) AggregatorOption {
	return func(a *Aggregator) {
		if len(symbols) > 0 {
			a.trending = symbols
		}
	}
}

func WithOverviewSymbols(symbols []string) AggregatorOption {
	return func(a *Aggregator) {
		if len(symbols) > 0 {
			a.overview = symbols
		}
	}
}

// WithModels sets the model names accepted by RequestPrediction.
func WithModels(names []string) AggregatorOption {
	return func(a *Aggregator) {
		if len(names) == 0 {
			return
		}
		a.models = make(map[string]struct{}, len(names))
		for _, n := range names {
			a.models[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
		}
	}
}

// WithFanOutLimit bounds concurrent quote lookups for trending and overview.
func WithFanOutLimit(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.fanOut = n
		}
	}
}

func WithAggregatorMetrics(m repository.Metrics) AggregatorOption {
	return func(a *Aggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

func WithAggregatorLogger(l *applogger.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(newID func() string) AggregatorOption {
	return func(a *Aggregator) {
		a.newID = newID
	}
}

// AddToWatchlist stores ticker for userID. A ticker already on the user's
// list is a Conflict.
func (a *Aggregator) AddToWatchlist(ctx context.Context, userID, ticker string) (*models.WatchlistEntry, error) {
	ticker = util.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errs.Validationf("Ticker is required")
	}

	entry := &models.WatchlistEntry{
		ID:      a.newID(),
		UserID:  userID,
		Ticker:  ticker,
		AddedAt: a.now().UTC(),
	}
	if err := a.watchlist.Add(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflictf("Stock already in watchlist")
		}
		return nil, errs.Wrap(errs.Upstream, "Error adding to watchlist", err)
	}

	a.events.emit(ctx, models.EventWatchlistAdded, userID, ticker, entry)
	return entry, nil
}

// RemoveFromWatchlist deletes entryID if it belongs to userID.
func (a *Aggregator) RemoveFromWatchlist(ctx context.Context, userID, entryID string) (*models.WatchlistEntry, error) {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return nil, errs.Validationf("Stock id is required")
	}
	// ids are always uuids, anything else cannot name an entry
	if _, err := uuid.Parse(entryID); err != nil {
		return nil, errs.NotFoundf("Stock not found in watchlist")
	}

	removed, err := a.watchlist.Remove(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFoundf("Stock not found in watchlist")
		}
		return nil, errs.Wrap(errs.Upstream, "Error removing from watchlist", err)
	}

	a.events.emit(ctx, models.EventWatchlistRemoved, userID, removed.Ticker, removed)
	return removed, nil
}

// ListWatchlist returns the user's entries in store order, each enriched with
// a live quote. A failed lookup degrades that item to UnknownName and never
// fails the list.
func (a *Aggregator) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	entries, err := a.watchlist.List(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.Upstream, "Error fetching watchlist", err)
	}

	items := make([]models.WatchlistItem, len(entries))
	var wg sync.WaitGroup
	for i := range entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items[i] = a.enrich(ctx, entries[i])
		}(i)
	}
	wg.Wait()

	return items, nil
}

func (a *Aggregator) enrich(ctx context.Context, e models.WatchlistEntry) models.WatchlistItem {
	item := models.WatchlistItem{WatchlistEntry: e, Name: models.UnknownName}

	q, err := a.market.Quote(ctx, e.Ticker)
	if err != nil {
		a.metrics.RecordEnrichmentFallback()
		a.logger.Warn("watchlist enrichment failed",
			applogger.String("ticker", e.Ticker),
			applogger.Error(err))
		return item
	}

	if q.Name != "" {
		item.Name = q.Name
	}
	item.Price = q.Price
	item.Change = q.Change
	item.ChangePercent = q.ChangePercent
	item.Currency = q.Currency
	return item
}

// RequestPrediction asks the prediction gateway for a forecast and records it.
// If the record cannot be stored the error carries it as details.
func (a *Aggregator) RequestPrediction(ctx context.Context, userID, ticker, model string) (*models.PredictionRecord, error) {
	ticker = util.NormalizeTicker(ticker)
	model = strings.ToLower(strings.TrimSpace(model))
	if ticker == "" || model == "" {
		return nil, errs.Validationf("Ticker and model required")
	}
	if _, ok := a.models[model]; !ok {
		return nil, errs.Validationf("Invalid model type")
	}

	f, err := a.predictor.Predict(ctx, ticker, model)
	if err != nil {
		return nil, errs.Ensure(err, errs.Upstream, "Prediction failed")
	}

	rec := &models.PredictionRecord{
		ID:             a.newID(),
		UserID:         userID,
		Ticker:         ticker,
		CurrentPrice:   f.CurrentPrice,
		PredictedPrice: f.PredictedPrice,
		ModelUsed:      util.FirstNonEmpty(f.ModelUsed, model),
		Timestamp:      a.now().UTC().Truncate(time.Millisecond),
	}
	if err := a.predictions.Insert(ctx, rec); err != nil {
		a.logger.Error("prediction not persisted",
			applogger.String("user_id", userID),
			applogger.String("ticker", ticker),
			applogger.Error(err))
		return nil, errs.Wrap(errs.Upstream, "Prediction could not be saved", err).WithDetails(rec)
	}

	a.events.emit(ctx, models.EventPredictionRecorded, userID, ticker, rec)
	return rec, nil
}

// SearchStocks looks up query at the market data provider.
func (a *Aggregator) SearchStocks(ctx context.Context, query string) ([]models.StockSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Validationf("Search query is required")
	}

	stocks, err := a.market.Search(ctx, query)
	if err != nil {
		return nil, errs.Ensure(err, errs.Upstream, "Error fetching stock data")
	}
	if len(stocks) == 0 {
		return nil, errs.NotFoundf("No stocks found")
	}
	return stocks, nil
}

// ListPredictions returns the user's predictions, newest first.
func (a *Aggregator) ListPredictions(ctx context.Context, userID string) ([]models.PredictionRecord, error) {
	records, err := a.predictions.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.Upstream, "Error retrieving predictions", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Trending quotes the configured trending symbols. Any failed lookup fails the call.
func (a *Aggregator) Trending(ctx context.Context) ([]models.StockSummary, error) {
	return a.quoteAll(ctx, a.trending, "Error fetching trending stocks")
}

// MarketOverview quotes the configured index symbols. Any failed lookup fails the call.
func (a *Aggregator) MarketOverview(ctx context.Context) ([]models.StockSummary, error) {
	return a.quoteAll(ctx, a.overview, "Error fetching market overview")
}

// quoteAll fans out over symbols and cancels the rest on the first failure.
// Results keep the order of symbols.
func (a *Aggregator) quoteAll(ctx context.Context, symbols []string, failMsg string) ([]models.StockSummary, error) {
	out := make([]models.StockSummary, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fanOut)
	for i, sym := range symbols {
		g.Go(func() error {
			q, err := a.market.Quote(gctx, sym)
			if err != nil {
				return err
			}
			out[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(errs.Upstream, failMsg, err)
	}
	return out, nil
}

// StockDetails returns the extended quote for ticker.
func (a *Aggregator) StockDetails(ctx context.Context, ticker string) (*models.StockDetails, error) {
	ticker = util.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errs.Validationf("Ticker is required")
	}

	d, err := a.market.Details(ctx, ticker)
	if err != nil {
		return nil, errs.Ensure(err, errs.Upstream, "Error fetching stock details")
	}
	return &d, nil
}

// Sentiment returns the prediction service's sentiment document for ticker.
func (a *Aggregator) Sentiment(ctx context.Context, ticker string) (json.RawMessage, error) {
	ticker = util.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errs.Validationf("Ticker is required")
	}

	raw, err := a.predictor.Sentiment(ctx, ticker)
	if err != nil {
		return nil, errs.Ensure(err, errs.Upstream, "Error fetching sentiment")
	}
	return raw, nil
}

// Simulate returns the prediction service's trading simulation for ticker.
func (a *Aggregator) Simulate(ctx context.Context, ticker string) (json.RawMessage, error) {
	ticker = util.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errs.Validationf("Ticker is required")
	}

	raw, err := a.predictor.Simulate(ctx, ticker)
	if err != nil {
		return nil, errs.Ensure(err, errs.Upstream, "Error running simulation")
	}
	return raw, nil
}
