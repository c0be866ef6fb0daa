package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	"StockTrack/pkg/errs"
)

type memWatchlist struct {
	mu      sync.Mutex
	entries []models.WatchlistEntry
	err     error
}

func (m *memWatchlist) Add(_ context.Context, e *models.WatchlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.entries {
		if x.UserID == e.UserID && x.Ticker == e.Ticker {
			return repository.ErrDuplicate
		}
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memWatchlist) Remove(_ context.Context, userID, id string) (*models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i, x := range m.entries {
		if x.ID == id && x.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return &x, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memWatchlist) List(_ context.Context, userID string) ([]models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.WatchlistEntry
	for _, x := range m.entries {
		if x.UserID == userID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (m *memWatchlist) count(userID string) int {
	l, _ := m.List(context.Background(), userID)
	return len(l)
}

type memPredictions struct {
	mu      sync.Mutex
	records []models.PredictionRecord
	err     error
}

func (m *memPredictions) Insert(_ context.Context, p *models.PredictionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *p)
	return nil
}

// ListByUser returns records in insertion order to prove the use case sorts.
func (m *memPredictions) ListByUser(_ context.Context, userID string) ([]models.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.PredictionRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeMarket struct {
	quotes    map[string]models.StockSummary
	quoteErr  map[string]error
	search    []models.StockSummary
	searchErr error
	details   map[string]models.StockDetails
	calls     int32
}

func (f *fakeMarket) Search(context.Context, string) ([]models.StockSummary, error) {
	return f.search, f.searchErr
}

func (f *fakeMarket) Quote(ctx context.Context, ticker string) (models.StockSummary, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := f.quoteErr[ticker]; err != nil {
		return models.StockSummary{}, err
	}
	if q, ok := f.quotes[ticker]; ok {
		return q, nil
	}
	return models.StockSummary{}, errs.Wrap(errs.Upstream, "Error fetching stock data", errors.New("no fixture"))
}

func (f *fakeMarket) Details(_ context.Context, ticker string) (models.StockDetails, error) {
	if d, ok := f.details[ticker]; ok {
		return d, nil
	}
	return models.StockDetails{}, errs.NotFoundf("Stock not found")
}

type fakePredictor struct {
	forecast  models.Forecast
	err       error
	calls     int
	sentiment json.RawMessage
}

func (f *fakePredictor) Predict(_ context.Context, ticker, model string) (models.Forecast, error) {
	f.calls++
	if f.err != nil {
		return models.Forecast{}, f.err
	}
	out := f.forecast
	out.Ticker = ticker
	return out, nil
}

func (f *fakePredictor) Sentiment(context.Context, string) (json.RawMessage, error) {
	return f.sentiment, f.err
}

func (f *fakePredictor) Simulate(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`{"status":"success"}`), f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e *models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func price(f float64) *float64 { return &f }
