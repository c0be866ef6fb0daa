package di

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockTrack/internal/auth"
	"StockTrack/internal/domain/repository"
	"StockTrack/internal/handler/api"
	internalrepo "StockTrack/internal/repository"
	"StockTrack/internal/repository/migrations"
	"StockTrack/internal/service/ratelimit"
	"StockTrack/internal/services/marketdata"
	"StockTrack/internal/services/prediction"
	"StockTrack/internal/usecase"
	"StockTrack/pkg/cache"
	pkgch "StockTrack/pkg/clickhouse"
	"StockTrack/pkg/config"
	xhttp "StockTrack/pkg/http"
	pkgkafka "StockTrack/pkg/kafka"
	applogger "StockTrack/pkg/logger"
	"StockTrack/pkg/metrics"
	"StockTrack/pkg/postgres"
	"StockTrack/pkg/server"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

const startupTimeout = 15 * time.Second

// ProviderSet is every provider InitializeApp needs.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegisterer,
	ProvideMetrics,
	ProvidePostgres,
	ProvideClickHouseClient,
	ProvideCache,
	ProvideEventPublisher,
	ProvideUserRepository,
	ProvideWatchlistRepository,
	ProvidePredictionRepository,
	ProvideMarketData,
	ProvidePredictor,
	ProvideTokenManager,
	ProvideAggregator,
	ProvideAccountService,
	ProvideHTTPServer,
	ProvideApp,
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRegisterer returns the registry served on /metrics.
func ProvideRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg prometheus.Registerer) repository.Metrics {
	return metrics.New(reg)
}

// ProvidePostgres opens the identity database and applies migrations unless disabled.
func ProvidePostgres(cfg *config.Config, l *applogger.Logger) (*sql.DB, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres.DSN,
		postgres.WithPool(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns, cfg.Postgres.ConnMaxLifetime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}

	if !cfg.Postgres.SkipMigrate {
		if err := postgres.Migrate(ctx, db, migrations.FS); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		l.Info("postgres migrations applied")
	}

	return db, func() {
		if err := db.Close(); err != nil {
			l.Warn("postgres close error", applogger.Error(err))
		}
	}, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

// ProvideCache returns a Redis-backed layered cache when Redis is enabled and
// a process-local cache otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Redis.Enabled {
		mc := cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.MarketData.MemoryCacheSize),
			cache.WithMemoryExpiration(cfg.MarketData.QuoteTTL),
		)
		return mc, func() { _ = mc.Close() }, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPoolSize(cfg.Redis.PoolSize),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}

	layered := cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.MarketData.MemoryCacheSize),
		cache.WithLayeredMemoryTTL(cfg.MarketData.QuoteTTL),
	)
	return layered, func() {
		_ = layered.Close()
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}, nil
}

// ProvideEventPublisher publishes domain events to Kafka when enabled.
func ProvideEventPublisher(cfg *config.Config, reg prometheus.Registerer, l *applogger.Logger) (repository.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(reg,
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	pub := internalrepo.NewKafkaPublisher(producer)
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

func ProvideUserRepository(db *sql.DB) repository.UserRepository {
	return internalrepo.NewPostgresUsers(db)
}

func ProvideWatchlistRepository(db *sql.DB) repository.WatchlistRepository {
	return internalrepo.NewPostgresWatchlist(db)
}

// ProvidePredictionRepository creates the prediction table if needed.
func ProvidePredictionRepository(client *pkgch.Client, cfg *config.Config) (repository.PredictionRepository, error) {
	store := internalrepo.NewClickHousePredictions(client.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideMarketData creates the Yahoo Finance gateway.
func ProvideMarketData(cfg *config.Config, c cache.Service, m repository.Metrics, l *applogger.Logger) *marketdata.Client {
	httpClient := xhttp.NewClient(
		xhttp.WithTimeout(cfg.MarketData.Timeout),
		xhttp.WithHeader("User-Agent", cfg.MarketData.UserAgent),
		xhttp.WithRequestsPerMinute(cfg.MarketData.MaxRequestsPerMinute),
	)
	return marketdata.NewClient(httpClient, cfg.MarketData.BaseURL,
		marketdata.WithSearchLimit(cfg.MarketData.SearchLimit),
		marketdata.WithCache(c, cfg.MarketData.QuoteTTL),
		marketdata.WithMetrics(m),
		marketdata.WithLogger(l),
	)
}

// ProvidePredictor creates the prediction service gateway.
func ProvidePredictor(cfg *config.Config, m repository.Metrics) *prediction.Client {
	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Prediction.Timeout))
	return prediction.NewClient(cfg.Prediction.ServiceURL, httpClient, m)
}

func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
}

// ProvideAggregator creates the aggregation use case.
func ProvideAggregator(
	cfg *config.Config,
	wl repository.WatchlistRepository,
	pr repository.PredictionRepository,
	md *marketdata.Client,
	pd *prediction.Client,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Aggregator {
	return usecase.NewAggregator(wl, pr, md, pd, pub,
		usecase.WithTrendingSymbols(cfg.MarketData.TrendingSymbols),
		usecase.WithOverviewSymbols(cfg.MarketData.OverviewSymbols),
		usecase.WithModels(cfg.Prediction.Models),
		usecase.WithFanOutLimit(cfg.MarketData.FanOutLimit),
		usecase.WithAggregatorMetrics(m),
		usecase.WithAggregatorLogger(l),
	)
}

// ProvideAccountService creates the identity use case.
func ProvideAccountService(
	cfg *config.Config,
	users repository.UserRepository,
	tokens *auth.TokenManager,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.AccountService {
	return usecase.NewAccountService(users, auth.NewHasher(cfg.Auth.BcryptCost), tokens, pub, m, l)
}

// ProvideHTTPServer registers the API routes on an echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	m repository.Metrics,
	agg *usecase.Aggregator,
	accounts *usecase.AccountService,
	tokens *auth.TokenManager,
) *xhttp.Server {
	limiter := ratelimit.New(cfg.RateLimit.AuthRequestsPerMinute, cfg.RateLimit.AuthBurst)

	handlers := xhttp.Handlers{
		api.NewAuthEchoHandler(l, m, accounts, tokens, limiter),
		api.NewStocksEchoHandler(l, m, agg, tokens, api.StreamConfig{
			Interval:     cfg.Stream.Interval,
			PingInterval: cfg.Stream.PingInterval,
			WriteTimeout: cfg.Stream.WriteTimeout,
		}),
	}

	return xhttp.NewServer(handlers, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequestThreshold(cfg.Server.SlowRequest),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
