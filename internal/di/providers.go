package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"CapTrack/internal/domain/repository"
	"CapTrack/internal/handler/api"
	internalrepo "CapTrack/internal/repository"
	"CapTrack/internal/usecase"
	"CapTrack/pkg/cache"
	"CapTrack/pkg/config"
	pkgkafka "CapTrack/pkg/kafka"
	applogger "CapTrack/pkg/logger"
	"CapTrack/pkg/metrics"
	"CapTrack/pkg/postgres"
	"CapTrack/pkg/queue"
	"CapTrack/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvidePostgresClient creates a Postgres client and initializes the schema.
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx,
		postgres.WithHost(cfg.Postgres.Host),
		postgres.WithPort(cfg.Postgres.Port),
		postgres.WithDatabase(cfg.Postgres.Database),
		postgres.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		postgres.WithSSLMode(cfg.Postgres.SSLMode),
		postgres.WithPoolLimits(cfg.Postgres.MaxConns, cfg.Postgres.MinConns),
		postgres.WithConnLifetimes(cfg.Postgres.MaxConnLifetime, cfg.Postgres.MaxConnIdleTime),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return client, nil
}

// ProvideRedisCache creates the Redis cache used for locks and projections.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", cfg.Redis.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}

	return cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, 2, 5*time.Second),
	)
}

// ProvideCacheService layers an in-process cache over Redis. Reads hit
// memory first; locks always go to Redis.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	return cache.NewLayeredCache(rc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEventPublisher creates the Kafka trade event publisher, or a
// noop one when the event stream is disabled.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return internalrepo.NoopEventPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
		pkgkafka.WithAsync(cfg.Events.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Events.Topic), nil
}

// ProvideUserRepository creates the Postgres user repository.
func ProvideUserRepository(pg *postgres.Client) repository.UserRepository {
	return internalrepo.NewPostgresUserRepository(pg.Pool())
}

// ProvideSignalRepository creates the Postgres signal repository.
func ProvideSignalRepository(pg *postgres.Client) *internalrepo.PostgresSignalRepository {
	return internalrepo.NewPostgresSignalRepository(pg.Pool())
}

// ProvideSignalRepo exposes the signal repository interface.
func ProvideSignalRepo(r *internalrepo.PostgresSignalRepository) repository.SignalRepository {
	return r
}

// ProvideTradeCommitter exposes the transactional trade committer.
func ProvideTradeCommitter(r *internalrepo.PostgresSignalRepository) repository.TradeCommitter {
	return r
}

// ProvideCashflowRepository creates the Postgres cashflow repository.
func ProvideCashflowRepository(pg *postgres.Client) repository.CashflowRepository {
	return internalrepo.NewPostgresCashflowRepository(pg.Pool())
}

// ProvideRevenueRepository creates the Postgres revenue repository.
func ProvideRevenueRepository(pg *postgres.Client) repository.RevenueRepository {
	return internalrepo.NewPostgresRevenueRepository(pg.Pool())
}

// ProvideRevenueService creates the revenue rollup service.
func ProvideRevenueService(
	revenues repository.RevenueRepository,
	cashflows repository.CashflowRepository,
	signals repository.SignalRepository,
) *usecase.RevenueService {
	return usecase.NewRevenueService(revenues, cashflows, signals)
}

// ProvideSignalProcessor creates the slot processor.
func ProvideSignalProcessor(
	users repository.UserRepository,
	signals repository.SignalRepository,
	committer repository.TradeCommitter,
	revenue *usecase.RevenueService,
	events repository.EventPublisher,
	m repository.Metrics,
	lgr *applogger.Logger,
) *usecase.SignalProcessor {
	return usecase.NewSignalProcessor(users, signals, committer, revenue, events, m, lgr)
}

// ProvideScheduler creates the scheduler driver.
func ProvideScheduler(
	users repository.UserRepository,
	processor *usecase.SignalProcessor,
	locks cache.Service,
	m repository.Metrics,
	lgr *applogger.Logger,
	cfg *config.Config,
) *usecase.Scheduler {
	return usecase.NewScheduler(users, processor, locks, m, lgr, cfg)
}

// ProvideSignalService creates the request-driven signal service.
func ProvideSignalService(
	signals repository.SignalRepository,
	processor *usecase.SignalProcessor,
	cfg *config.Config,
) *usecase.SignalService {
	return usecase.NewSignalService(signals, processor, cfg)
}

// ProvideCashflowService creates the deposit/withdrawal service.
func ProvideCashflowService(
	cashflows repository.CashflowRepository,
	users repository.UserRepository,
	revenue *usecase.RevenueService,
	lgr *applogger.Logger,
) *usecase.CashflowService {
	return usecase.NewCashflowService(cashflows, users, revenue, lgr)
}

// ProvideProjector creates the projection simulator.
func ProvideProjector(c cache.Service, cfg *config.Config, lgr *applogger.Logger) *usecase.Projector {
	return usecase.NewProjector(c, cfg, lgr)
}

// ProvideQueueConsumer creates the Redis queue with the scheduler job registered.
func ProvideQueueConsumer(
	lgr *applogger.Logger,
	rc *cache.RedisCache,
	scheduler *usecase.Scheduler,
	cfg *config.Config,
) *queue.RedisQueue {
	job := usecase.NewSchedulerJob(scheduler, lgr)
	return queue.NewRedisQueue(lgr, &queue.QueueConfig{
		Workers:    1,
		RetryLimit: 1,
		RetryDelay: 30 * time.Second,
	}, rc.Client(), job)
}

// ProvideQueueService exposes the queue publish interface.
func ProvideQueueService(q *queue.RedisQueue) queue.QueueService {
	return q
}

// ProvideRouter creates the HTTP route registrar.
func ProvideRouter(
	lgr *applogger.Logger,
	signals *usecase.SignalService,
	cashflows *usecase.CashflowService,
	revenue *usecase.RevenueService,
	projector *usecase.Projector,
	q queue.QueueService,
	users repository.UserRepository,
) *api.Router {
	return api.NewRouter(
		api.NewSignalsHandler(lgr, signals),
		api.NewCashflowsHandler(lgr, cashflows),
		api.NewRevenueHandler(lgr, revenue),
		api.NewProjectionHandler(lgr, projector),
		api.NewSchedulerHandler(lgr, q),
		api.NewUsersHandler(lgr, users),
		users,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	scheduler *usecase.Scheduler,
	consumer *queue.RedisQueue,
	pg *postgres.Client,
	router *api.Router,
	events repository.EventPublisher,
	rc *cache.RedisCache,
) *server.App {
	app := server.New(cfg, lgr, scheduler, consumer, pg)
	app.SetHTTPHandler(router)
	app.AddCloser(events.Close)
	app.AddCloser(rc.Close)
	return app
}
