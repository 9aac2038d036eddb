package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"FractalPulse/internal/domain/repository"
	"FractalPulse/internal/handler/api"
	mid "FractalPulse/internal/middleware"
	internalrepo "FractalPulse/internal/repository"
	icache "FractalPulse/internal/service/cache"
	"FractalPulse/internal/service/upstream"
	analytics "FractalPulse/internal/services/analytics"
	"FractalPulse/internal/usecase"
	pkgcache "FractalPulse/pkg/cache"
	pkgch "FractalPulse/pkg/clickhouse"
	"FractalPulse/pkg/config"
	pkgkafka "FractalPulse/pkg/kafka"
	applogger "FractalPulse/pkg/logger"
	"FractalPulse/pkg/metrics"
	"FractalPulse/pkg/queue"
	"FractalPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS fractalpulse",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHeaderStorage creates ClickHouse header storage repository.
func ProvideHeaderStorage(chClient *pkgch.Client, cfg *config.Config) (repository.Storage, error) {
	store := internalrepo.NewClickHouseHistory(chClient.DB(), cfg.ClickHouse.Database+".signal_headers")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("header storage init: %w", err)
	}
	return store, nil
}

// ProvideHeaderPublisher creates Kafka header publisher repository.
func ProvideHeaderPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaHeaderPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaHeadersHandler registers handler for the headers topic.
func ProvideKafkaHeadersHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaHeadersHandler {
	return usecase.NewKafkaHeadersHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideUpstreamStream creates the analytics engine WebSocket stream.
func ProvideUpstreamStream(cfg *config.Config) repository.SnapshotStream {
	return upstream.New(
		cfg.Upstream.APIKey,
		cfg.Upstream.WebSocketURL,
		cfg.Upstream.Symbols,
		cfg.Upstream.Horizon,
		cfg.Upstream.ReconnectDelay,
		cfg.Upstream.PingInterval,
	)
}

// ProvideHeaderProcessor creates header processor use case.
func ProvideHeaderProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.HeaderProcessor {
	return usecase.NewHeaderProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideSnapshotCollector creates the snapshot collector use case.
func ProvideSnapshotCollector(
	stream repository.SnapshotStream,
	processor *usecase.HeaderProcessor,
	metrics repository.Metrics,
) *usecase.SnapshotCollector {
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(10),
		mid.WithBufferSize(1000),
	)
	return usecase.NewSnapshotCollector(stream, processor, metrics, pipe)
}

// ProvideHeaderComposer builds the fan-out composer over the upstream HTTP analytics.
// With Redis enabled the providers share a layered memoization cache so replicas
// absorb each other's fan-out bursts; otherwise each keeps its in-process cache.
func ProvideHeaderComposer(cfg *config.Config, lgr *applogger.Logger) *usecase.HeaderComposer {
	consensus := analytics.NewHTTPConsensusProvider(cfg)
	diagnostics := analytics.NewHTTPDiagnosticsProvider(cfg)
	phase := analytics.NewHTTPPhaseProvider(cfg)
	overlay := analytics.NewHTTPOverlayProvider(cfg)
	volatility := analytics.NewHTTPVolatilityProvider(cfg)

	if cfg.Terminal.Redis.Enabled {
		host, port := splitRedisAddr(cfg.Terminal.Redis.Addr)
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Terminal.Redis.Password),
			pkgcache.WithRedisDB(cfg.Terminal.Redis.DB),
		)
		if err != nil {
			lgr.Warn("analytics memoization falling back to memory cache", applogger.Error(err))
		} else {
			shared := pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(512))
			ttl := 2 * time.Second
			consensus.SetCache(shared, ttl)
			diagnostics.SetCache(shared, ttl)
			phase.SetCache(shared, ttl)
			overlay.SetCache(shared, ttl)
			volatility.SetCache(shared, ttl)
		}
	}

	return usecase.NewHeaderComposer(consensus, diagnostics, phase, overlay, volatility)
}

func splitRedisAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideHistoryUseCase creates the history querying use case.
func ProvideHistoryUseCase(store repository.Storage) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideTerminalHandler creates the Echo HTTP handler for terminal endpoints.
func ProvideTerminalHandler(
	lgr *applogger.Logger,
	composer *usecase.HeaderComposer,
	history *usecase.HistoryUseCase,
	cfg *config.Config,
) *api.TerminalEchoHandler {
	h := api.NewTerminalEchoHandler(lgr, composer, history)
	h.SetTTLs(cfg.Terminal.CacheTTL.Signal, cfg.Terminal.CacheTTL.History)
	if cfg.Terminal.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Terminal.Redis.Addr,
			Password: cfg.Terminal.Redis.Password,
			DB:       cfg.Terminal.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	collector *usecase.SnapshotCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaHeadersHandler,
	chClient *pkgch.Client,
	composer *usecase.HeaderComposer,
	handler *api.TerminalEchoHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	if collector != nil {
		app.HeaderProc = collector.Processor()
	}

	// Redis-backed poll cycle: refresh jobs recompute headers on an interval.
	if cfg.Terminal.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Terminal.Redis.Addr,
			Password: cfg.Terminal.Redis.Password,
			DB:       cfg.Terminal.Redis.DB,
		})
		job := usecase.NewHeaderRefreshJob(composer, collector.Processor(), lgr)
		q := queue.NewRedisConsumer(lgr, &queue.QueueConfig{
			Workers:    2,
			RetryLimit: 3,
			RetryDelay: 10 * time.Second,
		}, rdb, []queue.Job{job})
		sched := usecase.NewRefreshScheduler(q, cfg.Upstream.Symbols, cfg.Upstream.Horizon, cfg.Terminal.RefreshInterval, lgr)
		app.SetRefreshQueue(q, sched)
	}

	return app
}
