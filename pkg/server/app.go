package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FractalPulse/internal/handler/api"
	"FractalPulse/internal/repository"
	icache "FractalPulse/internal/service/cache"
	analytics "FractalPulse/internal/services/analytics"
	"FractalPulse/internal/usecase"
	pkgch "FractalPulse/pkg/clickhouse"
	"FractalPulse/pkg/config"
	xhttp "FractalPulse/pkg/http"
	pkgkafka "FractalPulse/pkg/kafka"
	applogger "FractalPulse/pkg/logger"
	"FractalPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.SnapshotCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	HeaderProc  *usecase.HeaderProcessor

	refreshQueue *queue.RedisQueue
	scheduler    *usecase.RefreshScheduler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.SnapshotCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetRefreshQueue allows DI to inject the Redis refresh queue and its scheduler.
func (a *App) SetRefreshQueue(q *queue.RedisQueue, s *usecase.RefreshScheduler) {
	a.refreshQueue = q
	a.scheduler = s
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, _ := applogger.New(&applogger.Config{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		Output: a.cfg.Logging.Output,
	})

	// Setup Echo HTTP server and register routes via handler
	var httpHandler xhttp.Handler
	if a.httpHandler != nil {
		httpHandler = a.httpHandler
	} else {
		composer := usecase.NewHeaderComposer(
			analytics.NewHTTPConsensusProvider(a.cfg),
			analytics.NewHTTPDiagnosticsProvider(a.cfg),
			analytics.NewHTTPPhaseProvider(a.cfg),
			analytics.NewHTTPOverlayProvider(a.cfg),
			analytics.NewHTTPVolatilityProvider(a.cfg),
		)
		var history *usecase.HistoryUseCase
		if a.chClient != nil {
			store := repository.NewClickHouseHistory(a.chClient.DB(), "")
			history = usecase.NewHistoryUseCase(store)
		}
		te := api.NewTerminalEchoHandler(l, composer, history)
		te.SetCache(icache.NewTTLCache())
		te.SetTTLs(a.cfg.Terminal.CacheTTL.Signal, a.cfg.Terminal.CacheTTL.History)
		httpHandler = te
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started", applogger.Strings("symbols", a.cfg.Upstream.Symbols))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start refresh queue workers and scheduler if configured
	if a.refreshQueue != nil {
		if err := a.refreshQueue.Start(); err != nil {
			l.Error("refresh queue start error", applogger.Error(err))
		} else if a.scheduler != nil {
			a.scheduler.Start(ctx)
			l.Info("refresh scheduler started",
				applogger.Duration("interval", a.cfg.Terminal.RefreshInterval))
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop scheduler and refresh queue
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.refreshQueue != nil {
		if err := a.refreshQueue.Stop(ctx); err != nil {
			l.Warn("refresh queue stop error", applogger.Error(err))
		}
	}

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close header processor resources (publisher/storage)
	if a.HeaderProc != nil {
		a.HeaderProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
