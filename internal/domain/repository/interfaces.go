package repository

import (
	"context"
	"time"

	"FractalPulse/internal/domain/models"
)

// SnapshotStream is a push feed of analytics snapshot bundles from the
// forecasting engine.
type SnapshotStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SnapshotBundle, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, h *models.SignalHeader) error
	PublishBatch(ctx context.Context, headers []*models.SignalHeader) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, h *models.SignalHeader) error
	StoreBatch(ctx context.Context, headers []*models.SignalHeader) error
	Query(ctx context.Context, symbol string, horizon Horizon, from, to time.Time, limit int) ([]*models.SignalHeader, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordHeaderRouted(backend, symbol string)
	RecordError(kind string)
	RecordSignal(symbol, signal, risk string)
	RecordLatency(op string, seconds float64)
}
