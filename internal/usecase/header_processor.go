package usecase

import (
	"context"
	"fmt"
	"time"

	"FractalPulse/internal/domain/models"
	drepo "FractalPulse/internal/domain/repository"
)

// HeaderProcessor routes derived headers to the configured backend.
type HeaderProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

// NewHeaderProcessor creates a new HeaderProcessor instance.
func NewHeaderProcessor(
	pub drepo.Publisher,
	store drepo.Storage,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *HeaderProcessor {
	return &HeaderProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// ProcessBundle derives the header for a pushed snapshot bundle and routes it.
func (p *HeaderProcessor) ProcessBundle(ctx context.Context, b *models.SnapshotBundle) error {
	if b == nil {
		return fmt.Errorf("bundle is nil")
	}
	return p.Process(ctx, BuildHeader(b, nil))
}

// Process routes a single header to the configured backend.
func (p *HeaderProcessor) Process(ctx context.Context, h *models.SignalHeader) error {
	if h == nil {
		return fmt.Errorf("header is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, h)
	case "clickhouse":
		err = p.store.Store(ctx, h)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process header: %w", err)
	}

	p.metrics.RecordHeaderRouted(p.backend, h.Symbol)
	p.metrics.RecordSignal(h.Symbol, string(h.Signal), string(h.RiskLevel))
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple headers in a batch.
func (p *HeaderProcessor) ProcessBatch(ctx context.Context, headers []*models.SignalHeader) error {
	if len(headers) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, headers)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, headers)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, h := range headers {
		p.metrics.RecordHeaderRouted(p.backend, h.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *HeaderProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
