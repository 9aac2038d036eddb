package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
)

type fakePublisher struct {
	published []*models.SignalHeader
	fail      error
}

func (f *fakePublisher) Publish(ctx context.Context, h *models.SignalHeader) error {
	if f.fail != nil {
		return f.fail
	}
	f.published = append(f.published, h)
	return nil
}

func (f *fakePublisher) PublishBatch(ctx context.Context, hs []*models.SignalHeader) error {
	if f.fail != nil {
		return f.fail
	}
	f.published = append(f.published, hs...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeStorage struct {
	stored []*models.SignalHeader
}

func (f *fakeStorage) Init(ctx context.Context) error { return nil }

func (f *fakeStorage) Store(ctx context.Context, h *models.SignalHeader) error {
	f.stored = append(f.stored, h)
	return nil
}

func (f *fakeStorage) StoreBatch(ctx context.Context, hs []*models.SignalHeader) error {
	f.stored = append(f.stored, hs...)
	return nil
}

func (f *fakeStorage) Query(ctx context.Context, symbol string, horizon domrepo.Horizon, from, to time.Time, limit int) ([]*models.SignalHeader, error) {
	return f.stored, nil
}

func (f *fakeStorage) Health(ctx context.Context) error { return nil }
func (f *fakeStorage) Close() error                     { return nil }

type fakeMetrics struct {
	routed  int
	errs    int
	signals int
}

func (f *fakeMetrics) RecordHeaderRouted(backend, symbol string)     { f.routed++ }
func (f *fakeMetrics) RecordError(kind string)                       { f.errs++ }
func (f *fakeMetrics) RecordSignal(symbol, signal, risk string)      { f.signals++ }
func (f *fakeMetrics) RecordLatency(op string, seconds float64)      {}

func testHeader(symbol string) *models.SignalHeader {
	return &models.SignalHeader{
		Symbol:    symbol,
		Horizon:   "1d",
		Timestamp: time.Now(),
		Signal:    models.SignalBuy,
		RiskLevel: models.RiskNormal,
	}
}

func TestProcessRoutesToKafka(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStorage{}
	m := &fakeMetrics{}
	p := NewHeaderProcessor(pub, store, m, "kafka", 100, time.Second)

	if err := p.Process(context.Background(), testHeader("BTC")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published) != 1 || len(store.stored) != 0 {
		t.Fatalf("expected kafka route, got pub=%d store=%d", len(pub.published), len(store.stored))
	}
	if m.routed != 1 || m.signals != 1 {
		t.Fatalf("expected metrics recorded, got routed=%d signals=%d", m.routed, m.signals)
	}
}

func TestProcessRoutesToClickHouse(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStorage{}
	p := NewHeaderProcessor(pub, store, &fakeMetrics{}, "clickhouse", 100, time.Second)

	if err := p.Process(context.Background(), testHeader("SPX")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(store.stored) != 1 || len(pub.published) != 0 {
		t.Fatalf("expected clickhouse route, got pub=%d store=%d", len(pub.published), len(store.stored))
	}
}

func TestProcessUnknownBackend(t *testing.T) {
	m := &fakeMetrics{}
	p := NewHeaderProcessor(&fakePublisher{}, &fakeStorage{}, m, "postgres", 100, time.Second)
	if err := p.Process(context.Background(), testHeader("BTC")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if m.errs != 1 {
		t.Fatalf("expected error metric, got %d", m.errs)
	}
}

func TestProcessPublisherFailure(t *testing.T) {
	pub := &fakePublisher{fail: errors.New("broker down")}
	m := &fakeMetrics{}
	p := NewHeaderProcessor(pub, &fakeStorage{}, m, "kafka", 100, time.Second)
	if err := p.Process(context.Background(), testHeader("BTC")); err == nil {
		t.Fatalf("expected publish error to propagate")
	}
	if m.errs != 1 {
		t.Fatalf("expected error metric, got %d", m.errs)
	}
}

func TestProcessBundleDerivesHeader(t *testing.T) {
	pub := &fakePublisher{}
	p := NewHeaderProcessor(pub, &fakeStorage{}, &fakeMetrics{}, "kafka", 100, time.Second)

	b := &models.SnapshotBundle{
		Symbol:    "BTC",
		Horizon:   "1d",
		Timestamp: time.Now(),
		Consensus: &models.Consensus{Score: 0.8, Dir: models.DirBuy},
	}
	if err := p.ProcessBundle(context.Background(), b); err != nil {
		t.Fatalf("process bundle: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected derived header published")
	}
	if pub.published[0].Signal != models.SignalBuy {
		t.Fatalf("expected BUY, got %s", pub.published[0].Signal)
	}
}

func TestProcessBatchRouting(t *testing.T) {
	store := &fakeStorage{}
	p := NewHeaderProcessor(&fakePublisher{}, store, &fakeMetrics{}, "clickhouse", 100, time.Second)
	hs := []*models.SignalHeader{testHeader("BTC"), testHeader("SPX")}
	if err := p.ProcessBatch(context.Background(), hs); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(store.stored) != 2 {
		t.Fatalf("expected 2 stored, got %d", len(store.stored))
	}
}
