package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "FractalPulse/internal/domain/repository"
	"FractalPulse/pkg/logger"
	"FractalPulse/pkg/queue"
)

// RefreshPayload identifies the header to recompute.
type RefreshPayload struct {
	Symbol  string `json:"symbol"`
	Horizon string `json:"horizon"`
}

// HeaderRefreshJob recomputes a header from the upstream analytics and
// routes it to the configured backend. Enqueued on every poll cycle.
type HeaderRefreshJob struct {
	composer *HeaderComposer
	proc     *HeaderProcessor
	logger   *logger.Logger
}

func NewHeaderRefreshJob(composer *HeaderComposer, proc *HeaderProcessor, lgr *logger.Logger) *HeaderRefreshJob {
	return &HeaderRefreshJob{composer: composer, proc: proc, logger: lgr}
}

func (j *HeaderRefreshJob) Name() string { return "header_refresh" }
func (j *HeaderRefreshJob) Type() string { return "header.refresh" }

func (j *HeaderRefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("refresh payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("refresh payload: symbol required")
	}

	hz := domrepo.NormalizeHorizon(p.Horizon)
	header, err := j.composer.Compose(ctx, p.Symbol, hz)
	if err != nil {
		return fmt.Errorf("refresh compose %s: %w", p.Symbol, err)
	}
	if len(header.Errors) > 0 {
		j.logger.Warn("refresh partial upstream failure",
			logger.String("symbol", p.Symbol),
			logger.Int("failed", len(header.Errors)))
	}
	return j.proc.Process(ctx, header)
}

// RefreshScheduler enqueues refresh jobs for the configured symbols on an interval.
type RefreshScheduler struct {
	q        queue.QueueService
	symbols  []string
	horizon  string
	interval time.Duration
	logger   *logger.Logger
	stopCh   chan struct{}
}

func NewRefreshScheduler(q queue.QueueService, symbols []string, horizon string, interval time.Duration, lgr *logger.Logger) *RefreshScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RefreshScheduler{
		q:        q,
		symbols:  symbols,
		horizon:  horizon,
		interval: interval,
		logger:   lgr,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the enqueue loop until Stop or ctx cancellation.
func (s *RefreshScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.enqueueAll(ctx)
			}
		}
	}()
}

func (s *RefreshScheduler) enqueueAll(ctx context.Context) {
	for _, sym := range s.symbols {
		p := RefreshPayload{Symbol: sym, Horizon: s.horizon}
		if err := s.q.PublishMessage(ctx, "header.refresh", p); err != nil {
			s.logger.Warn("refresh enqueue failed",
				logger.String("symbol", sym),
				logger.Error(err))
		}
	}
}

func (s *RefreshScheduler) Stop() { close(s.stopCh) }
