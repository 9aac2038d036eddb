package usecase

import (
	"context"

	"FractalPulse/internal/domain/models"
	drepo "FractalPulse/internal/domain/repository"
	mid "FractalPulse/internal/middleware"
)

// SnapshotCollector consumes pushed snapshot bundles from the upstream
// stream and feeds them through the pipeline into the processor.
type SnapshotCollector struct {
	stream  drepo.SnapshotStream
	proc    *HeaderProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewSnapshotCollector creates a new SnapshotCollector instance.
func NewSnapshotCollector(stream drepo.SnapshotStream, proc *HeaderProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *SnapshotCollector {
	return &SnapshotCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the upstream stream is connected.
func (c *SnapshotCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SnapshotCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	bCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, bCh, errCh)
	return nil
}

func (c *SnapshotCollector) consume(ctx context.Context, bCh <-chan *models.SnapshotBundle, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case b := <-bCh:
			if b == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, b)
			} else {
				_ = c.proc.ProcessBundle(ctx, b)
			}
		}
	}
}

// Processor returns the underlying HeaderProcessor for lifecycle management.
func (c *SnapshotCollector) Processor() *HeaderProcessor { return c.proc }

// Shutdown stops pipeline and closes stream.
func (c *SnapshotCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
