// Package runtime evaluates scan sweeps: one beam trace per frame of a
// motor series, fanned out over a worker pool and recorded to a result
// store.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	goruntime "runtime"
	"sync/atomic"
	"time"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"github.com/jonwright/grewgg/internal/logging"
	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/scan"
)

// Model is the slice of the geometry model the engine needs: a single-frame
// beam trace. Implementations must be safe for concurrent use; the engine
// calls it from every worker.
type Model interface {
	Trace(ctx context.Context, detectorName string, motors positioner.Values, origin, dir r3.Vector) (*detector.Hit, error)
}

// Request describes one sweep: trace the same ray against a detector while
// stepping a motor through a series.
type Request struct {
	// ScanID keys the stored results. Empty means generate one.
	ScanID   string
	Detector string
	Series   scan.Series
	// Base holds the motor values that stay fixed during the sweep; the
	// series motor is layered on top per frame.
	Base positioner.Values
	// Origin and Dir define the traced ray in the lab frame.
	Origin r3.Vector
	Dir    r3.Vector
}

// Engine runs sweeps against a model.
type Engine struct {
	model   Model
	store   ports.ResultStore
	logger  *slog.Logger
	workers int
}

type Option func(*Engine)

// WithStore persists every frame result. Without a store the engine only
// counts outcomes.
func WithStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers bounds the evaluation pool. Values below one fall back to the
// default.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an engine with options.
func New(model Model, opts ...Option) *Engine {
	e := &Engine{
		model:   model,
		logger:  logging.NewNop(),
		workers: goruntime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sweep evaluates every frame of the series. Frames are independent, the
// model is pure in its inputs, so they run in parallel; results land in the
// store keyed by frame number. A beam missing the detector plane is recorded
// as a miss, any other failure cancels the remaining frames and is returned.
func (e *Engine) Sweep(ctx context.Context, req Request) (*scan.Summary, error) {
	if err := req.Series.Validate(); err != nil {
		return nil, err
	}
	if req.Detector == "" {
		return nil, errors.New("detector name is required")
	}

	scanID := req.ScanID
	if scanID == "" {
		scanID = fmt.Sprintf("scan-%d", time.Now().UnixNano())
	}

	e.logger.Info("sweep started",
		"scan_id", scanID,
		"detector", req.Detector,
		"motor", req.Series.Motor,
		"frames", req.Series.Frames,
		"workers", e.workers,
	)

	var hits, misses atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < req.Series.Frames; i++ {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			r, err := e.evaluate(ctx, scanID, req, i)
			if err != nil {
				sweepSteps.WithLabelValues(outcomeError).Inc()
				return err
			}
			if r.Miss {
				misses.Add(1)
				sweepSteps.WithLabelValues(outcomeMiss).Inc()
			} else {
				hits.Add(1)
				sweepSteps.WithLabelValues(outcomeHit).Inc()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error("sweep aborted", "scan_id", scanID, "err", err)
		return nil, err
	}

	sum := &scan.Summary{
		ScanID:  scanID,
		Frames:  req.Series.Frames,
		Hits:    int(hits.Load()),
		Misses:  int(misses.Load()),
		Elapsed: time.Since(start),
	}
	e.logger.Info("sweep finished",
		"scan_id", sum.ScanID,
		"frames", sum.Frames,
		"hits", sum.Hits,
		"misses", sum.Misses,
		"elapsed", sum.Elapsed,
	)
	return sum, nil
}

// evaluate traces one frame and stores its result.
func (e *Engine) evaluate(ctx context.Context, scanID string, req Request, frame int) (*scan.Result, error) {
	values := req.Series.Values(req.Base, frame)

	t0 := time.Now()
	hit, err := e.model.Trace(ctx, req.Detector, values, req.Origin, req.Dir)
	stepDuration.Observe(time.Since(t0).Seconds())

	r := scan.Result{
		Frame: frame,
		Motor: req.Series.Motor,
		Value: req.Series.Position(frame),
	}
	switch {
	case errors.Is(err, detector.ErrNoIntersection):
		r.Miss = true
		e.logger.Debug("frame missed detector", "scan_id", scanID, "frame", frame, "value", r.Value)
	case err != nil:
		return nil, fmt.Errorf("frame %d: %w", frame, err)
	default:
		lab := hit.Lab
		r.Pixel = &hit.Pixel
		r.Lab = &lab
		r.S = hit.S
		e.logger.Debug("frame traced",
			"scan_id", scanID,
			"frame", frame,
			"value", r.Value,
			"fast", hit.Pixel.Fast,
			"slow", hit.Pixel.Slow,
		)
	}

	if e.store != nil {
		if err := e.store.Save(ctx, scanID, r); err != nil {
			return nil, fmt.Errorf("frame %d: failed to store result: %w", frame, err)
		}
	}
	return &r, nil
}
