package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Aggregator runs one aggregation pass over a fully loaded run set.
//
// Process windows every run concurrently; Consolidate combines them afterwards. The
// errgroup Wait inside Process is the barrier: no combined index is read before every
// run has produced its processed series.
type Aggregator struct {
	cfg       *Config
	runs      []*Run
	axis      *AlignedAxis
	processed bool
}

// NewAggregator aligns runs and prepares an aggregation pass. Runs are expected to be
// unit-scaled already (the loader applies the configured Unit).
func NewAggregator(cfg *Config, runs []*Run) (*Aggregator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrConfiguration)
	}
	axis, err := Align(runs)
	if err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg, runs: runs, axis: axis}, nil
}

// Runs returns the runs owned by the aggregator, in load order.
func (a *Aggregator) Runs() []*Run { return a.runs }

// Axis returns the aligned timestamp axis.
func (a *Aggregator) Axis() *AlignedAxis { return a.axis }

// Config returns the aggregation config.
func (a *Aggregator) Config() *Config { return a.cfg }

// SampleCount returns the number of raw samples every run contributes.
func (a *Aggregator) SampleCount() int { return MinRawLen(a.runs) }

// Process computes the per-run derived fields for the configured mode: the windowed
// series (plus running totals in cumulative_time_series mode), or the rounded raw total in
// cumulative mode. Runs are processed concurrently. Process may be called once.
func (a *Aggregator) Process(ctx context.Context) error {
	if a.processed {
		return errors.New("aggregator: runs already processed")
	}
	a.processed = true

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range a.runs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.processRun(r)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("processing runs: %w", err)
	}
	logrus.Debugf("processed %d runs (mode=%s, window=%d)", len(a.runs), a.cfg.Mode, a.cfg.WindowSize)
	return nil
}

func (a *Aggregator) processRun(r *Run) error {
	if !a.cfg.Mode.Windowed() {
		r.Cumulative = Round2(floats.Sum(r.Raw))
		return nil
	}
	processed, err := WindowWith(r.Raw, a.cfg.WindowSize, a.cfg.WindowFunction)
	if err != nil {
		return fmt.Errorf("run %d: %w", r.ID, err)
	}
	r.Processed = processed
	if a.cfg.Mode == ModeCumulativeTimeSeries {
		r.CumulativeSeries = RunningTotals(processed, a.cfg.WindowSize)
	}
	return nil
}

// Consolidate combines the processed runs into one ConsolidatedSeries. Windowed modes
// carry the aligned timestamp of each combined index.
func (a *Aggregator) Consolidate() (*ConsolidatedSeries, error) {
	if !a.processed {
		return nil, errors.New("aggregator: Consolidate called before Process")
	}
	cs, err := Combine(a.runs, a.cfg)
	if err != nil {
		return nil, err
	}
	if cs.Mode.Windowed() {
		ts := WindowTimestamps(a.axis.Timestamps, a.cfg.WindowSize)
		if len(ts) > cs.Len() {
			ts = ts[:cs.Len()]
		}
		cs.Timestamps = ts
	}
	return cs, nil
}

// Run processes the runs and, when the config enables the meta-model, consolidates
// them. The returned series is nil when the meta-model is disabled.
func (a *Aggregator) Run(ctx context.Context) (*ConsolidatedSeries, error) {
	if err := a.Process(ctx); err != nil {
		return nil, err
	}
	if !a.cfg.MetaModel {
		return nil, nil
	}
	return a.Consolidate()
}

// Summaries returns a Distribution of each run's raw series, in run order.
func (a *Aggregator) Summaries() []Distribution {
	out := make([]Distribution, len(a.runs))
	for i, r := range a.runs {
		out[i] = NewDistribution(r.Raw)
	}
	return out
}
