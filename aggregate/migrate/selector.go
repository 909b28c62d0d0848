// Package migrate simulates following the momentarily cheapest of several aligned series
// (for example the carbon intensity of candidate datacenter locations), re-evaluating at a
// fixed cadence and counting every switch.
package migrate

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/atlarge-research/m3sa/aggregate"
	"github.com/atlarge-research/m3sa/aggregate/trace"
)

// Location is one candidate series, identified by name.
type Location struct {
	Name   string
	Values []float64
}

// Result is the outcome of one selector pass.
type Result struct {
	Granularity int
	Spliced     []float64 // value of the current location at each index
	Path        []string  // current location at each index
	Migrations  int
}

// Align truncates every location to the shortest series length. The input is not
// modified.
func Align(locations []Location) ([]Location, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: no locations to select from", aggregate.ErrAlignment)
	}
	shortest := math.MaxInt
	for _, l := range locations {
		shortest = min(shortest, len(l.Values))
	}
	aligned := make([]Location, len(locations))
	for i, l := range locations {
		aligned[i] = Location{Name: l.Name, Values: l.Values[:shortest:shortest]}
	}
	return aligned, nil
}

// Select runs the selector over locations with the given re-evaluation cadence.
func Select(locations []Location, granularity int) (*Result, error) {
	return SelectTraced(locations, granularity, nil, nil)
}

// SelectTraced runs the selector and records every re-evaluation tick into tr when it is
// enabled. timestamps, when non-nil, label the recorded ticks.
//
// The starting location is the arg-min at index 0 and is not counted as a migration. At
// every index divisible by granularity the arg-min is recomputed (first minimum in load
// order wins) and a differing result is a migration. Between ticks the current location
// is kept.
func SelectTraced(locations []Location, granularity int, timestamps []int64, tr *trace.MigrationTrace) (*Result, error) {
	if granularity <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %d", aggregate.ErrConfiguration, granularity)
	}
	aligned, err := Align(locations)
	if err != nil {
		return nil, err
	}
	n := len(aligned[0].Values)
	if n == 0 {
		return nil, fmt.Errorf("%w: locations share no samples", aggregate.ErrAlignment)
	}

	res := &Result{
		Granularity: granularity,
		Spliced:     make([]float64, n),
		Path:        make([]string, n),
	}
	current := -1
	for i := 0; i < n; i++ {
		if i%granularity == 0 {
			best := argMin(aligned, i)
			previous := current
			migrated := current >= 0 && best != current
			if migrated {
				res.Migrations++
			}
			current = best
			if tr.Enabled() {
				tr.RecordDecision(decision(aligned, i, granularity, previous, best, migrated, timestamps, tr.WantsCandidates()))
			}
		}
		res.Spliced[i] = aligned[current].Values[i]
		res.Path[i] = aligned[current].Name
	}
	logrus.Debugf("granularity %d: %d migrations over %d samples", granularity, res.Migrations, n)
	return res, nil
}

// argMin returns the index of the location with the smallest value at i. Ties keep the
// earliest location.
func argMin(locations []Location, i int) int {
	best := 0
	for k := 1; k < len(locations); k++ {
		if locations[k].Values[i] < locations[best].Values[i] {
			best = k
		}
	}
	return best
}

func decision(locations []Location, i, granularity, previous, chosen int, migrated bool, timestamps []int64, withCandidates bool) trace.DecisionRecord {
	n := len(locations[0].Values)
	record := trace.DecisionRecord{
		Index:    i,
		Chosen:   locations[chosen].Name,
		Migrated: migrated,
		Span:     min(granularity, n-i),
	}
	if i < len(timestamps) {
		record.Timestamp = timestamps[i]
	}
	if previous >= 0 {
		record.Previous = locations[previous].Name
		if migrated {
			record.Saving = locations[previous].Values[i] - locations[chosen].Values[i]
		}
	}
	if withCandidates {
		record.Candidates = make([]trace.Candidate, len(locations))
		for k, l := range locations {
			record.Candidates[k] = trace.Candidate{Location: l.Name, Value: l.Values[i]}
		}
	}
	return record
}

// Sweep runs the selector once per granularity, concurrently. Results are returned in
// the order of granularities.
func Sweep(ctx context.Context, locations []Location, granularities []int) ([]*Result, error) {
	if len(granularities) == 0 {
		return nil, fmt.Errorf("%w: no granularities to sweep", aggregate.ErrConfiguration)
	}
	results := make([]*Result, len(granularities))
	g, ctx := errgroup.WithContext(ctx)
	for i, granularity := range granularities {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Select(locations, granularity)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
