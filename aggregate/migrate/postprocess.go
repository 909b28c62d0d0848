package migrate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/atlarge-research/m3sa/aggregate"
)

// StepKind names a post-processing operation.
type StepKind string

const (
	// StepScale multiplies by a factor, e.g. scaling a reference network to a larger one.
	StepScale StepKind = "scale"
	// StepConvert divides by a factor, e.g. grams to tonnes.
	StepConvert StepKind = "convert"
)

// Step is one post-processing operation.
type Step struct {
	Kind   StepKind
	Factor float64
}

// Scale returns a multiplying step.
func Scale(factor float64) Step { return Step{Kind: StepScale, Factor: factor} }

// Convert returns a dividing step.
func Convert(divisor float64) Step { return Step{Kind: StepConvert, Factor: divisor} }

func (s Step) apply(v float64) float64 {
	if s.Kind == StepConvert {
		return v / s.Factor
	}
	return v * s.Factor
}

// Pipeline is an ordered list of steps, applied first to last.
type Pipeline []Step

// Order selects which step of a two-step pipeline runs first.
type Order string

const (
	ScaleFirst   Order = "scale-first"
	ConvertFirst Order = "convert-first"
)

// NewPipeline builds a pipeline from the two optional steps. A zero factor leaves the step
// out; a negative factor is rejected.
func NewPipeline(order Order, scale, convert float64) (Pipeline, error) {
	if scale < 0 || convert < 0 {
		return nil, fmt.Errorf("%w: scale and convert factors must be positive, got %g and %g", aggregate.ErrConfiguration, scale, convert)
	}
	var s, c []Step
	if scale > 0 {
		s = []Step{Scale(scale)}
	}
	if convert > 0 {
		c = []Step{Convert(convert)}
	}
	switch order {
	case ScaleFirst, "":
		return append(s, c...), nil
	case ConvertFirst:
		return append(c, s...), nil
	default:
		return nil, fmt.Errorf("%w: unknown order %q; valid: %s, %s", aggregate.ErrConfiguration, order, ScaleFirst, ConvertFirst)
	}
}

// Apply runs every step on v in order.
func (p Pipeline) Apply(v float64) float64 {
	for _, s := range p {
		v = s.apply(v)
	}
	return v
}

// ApplySeries returns a post-processed copy of values.
func (p Pipeline) ApplySeries(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = p.Apply(v)
	}
	return out
}

// Total is a named series total after post-processing.
type Total struct {
	Name  string
	Value float64
}

// Totals sums every location and every result, runs the pipeline on each sum and rounds
// to two decimals. Locations come first in load order, then results labelled by
// granularity. Locations are aligned to the shared length before summing.
func Totals(locations []Location, results []*Result, p Pipeline) ([]Total, error) {
	aligned, err := Align(locations)
	if err != nil {
		return nil, err
	}
	totals := make([]Total, 0, len(aligned)+len(results))
	for _, l := range aligned {
		totals = append(totals, Total{Name: l.Name, Value: aggregate.Round2(p.Apply(floats.Sum(l.Values)))})
	}
	for _, r := range results {
		totals = append(totals, Total{
			Name:  ResultName(r),
			Value: aggregate.Round2(p.Apply(floats.Sum(r.Spliced))),
		})
	}
	return totals, nil
}

// ResultName labels a result by its granularity.
func ResultName(r *Result) string {
	return fmt.Sprintf("migrated-g%d", r.Granularity)
}
