package aggregate

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Distribution summarises one run's raw series for the CLI report.
type Distribution struct {
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
	Min   float64
	Max   float64
	Sum   float64
	Count int
}

// NewDistribution summarises values without modifying them. An empty series yields the
// zero Distribution.
func NewDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	d := Distribution{
		Min:   sorted[0],
		Max:   sorted[n-1],
		Sum:   floats.Sum(sorted),
		Count: n,
	}
	d.Mean = d.Sum / float64(n)
	d.P50 = interpolatedQuantile(sorted, 0.50)
	d.P95 = interpolatedQuantile(sorted, 0.95)
	d.P99 = interpolatedQuantile(sorted, 0.99)
	return d
}

// interpolatedQuantile reads the q-quantile (0 <= q <= 1) off an ascending series,
// placing it at fractional position q*(n-1) and interpolating between the two neighbours.
func interpolatedQuantile(sorted []float64, q float64) float64 {
	last := len(sorted) - 1
	if last < 0 {
		return 0
	}
	whole, frac := math.Modf(q * float64(last))
	i := int(whole)
	if i >= last || frac == 0 {
		return sorted[min(i, last)]
	}
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}
