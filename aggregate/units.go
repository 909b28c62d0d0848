package aggregate

import "math"

// siPrefixes maps the supported power-of-ten exponents to their prefix. Exponents outside
// this set are not scaled.
var siPrefixes = map[int]string{
	-9: "n",
	-6: "μ",
	-3: "m",
	0:  "",
	1:  "da",
	3:  "k",
	6:  "M",
	9:  "G",
}

// Unit is a resolved display unit and the divisor that converts raw samples into it.
type Unit struct {
	Display string
	Divisor float64
}

// ResolveUnit prefixes target with the SI prefix for magnitude and returns the
// 10^magnitude divisor. A magnitude outside the prefix table falls back to the bare
// unit and a divisor of 1; this is the documented default, not an error.
//
//	ResolveUnit("W", 3) -> {Display: "kW", Divisor: 1000}
func ResolveUnit(target string, magnitude int) Unit {
	prefix, ok := siPrefixes[magnitude]
	if !ok {
		return Unit{Display: target, Divisor: 1}
	}
	return Unit{Display: prefix + target, Divisor: math.Pow10(magnitude)}
}

// Scale divides every sample of raw by the unit divisor, in place.
func (u Unit) Scale(raw []float64) {
	if u.Divisor == 0 || u.Divisor == 1 {
		return
	}
	for i := range raw {
		raw[i] /= u.Divisor
	}
}

// ScaleRuns applies u to the raw series of every run. It must run before windowing.
func ScaleRuns(runs []*Run, u Unit) {
	for _, r := range runs {
		u.Scale(r.Raw)
	}
}
