package docking

import (
	"math"
	"sort"
)

// z95 is the two-sided 95% quantile of the standard normal distribution.
const z95 = 1.959963984540054

// Stats describes a sample of best affinities.  With Count 0 every other field
// is zero.
type Stats struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Std    float64 `json:"std" yaml:"std"`
	Var    float64 `json:"var" yaml:"var"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	CILow  float64 `json:"ci95_low" yaml:"ci95_low"`
	CIHigh float64 `json:"ci95_high" yaml:"ci95_high"`
}

// ComputeStats summarises values, ignoring NaN.  Std and Var are population
// moments; the interval is a normal approximation of the mean.
func ComputeStats(values []float64) Stats {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	sort.Float64s(xs)

	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	var ss float64
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	variance := ss / float64(n)
	std := math.Sqrt(variance)

	median := xs[n/2]
	if n%2 == 0 {
		median = (xs[n/2-1] + xs[n/2]) / 2
	}

	half := z95 * std / math.Sqrt(float64(n))
	return Stats{
		Count:  n,
		Mean:   mean,
		Median: median,
		Std:    std,
		Var:    variance,
		Min:    xs[0],
		Max:    xs[n-1],
		CILow:  mean - half,
		CIHigh: mean + half,
	}
}

//Personal.AI order the ending
