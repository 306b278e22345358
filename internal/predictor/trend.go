package predictor

import (
	"math"

	"github.com/costwise/costwise/internal/model"
)

// olsSlope fits an ordinary least-squares line over the index sequence
// 0..n-1 and returns its slope. Shared by the cost, message, and savings
// trends so all three metrics use the same fit.
func olsSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// trendFor categorizes a slope into increasing/decreasing/stable.
func trendFor(slope float64) model.MetricTrend {
	direction := model.TrendStable
	switch {
	case slope > 0.1:
		direction = model.TrendUp
	case slope < -0.1:
		direction = model.TrendDown
	}
	return model.MetricTrend{Slope: slope, Direction: direction}
}

// coefficientOfVariation returns stddev/mean, or 1 for a zero mean so a
// degenerate series reads as maximally noisy rather than dividing by zero.
func coefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 1
	}

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return math.Sqrt(variance) / mean
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// lastN returns at most the final n elements of values.
func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
