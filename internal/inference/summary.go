package inference

import (
	"math"
	"sort"

	"regsim/domain/core"
	"regsim/domain/regression"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins matches the bin count used for the estimate histograms
const DefaultHistogramBins = 20

// Histogram holds fixed-width bin counts. Edges has len(Counts)+1 entries.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// DistributionSummary describes one simulated sampling distribution
type DistributionSummary struct {
	Parameter regression.Parameter `json:"parameter"`
	Count     int                  `json:"count"`
	Mean      float64              `json:"mean"`
	Std       float64              `json:"std"`
	Median    float64              `json:"median"`
	Min       float64              `json:"min"`
	Max       float64              `json:"max"`
	Observed  float64              `json:"observed"`
	TrueValue float64              `json:"true_value"`
	Histogram Histogram            `json:"histogram"`
}

// SummarizeRecord summarizes the selected coefficient's simulated estimates
func SummarizeRecord(rec *regression.SimulationRecord, param regression.Parameter, bins int) (*DistributionSummary, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if !param.Valid() {
		return nil, core.NewInvalidParameterError("parameter", string(param))
	}
	summary, err := Summarize(rec.Estimates(param), bins)
	if err != nil {
		return nil, err
	}
	summary.Parameter = param
	summary.Observed = rec.Observed.Value(param)
	summary.TrueValue = rec.Params.TrueValue(param)
	return summary, nil
}

// Summarize computes moments, order statistics and a histogram of values
func Summarize(values []float64, bins int) (*DistributionSummary, error) {
	if len(values) == 0 {
		return nil, core.NewMissingStateError("no values to summarize")
	}
	if bins < 1 {
		return nil, core.NewInvalidParameterError("bins", "must be >= 1")
	}

	data := stats.Float64Data(values)
	mean, _ := data.Mean()
	median, _ := data.Median()
	minimum, _ := data.Min()
	maximum, _ := data.Max()
	std := 0.0
	if len(values) > 1 {
		std, _ = data.StandardDeviationSample()
	}

	return &DistributionSummary{
		Count:     len(values),
		Mean:      mean,
		Std:       std,
		Median:    median,
		Min:       minimum,
		Max:       maximum,
		Histogram: histogram(values, minimum, maximum, bins),
	}, nil
}

// histogram bins values into equal-width bins over [minimum, maximum]
func histogram(values []float64, minimum, maximum float64, bins int) Histogram {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if minimum == maximum {
		bins = 1
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, minimum, maximum)
	for i := range edges[:bins] {
		edges[i] = math.Min(edges[i], maximum)
	}
	// stat.Histogram excludes the last divider, so nudge it past the maximum
	edges[bins] = math.Nextafter(maximum, math.Inf(1))

	counts := stat.Histogram(nil, edges, sorted, nil)
	return Histogram{Edges: edges, Counts: counts}
}
