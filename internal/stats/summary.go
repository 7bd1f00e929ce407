// Package stats summarizes recorded hostcall latencies.
package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/timing"
)

// Row is the summary of one hostcall.
type Row struct {
	Name     string            `json:"name"     yaml:"name"`
	Category hostcall.Category `json:"category" yaml:"category"`
	Count    int               `json:"count"    yaml:"count"`
	Mean     float64           `json:"mean"     yaml:"mean"`
	Geomean  float64           `json:"geomean"  yaml:"geomean"`
}

// Summary holds one row per hostcall with at least one sample, in registry order.
type Summary struct {
	Rows      []Row `json:"rows"      yaml:"rows"`
	Anomalies int   `json:"anomalies" yaml:"anomalies"`
}

// Summarize computes the mean and geometric mean of every non-empty sample set.
func Summarize(store *timing.Store) Summary {
	var sum Summary

	store.Each(func(op hostcall.Op, samples []float64) {
		if len(samples) == 0 {
			return
		}

		sum.Rows = append(sum.Rows, Row{
			Name:     op.String(),
			Category: op.Category(),
			Count:    len(samples),
			Mean:     Mean(samples),
			Geomean:  GeometricMean(samples),
		})
	})

	sum.Anomalies = store.Anomalies()

	return sum
}

// Count returns the number of samples across all rows.
func (s Summary) Count() int {
	n := 0
	for _, r := range s.Rows {
		n += r.Count
	}

	return n
}

// Mean returns the arithmetic mean, or NaN for an empty input.
func Mean(samples []float64) float64 {
	m, err := mstats.Mean(samples)
	if err != nil {
		return math.NaN()
	}

	return m
}

// GeometricMean returns exp of the mean natural log. Any zero sample makes the
// result zero; an empty input yields NaN.
func GeometricMean(samples []float64) float64 {
	switch len(samples) {
	case 0:
		return math.NaN()
	case 1:
		return samples[0]
	}

	logs := make([]float64, len(samples))

	for i, s := range samples {
		if s == 0 {
			return 0
		}

		logs[i] = math.Log(s)
	}

	return math.Exp(Mean(logs))
}
