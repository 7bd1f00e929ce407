package stats_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/timing"
)

var _ = Describe("Mean", func() {
	It("should average", func() {
		Expect(stats.Mean([]float64{1, 2, 3})).To(Equal(2.0))
	})

	It("should be NaN for no samples", func() {
		Expect(math.IsNaN(stats.Mean(nil))).To(BeTrue())
	})
})

var _ = Describe("GeometricMean", func() {
	It("should be one for all ones", func() {
		Expect(stats.GeometricMean([]float64{1, 1, 1})).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("should return the element for a single sample", func() {
		Expect(stats.GeometricMean([]float64{153.25})).To(Equal(153.25))
	})

	It("should match the closed form", func() {
		Expect(stats.GeometricMean([]float64{2, 8})).To(BeNumerically("~", 4.0, 1e-9))
	})

	It("should be zero when any sample is zero", func() {
		Expect(stats.GeometricMean([]float64{4, 0, 9})).To(Equal(0.0))
	})

	It("should not overflow on large samples", func() {
		Expect(stats.GeometricMean([]float64{1e300, 1e300, 1e300})).To(BeNumerically("~", 1e300, 1e288))
	})
})

var _ = Describe("Summarize", func() {
	It("should emit one row per hostcall with samples, in registry order", func() {
		rec := timing.NewRecorder(cycleclock.Fixed(1))
		rec.Push("fd_write", 0, 10)
		rec.Push("args_get", 0, 4)
		rec.Push("fd_write", 0, 30)

		sum := stats.Summarize(rec.Store())

		Expect(sum.Rows).To(HaveLen(2))
		Expect(sum.Rows[0].Name).To(Equal("args_get"))
		Expect(sum.Rows[0].Count).To(Equal(1))
		Expect(sum.Rows[0].Mean).To(Equal(4.0))
		Expect(sum.Rows[0].Geomean).To(Equal(4.0))

		Expect(sum.Rows[1].Name).To(Equal("fd_write"))
		Expect(sum.Rows[1].Category).To(Equal(hostcall.CategoryFD))
		Expect(sum.Rows[1].Count).To(Equal(2))
		Expect(sum.Rows[1].Mean).To(Equal(20.0))
		Expect(sum.Rows[1].Geomean).To(BeNumerically("~", math.Sqrt(300), 1e-9))
		Expect(sum.Count()).To(Equal(3))
	})

	It("should be empty for an empty store", func() {
		sum := stats.Summarize(timing.NewStore())
		Expect(sum.Rows).To(BeEmpty())
	})

	It("should carry the anomaly count", func() {
		rec := timing.NewRecorder(cycleclock.Fixed(1))
		rec.PushOp(hostcall.MustLookup("fd_read"), 9, 1)

		Expect(stats.Summarize(rec.Store()).Anomalies).To(Equal(1))
	})
})
