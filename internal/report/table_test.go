package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/color"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
)

var _ = Describe("RenderTable", func() {
	It("should render rows and a totals line", func() {
		out := report.RenderTable(sampleSummary(), color.NewTheme(false))

		Expect(out).To(ContainSubstring("fd_write"))
		Expect(out).To(ContainSubstring("153.81 ns"))
		Expect(out).To(ContainSubstring("13 samples across 2 hostcalls"))
		Expect(out).NotTo(ContainSubstring("anomalies"))
	})

	It("should mention anomalies", func() {
		sum := sampleSummary()
		sum.Anomalies = 3

		Expect(report.RenderTable(sum, color.NewTheme(false))).To(ContainSubstring("3 clock anomalies"))
	})

	It("should render nothing for an empty summary", func() {
		Expect(report.RenderTable(stats.Summary{}, color.NewTheme(false))).To(BeEmpty())
	})
})

var _ = Describe("RenderOps", func() {
	It("should list every hostcall", func() {
		out := report.RenderOps(color.NewTheme(false))

		Expect(out).To(ContainSubstring("args_get"))
		Expect(out).To(ContainSubstring("sock_connect"))
		Expect(out).To(ContainSubstring("sched"))
	})
})
