package report_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
)

var _ = Describe("FormatFloat", func() {
	DescribeTable("renders",
		func(x float64, want string) {
			Expect(report.FormatFloat(x)).To(Equal(want))
		},
		Entry("integral values with a decimal point", 2.0, "2.0"),
		Entry("zero", 0.0, "0.0"),
		Entry("fractions in shortest form", 153.8095238095238, "153.8095238095238"),
		Entry("the 1e16 threshold as an exponent", 1e16, "1e16"),
		Entry("large values with a mantissa", 1.5e20, "1.5e20"),
		Entry("tiny values with a negative exponent", 1.5e-7, "1.5e-7"),
		Entry("1e-4 without an exponent", 1e-4, "0.0001"),
		Entry("negative values", -3.25, "-3.25"),
		Entry("NaN", math.NaN(), "NaN"),
		Entry("positive infinity", math.Inf(1), "inf"),
		Entry("negative infinity", math.Inf(-1), "-inf"),
	)
})

var _ = Describe("Format", func() {
	It("should parse every format name", func() {
		for _, name := range []string{"text", "json", "yaml"} {
			f, err := report.FormatString(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.String()).To(Equal(name))
		}
	})

	It("should reject unknown names", func() {
		_, err := report.FormatString("csv")
		Expect(err).To(HaveOccurred())
	})
})
