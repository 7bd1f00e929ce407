package report_test

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

var _ = Describe("Parse", func() {
	It("should read back what Write produces", func() {
		var buf bytes.Buffer
		Expect(report.Write(&buf, sampleSummary(), report.FormatText)).To(Succeed())

		sum, err := report.Parse(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Rows).To(Equal(sampleSummary().Rows))
	})

	It("should accept exponents and special values", func() {
		sum, err := report.Parse(strings.NewReader("\"fd_read\",2,1e16,inf\n\n\"bogus\",1,NaN,1.5e-7\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Rows).To(HaveLen(2))
		Expect(sum.Rows[0].Mean).To(Equal(1e16))
		Expect(sum.Rows[1].Category.IsACategory()).To(BeFalse())
		Expect(sum.Rows[1].Geomean).To(Equal(1.5e-7))
		Expect(sum.Rows[0].Category).To(Equal(hostcall.CategoryFD))
	})

	DescribeTable("rejects malformed lines",
		func(line string) {
			_, err := report.Parse(strings.NewReader(line))
			Expect(errors.Is(err, report.ErrMalformedReport)).To(BeTrue())
		},
		Entry("unquoted name", "fd_read,1,2.0,2.0"),
		Entry("missing separator", "\"fd_read\"1,2.0,2.0"),
		Entry("too few values", "\"fd_read\",1,2.0"),
		Entry("bad count", "\"fd_read\",x,2.0,2.0"),
		Entry("bad mean", "\"fd_read\",1,fast,2.0"),
	)
})
