package report_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

type nopCloser struct {
	io.Writer
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true

	return nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func (failingWriter) Close() error {
	return nil
}

func sampleSummary() stats.Summary {
	return stats.Summary{
		Rows: []stats.Row{
			{Name: "args_get", Category: hostcall.CategoryArgs, Count: 1, Mean: 4, Geomean: 4},
			{Name: "fd_write", Category: hostcall.CategoryFD, Count: 12, Mean: 153.8095238095238, Geomean: 140.2231445312},
		},
	}
}

var _ = Describe("Write", func() {
	It("should write one line per row in the text format", func() {
		var buf bytes.Buffer

		Expect(report.Write(&buf, sampleSummary(), report.FormatText)).To(Succeed())
		Expect(buf.String()).To(Equal(
			"\"args_get\",1,4.0,4.0\n" +
				"\"fd_write\",12,153.8095238095238,140.2231445312\n"))
	})

	It("should write nothing for an empty summary", func() {
		var buf bytes.Buffer

		Expect(report.Write(&buf, stats.Summary{}, report.FormatText)).To(Succeed())
		Expect(buf.Len()).To(BeZero())
	})

	It("should encode json with category names", func() {
		var buf bytes.Buffer

		Expect(report.Write(&buf, sampleSummary(), report.FormatJSON)).To(Succeed())

		var decoded map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded["rows"]).To(HaveLen(2))
		Expect(buf.String()).To(ContainSubstring(`"category": "fd"`))
	})

	It("should encode yaml", func() {
		var buf bytes.Buffer

		Expect(report.Write(&buf, sampleSummary(), report.FormatYAML)).To(Succeed())

		var decoded stats.Summary
		Expect(yaml.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded.Rows).To(HaveLen(2))
		Expect(decoded.Rows[1].Category).To(Equal(hostcall.CategoryFD))
	})

	It("should reject unknown formats", func() {
		err := report.Write(io.Discard, sampleSummary(), report.Format(7))
		Expect(errors.Is(err, report.ErrUnknownFormat)).To(BeTrue())
	})
})

var _ = Describe("Writer", func() {
	var (
		ctrl *gomock.Controller
		fs   *report.MockFileCreator
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		fs = report.NewMockFileCreator(ctrl)
	})

	It("should create the file once and close it", func() {
		var buf bytes.Buffer

		out := &nopCloser{Writer: &buf}
		fs.EXPECT().Create("results.txt").Return(out, nil).Times(1)

		Expect(report.NewWriter(fs).WriteFile("results.txt", sampleSummary(), report.FormatText)).To(Succeed())
		Expect(out.closed).To(BeTrue())
		Expect(strings.Count(buf.String(), "\n")).To(Equal(2))
	})

	It("should return the create error", func() {
		fs.EXPECT().Create(gomock.Any()).Return(nil, os.ErrPermission)

		err := report.NewWriter(fs).WriteFile("/root/x", sampleSummary(), report.FormatText)
		Expect(errors.Is(err, os.ErrPermission)).To(BeTrue())
	})

	It("should return the write error", func() {
		fs.EXPECT().Create(gomock.Any()).Return(failingWriter{}, nil)

		err := report.NewWriter(fs).WriteFile("out.txt", sampleSummary(), report.FormatText)
		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})
})

var _ = Describe("WriteFile", func() {
	It("should truncate an existing report", func() {
		path := filepath.Join(GinkgoT().TempDir(), "wasmtime_results.txt")
		Expect(os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o600)).To(Succeed())

		Expect(report.WriteFile(path, sampleSummary(), report.FormatText)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring("stale"))
		Expect(strings.Split(strings.TrimSpace(string(data)), "\n")).To(HaveLen(2))
	})

	It("should fail for a missing directory", func() {
		path := filepath.Join(GinkgoT().TempDir(), "missing", "out.txt")

		Expect(report.WriteFile(path, sampleSummary(), report.FormatText)).NotTo(Succeed())
	})
})
