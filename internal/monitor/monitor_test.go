package monitor_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/monitor"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/logger"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/timing"
)

type bufferFile struct {
	bytes.Buffer
}

func (*bufferFile) Close() error {
	return nil
}

// pushes records through whatever sink the monitor attached to ctx.
func pushes(names ...string) monitor.Command {
	return func(ctx context.Context) (int, error) {
		sink, ok := timing.SinkFrom(ctx)
		Expect(ok).To(BeTrue())

		rec, ok := sink.(*timing.Recorder)
		Expect(ok).To(BeTrue())

		for _, name := range names {
			rec.Push(name, 0, 1)
		}

		return 0, nil
	}
}

var _ = Describe("Monitor", func() {
	var (
		ctrl *gomock.Controller
		fs   *report.MockFileCreator
		out  *bufferFile
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		fs = report.NewMockFileCreator(ctrl)
		out = &bufferFile{}
	})

	It("should write the report exactly once after the command", func() {
		fs.EXPECT().Create(report.DefaultPath).Return(out, nil).Times(1)

		m := monitor.New(monitor.WithFileCreator(fs), monitor.WithCalibration(cycleclock.Fixed(1)))

		code, err := m.Run(context.Background(), pushes("fd_write", "fd_write", "args_get"))
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(0))

		Expect(out.String()).To(Equal("\"args_get\",1,1.0,1.0\n\"fd_write\",2,1.0,1.0\n"))
	})

	It("should report even when the command fails", func() {
		fs.EXPECT().Create(gomock.Any()).Return(out, nil).Times(1)

		boom := errors.New("trap")
		m := monitor.New(monitor.WithFileCreator(fs))

		code, err := m.Run(context.Background(), func(ctx context.Context) (int, error) {
			_, _ = pushes("fd_read")(ctx)

			return 1, boom
		})

		Expect(err).To(MatchError(boom))
		Expect(code).To(Equal(1))
		Expect(out.String()).To(HavePrefix("\"fd_read\",1,"))
	})

	It("should write an empty report when nothing was recorded", func() {
		fs.EXPECT().Create(gomock.Any()).Return(out, nil)

		code, err := monitor.New(monitor.WithFileCreator(fs)).Run(context.Background(),
			func(context.Context) (int, error) { return 7, nil })

		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(7))
		Expect(out.Len()).To(BeZero())
	})

	It("should leave the result unchanged when the report cannot be written", func() {
		var logBuf bytes.Buffer

		fs.EXPECT().Create(gomock.Any()).Return(nil, os.ErrPermission)

		m := monitor.New(
			monitor.WithFileCreator(fs),
			monitor.WithLogger(logger.NewWriterLogger(&logBuf, logger.LevelError)),
		)

		code, err := m.Run(context.Background(), pushes("fd_write"))
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(0))
		Expect(logBuf.String()).To(ContainSubstring("writing latency report"))
	})

	It("should leave the result unchanged for an unwritable path on disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "missing", "wasmtime_results.txt")
		m := monitor.New(monitor.WithReport(path, report.FormatText))

		code, err := m.Run(context.Background(), func(context.Context) (int, error) { return 3, nil })
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(3))
	})

	It("should not report when the command panics", func() {
		m := monitor.New(monitor.WithFileCreator(fs))

		Expect(func() {
			_, _ = m.Run(context.Background(), pushes("not_a_hostcall"))
		}).To(Panic())
	})

	It("should pass the summary to the hook", func() {
		fs.EXPECT().Create(gomock.Any()).Return(out, nil)

		var got stats.Summary

		m := monitor.New(
			monitor.WithFileCreator(fs),
			monitor.WithSummaryHook(func(sum stats.Summary, _ time.Duration) { got = sum }),
		)

		_, _ = m.Run(context.Background(), pushes("sched_yield"))
		Expect(got.Rows).To(HaveLen(1))
		Expect(got.Rows[0].Name).To(Equal("sched_yield"))
	})

	It("should write json when configured", func() {
		path := filepath.Join(GinkgoT().TempDir(), "report.json")
		m := monitor.New(monitor.WithReport(path, report.FormatJSON))

		_, err := m.Run(context.Background(), pushes("random_get"))
		Expect(err).NotTo(HaveOccurred())

		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		data, err := io.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Contains(string(data), `"name": "random_get"`)).To(BeTrue())
	})
})
