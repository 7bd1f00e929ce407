package timing_test

import (
	"sync"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/timing"
)

var _ = Describe("Recorder", func() {
	var (
		rec     *timing.Recorder
		fdWrite hostcall.Op
	)

	BeforeEach(func() {
		rec = timing.NewRecorder(cycleclock.Fixed(2.1))
		fdWrite = hostcall.MustLookup("fd_write")
	})

	Describe("Push", func() {
		It("should append the converted duration", func() {
			rec.Push("fd_write", 1000, 1210)

			samples := rec.Store().Samples(fdWrite)
			Expect(samples).To(HaveLen(1))
			Expect(samples[0]).To(BeNumerically("~", 100.0, 1e-9))
		})

		It("should keep k pushes in order", func() {
			for i := range 5 {
				rec.Push("fd_write", 0, uint64(21*(i+1)))
			}

			samples := rec.Store().Samples(fdWrite)
			Expect(samples).To(HaveLen(5))

			for i, s := range samples {
				Expect(s).To(BeNumerically("~", float64(10*(i+1)), 1e-9))
			}
		})

		It("should leave other hostcalls untouched", func() {
			rec.Push("fd_write", 0, 21)

			Expect(rec.Store().Total()).To(Equal(1))
			Expect(rec.Store().Len(hostcall.MustLookup("fd_read"))).To(Equal(0))
		})

		It("should panic on an unknown name and record nothing", func() {
			Expect(func() { rec.Push("fd_frobnicate", 0, 10) }).To(
				PanicWith(MatchError(hostcall.ErrUnknownOperation)))

			Expect(rec.Store().Total()).To(Equal(0))
		})

		It("should record a zero duration for equal readings", func() {
			rec.Push("sched_yield", 42, 42)

			Expect(rec.Store().Samples(hostcall.MustLookup("sched_yield"))).To(Equal([]float64{0}))
		})
	})

	Describe("TryPush", func() {
		It("should return a distinguished error for unknown names", func() {
			err := rec.TryPush("not_a_hostcall", 0, 10)
			Expect(errors.Is(err, hostcall.ErrUnknownOperation)).To(BeTrue())
			Expect(rec.Store().Total()).To(Equal(0))
		})

		It("should record known names", func() {
			Expect(rec.TryPush("fd_write", 0, 21)).To(Succeed())
			Expect(rec.Store().Len(fdWrite)).To(Equal(1))
		})
	})

	Describe("anomalies", func() {
		It("should keep the wrapped sample by default", func() {
			rec.PushOp(fdWrite, 10, 5)

			Expect(rec.Store().Anomalies()).To(Equal(1))
			Expect(rec.Store().Samples(fdWrite)).To(HaveLen(1))
			Expect(rec.Store().Samples(fdWrite)[0]).To(BeNumerically(">", 1e18))
		})

		It("should drop the sample when configured", func() {
			rec = timing.NewRecorder(cycleclock.Fixed(2.1), timing.WithDiscardAnomalies(true))
			rec.PushOp(fdWrite, 10, 5)

			Expect(rec.Store().Anomalies()).To(Equal(1))
			Expect(rec.Store().Len(fdWrite)).To(Equal(0))
		})
	})

	Describe("Begin and Finish", func() {
		It("should pair nested regions innermost first", func() {
			rec.Begin()
			rec.Begin()
			rec.Finish(hostcall.MustLookup("fd_read"), cycleclock.Stop())
			rec.Finish(fdWrite, cycleclock.Stop())

			Expect(rec.Store().Len(hostcall.MustLookup("fd_read"))).To(Equal(1))
			Expect(rec.Store().Len(fdWrite)).To(Equal(1))
		})

		It("should ignore an unmatched Finish", func() {
			rec.Finish(fdWrite, cycleclock.Stop())

			Expect(rec.Store().Total()).To(Equal(0))
		})
	})

	Describe("Measure", func() {
		It("should record once and pass the error through", func() {
			boom := errors.New("boom")

			err := rec.Measure(fdWrite, func() error { return boom })
			Expect(err).To(MatchError(boom))
			Expect(rec.Store().Len(fdWrite)).To(Equal(1))
		})
	})

	It("should keep recorders on different goroutines independent", func() {
		a := timing.NewRecorder(cycleclock.Fixed(1))
		b := timing.NewRecorder(cycleclock.Fixed(1))

		var wg sync.WaitGroup

		wg.Add(2)

		go func() {
			defer wg.Done()

			for range 3 {
				a.Push("fd_write", 0, 1)
			}
		}()

		go func() {
			defer wg.Done()

			for range 7 {
				b.Push("fd_read", 0, 1)
			}
		}()

		wg.Wait()

		Expect(a.Store().Len(fdWrite)).To(Equal(3))
		Expect(a.Store().Len(hostcall.MustLookup("fd_read"))).To(Equal(0))
		Expect(b.Store().Len(hostcall.MustLookup("fd_read"))).To(Equal(7))
		Expect(b.Store().Len(fdWrite)).To(Equal(0))
	})
})
