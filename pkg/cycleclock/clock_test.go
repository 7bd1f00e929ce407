package cycleclock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
)

var _ = Describe("Clock", func() {
	It("should name its counter", func() {
		Expect(cycleclock.Counter()).To(BeElementOf("rdtsc", "cntvct_el0", "monotonic"))
	})

	It("should not run backwards on a pinned thread", func() {
		release, err := cycleclock.Pin(-1)
		Expect(err).NotTo(HaveOccurred())
		defer release()

		for range 1000 {
			s := cycleclock.Start()
			e := cycleclock.Stop()
			Expect(e).To(BeNumerically(">=", s))
		}
	})

	It("should advance across a sleep", func() {
		release, err := cycleclock.Pin(-1)
		Expect(err).NotTo(HaveOccurred())
		defer release()

		s := cycleclock.Start()
		time.Sleep(time.Millisecond)
		e := cycleclock.Stop()

		Expect(e).To(BeNumerically(">", s))
	})

	Describe("Overhead", func() {
		It("should treat non-positive iterations as one", func() {
			Expect(func() { cycleclock.Overhead(0) }).NotTo(Panic())
		})

		It("should be far below a millisecond worth of ticks", func() {
			cal, err := cycleclock.Calibrate(cycleclock.ModeFixed, cycleclock.Options{GHz: cycleclock.DefaultGHz})
			Expect(err).NotTo(HaveOccurred())

			Expect(cal.Nanoseconds(cycleclock.Overhead(100))).To(BeNumerically("<", float64(time.Millisecond)))
		})
	})
})
