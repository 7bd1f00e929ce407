package config_test

import (
	"fmt"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/wasm"
	pkgConfig "github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
)

var _ = Describe("Validator", func() {
	var (
		validator *config.Validator
		cfg       *pkgConfig.Config
	)

	BeforeEach(func() {
		validator = config.NewValidator()
		cfg = config.DefaultConfig()
	})

	It("accepts the default config", func() {
		Expect(validator.Validate(cfg)).To(Succeed())
	})

	It("rejects a nil config", func() {
		err := validator.Validate(nil)
		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
	})

	It("accepts an empty config", func() {
		Expect(validator.Validate(&pkgConfig.Config{})).To(Succeed())
	})

	DescribeTable("invalid settings",
		func(mutate func(*pkgConfig.Config), sentinel error) {
			mutate(cfg)

			err := validator.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("validation failed with 1 error(s)"))
			Expect(fmt.Sprintf("%+v", err)).To(ContainSubstring(sentinel.Error()))
		},
		Entry("empty report path", func(c *pkgConfig.Config) { c.Report.Path = "" }, config.ErrEmptyValue),
		Entry("unknown format", func(c *pkgConfig.Config) { c.Report.Format = "xml" }, config.ErrInvalidOption),
		Entry("unknown mode", func(c *pkgConfig.Config) { c.Clock.Mode = "tsc" }, config.ErrInvalidOption),
		Entry("zero ghz in fixed mode", func(c *pkgConfig.Config) { c.Clock.GHz = 0 }, config.ErrOutOfRange),
		Entry("zero pause in measure mode", func(c *pkgConfig.Config) {
			c.Clock.Mode = "measure"
			c.Clock.CalibrationPause = 0
		}, config.ErrOutOfRange),
		Entry("pin below -1", func(c *pkgConfig.Config) {
			pin := -2
			c.Clock.PinCPU = &pin
		}, config.ErrOutOfRange),
		Entry("unknown engine", func(c *pkgConfig.Config) { c.Runtime.Engine = "jit" }, wasm.ErrUnknownEngine),
	)

	It("ignores ghz outside the fixed mode", func() {
		cfg.Clock.Mode = "cpuid"
		cfg.Clock.GHz = 0

		Expect(validator.Validate(cfg)).To(Succeed())
	})

	It("counts every failure", func() {
		cfg.Report.Format = "xml"
		cfg.Clock.Mode = "tsc"
		cfg.Runtime.Engine = "jit"

		err := validator.Validate(cfg)
		Expect(err).To(MatchError(ContainSubstring("validation failed with 3 error(s)")))
	})
})
