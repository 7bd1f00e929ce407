package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/config"
)

var _ = Describe("KoanfLoader", func() {
	var (
		configDir string
		workDir   string
		loader    *config.KoanfLoader
	)

	writeTOML := func(path, content string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	setenv := func(key, value string) {
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	BeforeEach(func() {
		tmpDir := GinkgoT().TempDir()
		configDir = filepath.Join(tmpDir, "config")
		workDir = filepath.Join(tmpDir, "work")
		Expect(os.MkdirAll(workDir, 0o700)).To(Succeed())

		loader = config.NewKoanfLoaderWithDirs(configDir, workDir)
	})

	It("returns the defaults when nothing is configured", func() {
		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Report.Path).To(Equal("./wasmtime_results.txt"))
		Expect(cfg.Report.Format).To(Equal("text"))
		Expect(cfg.Report.IsSummaryEnabled()).To(BeFalse())
		Expect(cfg.Clock.Mode).To(Equal("fixed"))
		Expect(cfg.Clock.GHz).To(Equal(2.1))
		Expect(cfg.Clock.CalibrationPause.ToDuration()).To(Equal(50 * time.Millisecond))
		Expect(cfg.Clock.GetPinCPU()).To(Equal(-1))
		Expect(cfg.Samples.IsDiscardAnomaliesEnabled()).To(BeFalse())
		Expect(cfg.Runtime.Engine).To(Equal("auto"))
	})

	It("layers global, project, env and flags in precedence order", func() {
		writeTOML(loader.GlobalConfigPath(), `
[report]
format = "json"
path = "global.txt"

[clock]
ghz = 3.0
`)
		writeTOML(filepath.Join(workDir, config.ProjectConfigFile), `
[report]
path = "project.txt"

[clock]
calibration_pause = "10ms"
`)
		setenv("HOSTCALL_TIMING_CLOCK__GHZ", "2.5")
		setenv("HOSTCALL_TIMING_SAMPLES__DISCARD_ANOMALIES", "true")

		cfg, err := loader.Load(map[string]any{"pin-cpu": 0, "summary": true})
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Report.Format).To(Equal("json"))
		Expect(cfg.Report.Path).To(Equal("project.txt"))
		Expect(cfg.Report.IsSummaryEnabled()).To(BeTrue())
		Expect(cfg.Clock.GHz).To(Equal(2.5))
		Expect(cfg.Clock.CalibrationPause.ToDuration()).To(Equal(10 * time.Millisecond))
		Expect(cfg.Clock.GetPinCPU()).To(Equal(0))
		Expect(cfg.Samples.IsDiscardAnomaliesEnabled()).To(BeTrue())
	})

	It("lets flags override the environment", func() {
		setenv("HOSTCALL_TIMING_RUNTIME__ENGINE", "compiler")

		cfg, err := loader.Load(map[string]any{"engine": "interpreter"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Runtime.Engine).To(Equal("interpreter"))
	})

	It("ignores unknown flags", func() {
		cfg, err := loader.Load(map[string]any{"debug": true})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Report.Format).To(Equal("text"))
	})

	It("falls back to the alternative project file name", func() {
		writeTOML(filepath.Join(workDir, config.ProjectConfigFileAlt), "[report]\nformat = \"yaml\"\n")

		Expect(loader.FindProjectConfigPath()).To(HaveSuffix(config.ProjectConfigFileAlt))

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Report.Format).To(Equal("yaml"))
	})

	It("rejects world-writable config files", func() {
		path := filepath.Join(workDir, config.ProjectConfigFile)
		writeTOML(path, "[report]\nformat = \"json\"\n")
		Expect(os.Chmod(path, 0o666)).To(Succeed())

		_, err := loader.Load(nil)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, config.ErrInvalidPermissions)).To(BeTrue())
	})

	It("fails on malformed TOML", func() {
		writeTOML(filepath.Join(workDir, config.ProjectConfigFile), "[report\n")

		_, err := loader.Load(nil)
		Expect(err).To(HaveOccurred())
	})

	It("fails validation for an unknown format", func() {
		_, err := loader.Load(map[string]any{"format": "xml"})
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
	})

	It("skips validation in LoadWithoutValidation", func() {
		cfg, err := loader.LoadWithoutValidation(map[string]any{"format": "xml"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Report.Format).To(Equal("xml"))
	})

	It("rejects a negative calibration pause", func() {
		setenv("HOSTCALL_TIMING_CLOCK__CALIBRATION_PAUSE", "-5ms")

		_, err := loader.Load(nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("KoanfLoader explicit project config", func() {
	It("loads the explicit file instead of the working directory lookup", func() {
		tmpDir := GinkgoT().TempDir()
		explicit := filepath.Join(tmpDir, "bench.toml")
		Expect(os.WriteFile(explicit, []byte("[clock]\nmode = \"cpuid\"\n"), 0o600)).To(Succeed())

		loader := config.NewKoanfLoaderWithDirs(tmpDir, tmpDir)
		loader.SetProjectConfigPath(explicit)

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Clock.Mode).To(Equal("cpuid"))
	})

	It("fails when the explicit file is missing", func() {
		tmpDir := GinkgoT().TempDir()

		loader := config.NewKoanfLoaderWithDirs(tmpDir, tmpDir)
		loader.SetProjectConfigPath(filepath.Join(tmpDir, "missing.toml"))

		_, err := loader.Load(nil)
		Expect(err).To(HaveOccurred())
	})
})
