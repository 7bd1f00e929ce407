package wasm

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"golang.org/x/sync/errgroup"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/logger"
)

// Engine selects the wazero execution engine.
type Engine string

const (
	// EngineAuto uses the compiler where supported and the interpreter elsewhere.
	EngineAuto Engine = "auto"

	// EngineCompiler compiles modules to native code ahead of execution.
	EngineCompiler Engine = "compiler"

	// EngineInterpreter interprets modules.
	EngineInterpreter Engine = "interpreter"
)

var (
	// ErrUnknownEngine is returned for an engine name outside the known set.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrFunctionNotFound is returned when --invoke names a missing export.
	ErrFunctionNotFound = errors.New("exported function not found")

	// ErrNoModules is returned when compile patterns match nothing.
	ErrNoModules = errors.New("no modules matched")

	// ErrNoCacheDir is returned when compiling without a cache directory.
	ErrNoCacheDir = errors.New("compile requires a cache directory")
)

// ParseEngine validates an engine name. The empty string selects EngineAuto.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(s)); e {
	case "":
		return EngineAuto, nil
	case EngineAuto, EngineCompiler, EngineInterpreter:
		return e, nil
	default:
		return "", errors.Wrapf(ErrUnknownEngine, "%q", s)
	}
}

// RunOptions describes one module execution.
type RunOptions struct {
	// Path is the .wasm file to run.
	Path string

	// Args follow the program name in the guest's argv.
	Args []string

	// Env holds KEY=VALUE pairs; a bare KEY inherits the host value.
	Env []string

	// Dirs preopens host directories as HOST[:GUEST].
	Dirs []string

	// Invoke names an export to call after instantiation instead of _start.
	// Args are then parsed as its uint64 parameters.
	Invoke string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner compiles and runs modules.
type Runner struct {
	log      logger.Logger
	engine   Engine
	cacheDir string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEngine selects the execution engine.
func WithEngine(e Engine) RunnerOption {
	return func(r *Runner) {
		r.engine = e
	}
}

// WithCacheDir enables wazero's on-disk compilation cache.
func WithCacheDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.cacheDir = dir
	}
}

// NewRunner returns a Runner.
func NewRunner(log logger.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{log: log, engine: EngineAuto}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Runner) newRuntime(ctx context.Context) (wazero.Runtime, error) {
	var cfg wazero.RuntimeConfig

	switch r.engine {
	case EngineCompiler:
		cfg = wazero.NewRuntimeConfigCompiler()
	case EngineInterpreter:
		cfg = wazero.NewRuntimeConfigInterpreter()
	case EngineAuto, "":
		cfg = wazero.NewRuntimeConfig()
	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", r.engine)
	}

	if r.cacheDir != "" {
		cache, err := wazero.NewCompilationCacheWithDir(r.cacheDir)
		if err != nil {
			return nil, errors.Wrapf(err, "opening compilation cache %s", r.cacheDir)
		}

		cfg = cfg.WithCompilationCache(cache)
	}

	return wazero.NewRuntimeWithConfig(ctx, cfg), nil
}

// Run executes a module and returns the guest's exit code. proc_exit(n) yields n
// with a nil error; any other failure yields 1 and the error.
//
// Hostcalls are attributed to the timing sink carried by ctx.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (uint32, error) {
	log := r.log.With("module", opts.Path)

	bin, err := os.ReadFile(opts.Path)
	if err != nil {
		return 1, errors.Wrap(err, "reading module")
	}

	ctx = experimental.WithFunctionListenerFactory(ctx, NewListenerFactory(log))

	rt, err := r.newRuntime(ctx)
	if err != nil {
		return 1, err
	}
	defer rt.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return 1, errors.Wrap(err, "instantiating WASI")
	}

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		return 1, errors.Wrapf(err, "compiling %s", opts.Path)
	}

	cfg, err := moduleConfig(opts)
	if err != nil {
		return 1, err
	}

	log.Debug("instantiating module", "engine", string(r.engine), "invoke", opts.Invoke)

	mod, err := rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return exitCode(err)
	}

	if opts.Invoke == "" {
		return 0, nil
	}

	return invoke(ctx, mod, opts)
}

func moduleConfig(opts RunOptions) (wazero.ModuleConfig, error) {
	cfg := wazero.NewModuleConfig().
		WithArgs(append([]string{filepath.Base(opts.Path)}, opts.Args...)...).
		WithStdin(orDefault[io.Reader](opts.Stdin, os.Stdin)).
		WithStdout(orDefault[io.Writer](opts.Stdout, os.Stdout)).
		WithStderr(orDefault[io.Writer](opts.Stderr, os.Stderr)).
		WithSysWalltime().
		WithSysNanotime().
		WithSysNanosleep().
		WithRandSource(rand.Reader)

	for _, kv := range opts.Env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			value = os.Getenv(key)
		}

		cfg = cfg.WithEnv(key, value)
	}

	if len(opts.Dirs) > 0 {
		fsCfg := wazero.NewFSConfig()

		for _, d := range opts.Dirs {
			host, guest, ok := strings.Cut(d, ":")
			if !ok {
				guest = host
			}

			info, err := os.Stat(host)
			if err != nil {
				return nil, errors.Wrapf(err, "preopening %s", host)
			}

			if !info.IsDir() {
				return nil, errors.Newf("preopening %s: not a directory", host)
			}

			fsCfg = fsCfg.WithDirMount(host, guest)
		}

		cfg = cfg.WithFSConfig(fsCfg)
	}

	if opts.Invoke != "" {
		cfg = cfg.WithStartFunctions("_initialize")
	}

	return cfg, nil
}

func invoke(ctx context.Context, mod api.Module, opts RunOptions) (uint32, error) {
	fn := mod.ExportedFunction(opts.Invoke)
	if fn == nil {
		return 1, errors.Wrapf(ErrFunctionNotFound, "%q", opts.Invoke)
	}

	params := make([]uint64, 0, len(opts.Args))

	for _, a := range opts.Args {
		v, err := strconv.ParseUint(a, 0, 64)
		if err != nil {
			return 1, errors.Wrapf(err, "parsing argument %q of %s", a, opts.Invoke)
		}

		params = append(params, v)
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return exitCode(err)
	}

	out := orDefault[io.Writer](opts.Stdout, os.Stdout)
	for _, res := range results {
		_, _ = io.WriteString(out, strconv.FormatUint(res, 10)+"\n")
	}

	return 0, nil
}

func exitCode(err error) (uint32, error) {
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 1, errors.Wrap(err, "running module")
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}

	return v
}

// Compile populates the compilation cache with every module matched by patterns
// and returns how many were compiled.
func (r *Runner) Compile(ctx context.Context, patterns []string) (int, error) {
	if r.cacheDir == "" {
		return 0, ErrNoCacheDir
	}

	var paths []string

	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return 0, errors.Wrapf(err, "expanding %q", p)
		}

		paths = append(paths, matches...)
	}

	if len(paths) == 0 {
		return 0, errors.Wrapf(ErrNoModules, "%s", strings.Join(patterns, " "))
	}

	rt, err := r.newRuntime(ctx)
	if err != nil {
		return 0, err
	}
	defer rt.Close(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, path := range paths {
		g.Go(func() error {
			bin, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}

			if _, err := rt.CompileModule(gctx, bin); err != nil {
				return errors.Wrapf(err, "compiling %s", path)
			}

			r.log.Debug("compiled module", "path", path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(paths), nil
}
