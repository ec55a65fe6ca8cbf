package shim

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"neuroshim/internal/backend"
	"neuroshim/internal/config"
	"neuroshim/internal/diag"
	"neuroshim/internal/logging"

	// Engines compile in via build tags; importing them runs their
	// registration, mirroring the vendor runtime's compile-time engine
	// selection. The stub registers unconditionally.
	_ "neuroshim/internal/backend/onnx"
	_ "neuroshim/internal/backend/tflite"
)

// Runtime is the process-scoped context: the immutable configuration
// snapshot, the one selected backend, and the session registry. The
// original kept these as mutable globals behind pthread_once; here they
// live in one explicit object so tests can build as many as they like.
type Runtime struct {
	cfg     config.Config
	backend backend.Backend
	suffix  string
	log     zerolog.Logger

	mu       sync.RWMutex
	sessions map[uint64]*session
	nextID   uint64

	inferences atomic.Uint64
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process-wide runtime, initializing it exactly once.
// Racing first callers all block until the winner finishes and then
// observe the same result.
func Default() *Runtime {
	defaultOnce.Do(func() {
		cfg := config.Load()
		logging.SetLevel(cfg.LogLevel)
		defaultRuntime = New(cfg)
		if cfg.DiagAddr != "" {
			go func() {
				if err := diag.Serve(cfg.DiagAddr, defaultRuntime); err != nil {
					defaultRuntime.log.Error().Err(err).Msg("diagnostics endpoint stopped")
				}
			}()
		}
	})
	return defaultRuntime
}

// New builds a runtime from an explicit configuration snapshot: backend
// selection runs here, once, and the result is immutable afterward.
func New(cfg config.Config) *Runtime {
	log := logging.For("shim")
	log.Info().Msg("neuron-shim initializing")
	log.Info().
		Str("backend", cfg.Backend).
		Str("suffix", cfg.Suffix).
		Int("threads", cfg.Threads).
		Bool("force_cpu", cfg.ForceCPU).
		Msg("configuration loaded")
	if cfg.ModelDir != "" {
		log.Info().Str("model_dir", cfg.ModelDir).Msg("model lookups redirected")
	}

	name := cfg.Backend
	if name == "auto" {
		name = ""
	}
	selected := backend.Select(name)
	suffix := cfg.ResolvedSuffix()

	log.Info().Str("backend", selected.Name()).Msg("active backend")
	if cfg.ModelDir != "" {
		log.Info().Msgf("model resolution: <path> -> %s/<basename>%s", cfg.ModelDir, suffix)
	} else {
		log.Info().Msgf("model resolution: <path> -> <path>%s", suffix)
	}

	return &Runtime{
		cfg:      cfg,
		backend:  selected,
		suffix:   suffix,
		log:      log,
		sessions: make(map[uint64]*session),
		nextID:   1,
	}
}

// newWithBackend bypasses selection; tests inject recording fakes here.
func newWithBackend(cfg config.Config, b backend.Backend) *Runtime {
	return &Runtime{
		cfg:      cfg,
		backend:  b,
		suffix:   cfg.ResolvedSuffix(),
		log:      logging.For("shim"),
		sessions: make(map[uint64]*session),
		nextID:   1,
	}
}

// Backend returns the name of the process's active backend.
func (r *Runtime) Backend() string { return r.backend.Name() }

// Suffix returns the resolved model suffix.
func (r *Runtime) Suffix() string { return r.suffix }

// Config returns the immutable configuration snapshot.
func (r *Runtime) Config() config.Config { return r.cfg }
