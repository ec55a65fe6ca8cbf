package shim

import (
	"neuroshim/internal/backend"
	"neuroshim/internal/metrics"
	"neuroshim/internal/resolver"
)

// Create allocates a session bound to the process's active backend. On
// backend failure nothing is registered: there is no partial session to
// leak.
func (r *Runtime) Create() (uint64, error) {
	ctx, err := r.backend.New(backend.Options{
		Threads:  r.cfg.Threads,
		ForceCPU: r.cfg.ForceCPU,
	})
	if err != nil {
		r.log.Error().Err(err).Msg("backend context creation failed")
		return 0, &backendError{op: "create", err: err}
	}

	r.mu.Lock()
	h := r.nextID
	r.nextID++
	r.sessions[h] = &session{ctx: ctx}
	r.mu.Unlock()

	metrics.SessionsCreatedTotal.Inc()
	metrics.SessionsActive.Inc()
	r.log.Debug().Uint64("handle", h).Msg("session created")
	return h, nil
}

// Release destroys the session's backend context and forgets the handle.
// A second release of the same handle fails with ErrInvalidHandle without
// touching any other session.
func (r *Runtime) Release(h uint64) error {
	r.mu.Lock()
	s, ok := r.sessions[h]
	if ok {
		delete(r.sessions, h)
	}
	r.mu.Unlock()
	if !ok {
		return ErrInvalidHandle
	}

	metrics.SessionsActive.Dec()
	r.log.Debug().Uint64("handle", h).Msg("session released")
	if err := s.ctx.Close(); err != nil {
		return &backendError{op: "destroy", err: err}
	}
	return nil
}

// LoadFile resolves the application's model path and hands the artifact
// to the backend. A resolution failure returns before the backend is
// touched.
func (r *Runtime) LoadFile(h uint64, path string) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	r.log.Info().Str("path", path).Msg("load network")

	resolved, err := resolver.Resolve(path, r.suffix, r.cfg.ModelDir)
	if err != nil {
		metrics.ResolveFailuresTotal.Inc()
		metrics.ModelLoadsTotal.WithLabelValues(r.backend.Name(), "not_found").Inc()
		r.log.Error().Str("path", path).Str("suffix", r.suffix).Msg("model not found")
		return err
	}

	r.log.Info().Str("resolved", resolved).Msg("loading model")
	if err := s.ctx.LoadFile(resolved); err != nil {
		metrics.ModelLoadsTotal.WithLabelValues(r.backend.Name(), "error").Inc()
		r.log.Error().Err(err).Str("resolved", resolved).Msg("backend failed to load model")
		return &backendError{op: "load", err: err}
	}
	metrics.ModelLoadsTotal.WithLabelValues(r.backend.Name(), "ok").Inc()
	return nil
}

// LoadBuffer delegates an in-memory model directly; no path resolution.
func (r *Runtime) LoadBuffer(h uint64, buf []byte) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	r.log.Info().Int("bytes", len(buf)).Msg("load network from buffer")
	if err := s.ctx.LoadBuffer(buf); err != nil {
		metrics.ModelLoadsTotal.WithLabelValues(r.backend.Name(), "error").Inc()
		return &backendError{op: "load", err: err}
	}
	metrics.ModelLoadsTotal.WithLabelValues(r.backend.Name(), "ok").Inc()
	return nil
}

// SetInput records a caller-owned input buffer for one tensor slot. No
// copy happens here; the backend decides when data moves.
func (r *Runtime) SetInput(h uint64, index int, buf []byte) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	r.log.Debug().Uint64("handle", h).Int("index", index).Int("bytes", len(buf)).Msg("set input")
	if err := s.ctx.SetInput(index, buf); err != nil {
		return &backendError{op: "set input", err: err}
	}
	return nil
}

// SetOutput records a caller-owned output buffer for one tensor slot.
func (r *Runtime) SetOutput(h uint64, index int, buf []byte) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	r.log.Debug().Uint64("handle", h).Int("index", index).Int("bytes", len(buf)).Msg("set output")
	if err := s.ctx.SetOutput(index, buf); err != nil {
		return &backendError{op: "set output", err: err}
	}
	return nil
}

func (r *Runtime) InputCount(h uint64) (int, error) {
	s, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	n, err := s.ctx.InputCount()
	if err != nil {
		return 0, &backendError{op: "input count", err: err}
	}
	return n, nil
}

func (r *Runtime) OutputCount(h uint64) (int, error) {
	s, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	n, err := s.ctx.OutputCount()
	if err != nil {
		return 0, &backendError{op: "output count", err: err}
	}
	return n, nil
}

func (r *Runtime) InputSize(h uint64, index int) (int, error) {
	s, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	n, err := s.ctx.InputSize(index)
	if err != nil {
		return 0, &backendError{op: "input size", err: err}
	}
	return n, nil
}

func (r *Runtime) OutputSize(h uint64, index int) (int, error) {
	s, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	n, err := s.ctx.OutputSize(index)
	if err != nil {
		return 0, &backendError{op: "output size", err: err}
	}
	return n, nil
}

// Invoke runs inference synchronously: the backend writes into the bound
// output buffers before this returns.
func (r *Runtime) Invoke(h uint64) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	r.log.Debug().Uint64("handle", h).Msg("inference begin")
	if err := s.ctx.Invoke(); err != nil {
		metrics.InferencesTotal.WithLabelValues(r.backend.Name(), "error").Inc()
		r.log.Error().Err(err).Uint64("handle", h).Msg("inference failed")
		return &backendError{op: "invoke", err: err}
	}
	r.inferences.Add(1)
	metrics.InferencesTotal.WithLabelValues(r.backend.Name(), "ok").Inc()
	r.log.Debug().Uint64("handle", h).Msg("inference done")
	return nil
}
