package shim

import "neuroshim/internal/backend"

// A session lives from Create to Release. Tensor and invocation calls
// are legal at any point in between; what they do before a model load is
// the backend's business (the stub legally answers with a minimal
// default shape). Released sessions leave the registry, so any later use
// resolves to ErrInvalidHandle.
type session struct {
	ctx backend.Context
}

// lookup resolves a handle to its live session.
func (r *Runtime) lookup(h uint64) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return s, nil
}

// SessionCount reports the number of live sessions.
func (r *Runtime) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
