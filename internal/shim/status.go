package shim

import "neuroshim/internal/diag"

// Status implements diag.StatusProvider.
func (r *Runtime) Status() diag.Status {
	return diag.Status{
		Backend:        r.backend.Name(),
		Suffix:         r.suffix,
		ModelDir:       r.cfg.ModelDir,
		Threads:        r.cfg.Threads,
		ForceCPU:       r.cfg.ForceCPU,
		ActiveSessions: r.SessionCount(),
		Inferences:     r.inferences.Load(),
	}
}
