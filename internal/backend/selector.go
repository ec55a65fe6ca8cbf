package backend

import "neuroshim/internal/logging"

// autoPriority is the probe order for auto-detection: the accelerator-aware
// engine first, the CPU-portable engine second. The stub is not probed; it
// is the unconditional fallback.
var autoPriority = []string{"onnx", "tflite"}

// Select returns exactly one backend. An empty name (or "auto") triggers
// auto-detection. An unrecognized name logs a warning and falls through to
// auto-detection rather than failing: the shim must never refuse to start.
func Select(name string) Backend {
	log := logging.For("selector")

	if name != "" && name != "auto" {
		if b, ok := Lookup(name); ok {
			log.Info().Str("backend", name).Msg("backend selected explicitly")
			return b
		}
		log.Warn().Str("backend", name).Msg("unknown backend, falling back to auto-detection")
	}

	for _, candidate := range autoPriority {
		b, ok := Lookup(candidate)
		if !ok {
			continue // not compiled in
		}
		if b.Probe() {
			log.Info().Str("backend", candidate).Msg("backend auto-selected")
			return b
		}
	}

	log.Info().Msg("no engine runtime found, using stub backend")
	stub, ok := Lookup("stub")
	if !ok {
		// The stub registers unconditionally; reaching here means the
		// registry was tampered with.
		panic("backend: stub backend not registered")
	}
	return stub
}
