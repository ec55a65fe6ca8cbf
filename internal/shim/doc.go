// Package shim is the dispatch core behind the public NeuronRuntime
// surface. It is structured into small files by concern:
//
//   - runtime.go: process-scoped Runtime (config + selected backend),
//     one-time initialization guard, diagnostics endpoint startup.
//   - session.go: per-session state and the handle registry.
//   - ops.go: the operations the public surface delegates to.
//   - errors.go: error types the boundary maps to vendor result codes.
//   - status.go: read-only snapshot for the diagnostics endpoint.
//
// Everything interesting the shim decides happens here: which backend
// runs, where a model path really points, what a failure turns into.
// The engines behind the backend interface make no decisions of their own.
package shim
