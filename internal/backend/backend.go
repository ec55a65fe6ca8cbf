// Package backend defines the capability contract every inference engine
// must satisfy, plus the registry and the selection algorithm that picks
// exactly one engine per process. The shim core depends only on these
// interfaces, never on a concrete engine API.
package backend

// Options carries the per-context tunables an engine may honor.
type Options struct {
	Threads  int
	ForceCPU bool
}

// Backend is a stateless, named engine descriptor. All mutable state lives
// in the Context it creates.
type Backend interface {
	// Name is the identifier used for explicit selection ("onnx",
	// "tflite", "stub").
	Name() string

	// Probe reports whether the engine is usable on this host, without
	// allocating any engine state. It must be side-effect free.
	Probe() bool

	// New allocates an engine-private context.
	New(opts Options) (Context, error)
}

// Context is the capability set the shim core needs from a live engine
// instance. A Context belongs to exactly one session and is never shared.
type Context interface {
	Close() error

	LoadFile(path string) error
	LoadBuffer(buf []byte) error

	InputCount() (int, error)
	OutputCount() (int, error)
	InputSize(index int) (int, error)
	OutputSize(index int) (int, error)

	// SetInput and SetOutput record caller-owned buffers for one tensor
	// slot. The engine decides when data is copied; buffers must stay
	// valid until the invocation that uses them returns.
	SetInput(index int, buf []byte) error
	SetOutput(index int, buf []byte) error

	// Invoke runs inference synchronously and writes results into the
	// previously bound output buffers before returning.
	Invoke() error
}
