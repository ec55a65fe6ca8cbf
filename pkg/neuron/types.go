package neuron

// Runtime is an opaque session handle. Zero is never a valid handle; the
// original runtime used raw pointers here, which an integer-keyed registry
// replaces without changing the calling pattern.
type Runtime uint64

// Priority levels accepted by the QoS surface.
type Priority int

const (
	PriorityLow  Priority = 0
	PriorityMed  Priority = 1
	PriorityHigh Priority = 2
)

// QoSOptions mirrors the vendor structure. The shim accepts it and
// reports success without behavioral effect: priority, boost and deadline
// semantics are not portable across engines, so pretending to honor them
// would be worse than documented inertness.
type QoSOptions struct {
	Priority   Priority
	BoostValue uint32 // 0..100, frequency-scaling hint
	AbortTime  uint64 // ns, 0 = no abort; accepted, not enforced
	Deadline   uint64 // ns, 0 = no deadline; accepted, not enforced

	ProfiledQoSData []byte
}

// SuppressFeature flags from the vendor config; the shim ignores them.
type SuppressFeature uint32

const (
	SuppressNone SuppressFeature = 0
	SuppressMDLA SuppressFeature = 1 << 0
	SuppressVPU  SuppressFeature = 1 << 1
)

// RuntimeConfig mirrors the vendor creation config. Both fields are
// accepted and ignored: hardware suppression has no meaning when there is
// no vendor hardware underneath.
type RuntimeConfig struct {
	Flags    uint32
	Suppress SuppressFeature
}

// TensorInfo describes one input or output tensor. The shim populates
// SizeBytes and zeroes the rest, exactly as the original did: none of the
// supported engines expose vendor quantization parameters through this
// path.
type TensorInfo struct {
	Dimensions     [8]uint32
	DimensionCount uint32
	Type           uint32 // 0 = float32, 1 = uint8, 2 = int8, ...
	Scale          float32
	ZeroPoint      int32
	SizeBytes      uint
}
