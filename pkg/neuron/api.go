// Package neuron is a drop-in replacement for the MediaTek Neuron Runtime
// API. Applications written against NeuronRuntime_* keep their calling
// pattern; underneath, every call is redirected to one of several
// interchangeable inference backends selected once per process.
//
// The first lifecycle call triggers process-wide initialization exactly
// once: configuration is resolved (files, then environment), a backend is
// selected (explicit name or capability auto-detection, with a no-op stub
// as the guaranteed fallback), and the model suffix is fixed. Nothing in
// this package is ever fatal to the host process.
package neuron

import (
	"errors"

	"neuroshim/internal/resolver"
	"neuroshim/internal/shim"
)

// codeFor converts internal errors into the vendor result vocabulary.
// This is the only place that mapping happens; nothing error-shaped
// crosses the public surface.
func codeFor(err error) Error {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, shim.ErrInvalidHandle):
		return UnexpectedNull
	case resolver.IsNotFound(err):
		return BadData
	default:
		return OpFailed
	}
}

// Create allocates a new runtime session. The config is accepted for
// compatibility and ignored. On failure no session exists.
func Create(cfg *RuntimeConfig) (Runtime, Error) {
	_ = cfg
	h, err := shim.Default().Create()
	return Runtime(h), codeFor(err)
}

// Release destroys the session. The handle is invalid afterward; releasing
// it again is a caller error reported as UnexpectedNull.
func Release(rt Runtime) Error {
	return codeFor(shim.Default().Release(uint64(rt)))
}

// LoadNetworkFromFile resolves the application's model path to a converted
// artifact and loads it. A missing artifact returns BadData and leaves the
// backend untouched.
func LoadNetworkFromFile(rt Runtime, path string) Error {
	return codeFor(shim.Default().LoadFile(uint64(rt), path))
}

// LoadNetworkFromBuffer loads an in-memory model directly, bypassing path
// resolution.
func LoadNetworkFromBuffer(rt Runtime, buf []byte) Error {
	if buf == nil {
		return UnexpectedNull
	}
	return codeFor(shim.Default().LoadBuffer(uint64(rt), buf))
}

// SetInput binds a caller-owned buffer to an input slot. The buffer must
// stay valid until the invocation that consumes it returns. The padding
// argument is accepted for compatibility and ignored.
func SetInput(rt Runtime, index int, buf []byte, padding int) Error {
	_ = padding
	return codeFor(shim.Default().SetInput(uint64(rt), index, buf))
}

// SetOutput binds a caller-owned buffer to an output slot; inference
// results are written into it by Inference.
func SetOutput(rt Runtime, index int, buf []byte, padding int) Error {
	_ = padding
	return codeFor(shim.Default().SetOutput(uint64(rt), index, buf))
}

// GetInputCount reports the number of model inputs.
func GetInputCount(rt Runtime) (uint32, Error) {
	n, err := shim.Default().InputCount(uint64(rt))
	return uint32(n), codeFor(err)
}

// GetOutputCount reports the number of model outputs.
func GetOutputCount(rt Runtime) (uint32, Error) {
	n, err := shim.Default().OutputCount(uint64(rt))
	return uint32(n), codeFor(err)
}

// GetInputSize reports the required byte size of one input.
func GetInputSize(rt Runtime, index int) (uint, Error) {
	n, err := shim.Default().InputSize(uint64(rt), index)
	return uint(n), codeFor(err)
}

// GetOutputSize reports the byte size of one output.
func GetOutputSize(rt Runtime, index int) (uint, Error) {
	n, err := shim.Default().OutputSize(uint64(rt), index)
	return uint(n), codeFor(err)
}

// GetInputInfo fills a TensorInfo for one input. Only SizeBytes is
// populated.
func GetInputInfo(rt Runtime, index int) (TensorInfo, Error) {
	var info TensorInfo
	n, err := shim.Default().InputSize(uint64(rt), index)
	if err != nil {
		return info, codeFor(err)
	}
	info.SizeBytes = uint(n)
	return info, NoError
}

// GetOutputInfo fills a TensorInfo for one output. Only SizeBytes is
// populated.
func GetOutputInfo(rt Runtime, index int) (TensorInfo, Error) {
	var info TensorInfo
	n, err := shim.Default().OutputSize(uint64(rt), index)
	if err != nil {
		return info, codeFor(err)
	}
	info.SizeBytes = uint(n)
	return info, NoError
}

// Inference runs the model synchronously on the bound I/O. The active
// backend writes into the bound output buffers before this returns.
func Inference(rt Runtime) Error {
	return codeFor(shim.Default().Invoke(uint64(rt)))
}

// SetQoSOption accepts QoS settings and succeeds without effect.
func SetQoSOption(rt Runtime, qos *QoSOptions) Error {
	_, _ = rt, qos
	return NoError
}

// GetProfiledQoSData reports an empty profile; the shim gathers none.
func GetProfiledQoSData(rt Runtime) (QoSOptions, Error) {
	_ = rt
	return QoSOptions{}, NoError
}
