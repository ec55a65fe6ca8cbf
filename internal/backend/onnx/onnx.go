//go:build onnx

package onnx

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	ort "github.com/yalue/onnxruntime_go"

	"neuroshim/internal/backend"
	"neuroshim/internal/logging"
)

const sharedLibrary = "libonnxruntime.so"

func init() {
	backend.Register(onnxBackend{})
}

type onnxBackend struct{}

func (onnxBackend) Name() string { return "onnx" }

// Probe checks for the ORT shared library without initializing the ORT
// environment; initialization happens lazily on first context creation.
func (onnxBackend) Probe() bool {
	return backend.LibraryAvailable(sharedLibrary)
}

var (
	envOnce sync.Once
	envErr  error
)

func initEnvironment() error {
	envOnce.Do(func() {
		if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		} else {
			ort.SetSharedLibraryPath(sharedLibrary)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

func (onnxBackend) New(opts backend.Options) (backend.Context, error) {
	if err := initEnvironment(); err != nil {
		return nil, fmt.Errorf("onnx: init environment: %w", err)
	}
	return &onnxContext{opts: opts, log: logging.For("onnx")}, nil
}

type tensorMeta struct {
	name  string
	shape ort.Shape
	dtype ort.TensorElementDataType
	bytes int
}

type onnxContext struct {
	opts backend.Options
	log  zerolog.Logger

	session *ort.DynamicAdvancedSession
	inputs  []tensorMeta
	outputs []tensorMeta

	inputBufs  map[int][]byte
	outputBufs map[int][]byte
}

func (c *onnxContext) Close() error {
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return err
		}
		c.session = nil
	}
	return nil
}

func (c *onnxContext) LoadFile(path string) error {
	ins, outs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return fmt.Errorf("onnx: inspect %s: %w", path, err)
	}
	return c.openSession(ins, outs, func(inNames, outNames []string, so *ort.SessionOptions) (*ort.DynamicAdvancedSession, error) {
		return ort.NewDynamicAdvancedSession(path, inNames, outNames, so)
	})
}

func (c *onnxContext) LoadBuffer(buf []byte) error {
	ins, outs, err := ort.GetInputOutputInfoWithONNXData(buf)
	if err != nil {
		return fmt.Errorf("onnx: inspect buffer: %w", err)
	}
	return c.openSession(ins, outs, func(inNames, outNames []string, so *ort.SessionOptions) (*ort.DynamicAdvancedSession, error) {
		return ort.NewDynamicAdvancedSessionWithONNXData(buf, inNames, outNames, so)
	})
}

func (c *onnxContext) openSession(ins, outs []ort.InputOutputInfo,
	open func(inNames, outNames []string, so *ort.SessionOptions) (*ort.DynamicAdvancedSession, error)) error {
	// Reload support: drop the previous session first.
	if err := c.Close(); err != nil {
		return err
	}

	so, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("onnx: session options: %w", err)
	}
	defer so.Destroy()
	if c.opts.Threads > 0 {
		if err := so.SetIntraOpNumThreads(c.opts.Threads); err != nil {
			return fmt.Errorf("onnx: set threads: %w", err)
		}
	}
	if !c.opts.ForceCPU {
		// Best effort: ORT falls back to CPU when no GPU provider loads.
		cudaOpts, cudaErr := ort.NewCUDAProviderOptions()
		if cudaErr == nil {
			if err := so.AppendExecutionProviderCUDA(cudaOpts); err == nil {
				defer cudaOpts.Destroy()
			} else {
				cudaOpts.Destroy()
			}
		}
	}

	c.inputs = describe(ins)
	c.outputs = describe(outs)
	inNames := names(c.inputs)
	outNames := names(c.outputs)

	session, err := open(inNames, outNames, so)
	if err != nil {
		return fmt.Errorf("onnx: open session: %w", err)
	}
	c.session = session
	c.inputBufs = make(map[int][]byte)
	c.outputBufs = make(map[int][]byte)
	c.log.Debug().Int("inputs", len(c.inputs)).Int("outputs", len(c.outputs)).
		Msg("onnx session opened")
	return nil
}

func describe(infos []ort.InputOutputInfo) []tensorMeta {
	metas := make([]tensorMeta, len(infos))
	for i, info := range infos {
		metas[i] = tensorMeta{
			name:  info.Name,
			shape: info.Dimensions.Clone(),
			dtype: info.DataType,
			bytes: byteSize(info.Dimensions, info.DataType),
		}
	}
	return metas
}

func names(metas []tensorMeta) []string {
	out := make([]string, len(metas))
	for i, m := range metas {
		out[i] = m.name
	}
	return out
}

// byteSize computes the total tensor size; dynamic dimensions (reported
// as -1) are treated as 1, which matches fixed-shape vision models after
// conversion.
func byteSize(shape ort.Shape, dtype ort.TensorElementDataType) int {
	total := elementSize(dtype)
	for _, d := range shape {
		if d > 0 {
			total *= int(d)
		}
	}
	return total
}

func elementSize(dtype ort.TensorElementDataType) int {
	switch dtype {
	case ort.TensorElementDataTypeUint8, ort.TensorElementDataTypeInt8, ort.TensorElementDataTypeBool:
		return 1
	case ort.TensorElementDataTypeUint16, ort.TensorElementDataTypeInt16, ort.TensorElementDataTypeFloat16:
		return 2
	case ort.TensorElementDataTypeInt64, ort.TensorElementDataTypeUint64, ort.TensorElementDataTypeDouble:
		return 8
	default:
		return 4
	}
}

func (c *onnxContext) requireModel() error {
	if c.session == nil {
		return fmt.Errorf("onnx: no model loaded")
	}
	return nil
}

func (c *onnxContext) InputCount() (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	return len(c.inputs), nil
}

func (c *onnxContext) OutputCount() (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	return len(c.outputs), nil
}

func (c *onnxContext) InputSize(index int) (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	if index < 0 || index >= len(c.inputs) {
		return 0, fmt.Errorf("onnx: input index %d out of range", index)
	}
	return c.inputs[index].bytes, nil
}

func (c *onnxContext) OutputSize(index int) (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	if index < 0 || index >= len(c.outputs) {
		return 0, fmt.Errorf("onnx: output index %d out of range", index)
	}
	return c.outputs[index].bytes, nil
}

func (c *onnxContext) SetInput(index int, buf []byte) error {
	if err := c.requireModel(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.inputs) {
		return fmt.Errorf("onnx: input index %d out of range", index)
	}
	c.inputBufs[index] = buf
	return nil
}

func (c *onnxContext) SetOutput(index int, buf []byte) error {
	if err := c.requireModel(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.outputs) {
		return fmt.Errorf("onnx: output index %d out of range", index)
	}
	c.outputBufs[index] = buf
	return nil
}

func (c *onnxContext) Invoke() error {
	if err := c.requireModel(); err != nil {
		return err
	}
	inputs := make([]ort.Value, len(c.inputs))
	outputs := make([]ort.Value, len(c.outputs))
	defer func() {
		for _, v := range inputs {
			if v != nil {
				v.Destroy()
			}
		}
		for _, v := range outputs {
			if v != nil {
				v.Destroy()
			}
		}
	}()

	for i, meta := range c.inputs {
		buf, ok := c.inputBufs[i]
		if !ok {
			return fmt.Errorf("onnx: input %d not bound", i)
		}
		t, err := ort.NewCustomDataTensor(meta.shape, buf, meta.dtype)
		if err != nil {
			return fmt.Errorf("onnx: wrap input %d: %w", i, err)
		}
		inputs[i] = t
	}
	for i, meta := range c.outputs {
		buf, ok := c.outputBufs[i]
		if !ok {
			return fmt.Errorf("onnx: output %d not bound", i)
		}
		// CustomDataTensor aliases the caller's buffer, so ORT writes
		// results directly into it.
		t, err := ort.NewCustomDataTensor(meta.shape, buf, meta.dtype)
		if err != nil {
			return fmt.Errorf("onnx: wrap output %d: %w", i, err)
		}
		outputs[i] = t
	}
	return c.session.Run(inputs, outputs)
}
