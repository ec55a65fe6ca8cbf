//go:build tflite

package tflite

import (
	"fmt"

	"github.com/mattn/go-tflite"
	"github.com/rs/zerolog"

	"neuroshim/internal/backend"
	"neuroshim/internal/logging"
)

const sharedLibrary = "libtensorflowlite_c.so"

func init() {
	backend.Register(tfliteBackend{})
}

type tfliteBackend struct{}

func (tfliteBackend) Name() string { return "tflite" }

func (tfliteBackend) Probe() bool {
	return backend.LibraryAvailable(sharedLibrary)
}

func (tfliteBackend) New(opts backend.Options) (backend.Context, error) {
	return &tfliteContext{opts: opts, log: logging.For("tflite")}, nil
}

type tfliteContext struct {
	opts backend.Options
	log  zerolog.Logger

	model       *tflite.Model
	interpreter *tflite.Interpreter

	inputBufs  map[int][]byte
	outputBufs map[int][]byte
}

func (c *tfliteContext) Close() error {
	if c.interpreter != nil {
		c.interpreter.Delete()
		c.interpreter = nil
	}
	if c.model != nil {
		c.model.Delete()
		c.model = nil
	}
	return nil
}

func (c *tfliteContext) LoadFile(path string) error {
	model := tflite.NewModelFromFile(path)
	if model == nil {
		return fmt.Errorf("tflite: cannot load model %s", path)
	}
	return c.buildInterpreter(model)
}

func (c *tfliteContext) LoadBuffer(buf []byte) error {
	model := tflite.NewModel(buf)
	if model == nil {
		return fmt.Errorf("tflite: cannot load model from %d-byte buffer", len(buf))
	}
	return c.buildInterpreter(model)
}

func (c *tfliteContext) buildInterpreter(model *tflite.Model) error {
	// Reload support: drop the previous interpreter and model first.
	if err := c.Close(); err != nil {
		model.Delete()
		return err
	}

	options := tflite.NewInterpreterOptions()
	defer options.Delete()
	if c.opts.Threads > 0 {
		options.SetNumThread(c.opts.Threads)
	}

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		model.Delete()
		return fmt.Errorf("tflite: cannot create interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		model.Delete()
		return fmt.Errorf("tflite: allocate tensors: status %d", status)
	}

	c.model = model
	c.interpreter = interpreter
	c.inputBufs = make(map[int][]byte)
	c.outputBufs = make(map[int][]byte)
	c.log.Debug().Int("inputs", interpreter.GetInputTensorCount()).
		Int("outputs", interpreter.GetOutputTensorCount()).Msg("tflite model loaded")
	return nil
}

func (c *tfliteContext) requireModel() error {
	if c.interpreter == nil {
		return fmt.Errorf("tflite: no model loaded")
	}
	return nil
}

func (c *tfliteContext) InputCount() (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	return c.interpreter.GetInputTensorCount(), nil
}

func (c *tfliteContext) OutputCount() (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	return c.interpreter.GetOutputTensorCount(), nil
}

func (c *tfliteContext) InputSize(index int) (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	if index < 0 || index >= c.interpreter.GetInputTensorCount() {
		return 0, fmt.Errorf("tflite: input index %d out of range", index)
	}
	return int(c.interpreter.GetInputTensor(index).ByteSize()), nil
}

func (c *tfliteContext) OutputSize(index int) (int, error) {
	if err := c.requireModel(); err != nil {
		return 0, err
	}
	if index < 0 || index >= c.interpreter.GetOutputTensorCount() {
		return 0, fmt.Errorf("tflite: output index %d out of range", index)
	}
	return int(c.interpreter.GetOutputTensor(index).ByteSize()), nil
}

func (c *tfliteContext) SetInput(index int, buf []byte) error {
	if err := c.requireModel(); err != nil {
		return err
	}
	if index < 0 || index >= c.interpreter.GetInputTensorCount() {
		return fmt.Errorf("tflite: input index %d out of range", index)
	}
	c.inputBufs[index] = buf
	return nil
}

func (c *tfliteContext) SetOutput(index int, buf []byte) error {
	if err := c.requireModel(); err != nil {
		return err
	}
	if index < 0 || index >= c.interpreter.GetOutputTensorCount() {
		return fmt.Errorf("tflite: output index %d out of range", index)
	}
	c.outputBufs[index] = buf
	return nil
}

// Invoke copies bound inputs into the interpreter's tensors, runs the
// graph, and copies results back out into the bound output buffers. Copy
// timing at invocation is this engine's contract.
func (c *tfliteContext) Invoke() error {
	if err := c.requireModel(); err != nil {
		return err
	}
	for i, buf := range c.inputBufs {
		tensor := c.interpreter.GetInputTensor(i)
		if tensor == nil {
			return fmt.Errorf("tflite: input tensor %d missing", i)
		}
		if status := tensor.CopyFromBuffer(buf); status != tflite.OK {
			return fmt.Errorf("tflite: copy input %d: status %d", i, status)
		}
	}
	if status := c.interpreter.Invoke(); status != tflite.OK {
		return fmt.Errorf("tflite: invoke: status %d", status)
	}
	for i, buf := range c.outputBufs {
		tensor := c.interpreter.GetOutputTensor(i)
		if tensor == nil {
			return fmt.Errorf("tflite: output tensor %d missing", i)
		}
		if status := tensor.CopyToBuffer(buf); status != tflite.OK {
			return fmt.Errorf("tflite: copy output %d: status %d", i, status)
		}
	}
	return nil
}
