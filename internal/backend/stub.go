package backend

import (
	"fmt"

	"github.com/rs/zerolog"

	"neuroshim/internal/logging"
)

// The stub backend always works and computes nothing. It exists so the
// shim can keep the host application alive on machines with no inference
// engine at all, and so operators can trace which API calls, model files
// and I/O shapes an opaque application actually uses. Outputs are zeroed
// on every invocation, which reads as "no detections" to most models.

const (
	stubDefaultTensorSize = 1024
	stubMaxTensors        = 32
)

type stubBackend struct{}

func init() {
	Register(stubBackend{})
}

func (stubBackend) Name() string { return "stub" }

// Probe always succeeds: the stub has no dependencies.
func (stubBackend) Probe() bool { return true }

func (stubBackend) New(opts Options) (Context, error) {
	log := logging.For("stub")
	log.Info().Msg("stub backend context created, all calls are no-ops")
	return &stubContext{log: log}, nil
}

type stubBinding struct {
	size int
	buf  []byte
}

type stubContext struct {
	log zerolog.Logger

	modelDesc   string
	inputs      [stubMaxTensors]stubBinding
	outputs     [stubMaxTensors]stubBinding
	inputCount  int
	outputCount int
	invocations int
}

func (c *stubContext) Close() error {
	c.log.Info().Int("inferences", c.invocations).Str("model", c.modelDesc).
		Msg("stub backend context closed")
	return nil
}

func (c *stubContext) LoadFile(path string) error {
	c.modelDesc = path
	c.log.Info().Str("path", path).Msg("stub load")
	// One input, one output until binding calls reveal the real shape.
	c.inputCount = 1
	c.outputCount = 1
	return nil
}

func (c *stubContext) LoadBuffer(buf []byte) error {
	c.modelDesc = fmt.Sprintf("<buffer:%d bytes>", len(buf))
	c.log.Info().Int("bytes", len(buf)).Msg("stub load from buffer")
	c.inputCount = 1
	c.outputCount = 1
	return nil
}

func (c *stubContext) InputCount() (int, error) {
	if c.inputCount > 0 {
		return c.inputCount, nil
	}
	return 1, nil
}

func (c *stubContext) OutputCount() (int, error) {
	if c.outputCount > 0 {
		return c.outputCount, nil
	}
	return 1, nil
}

func (c *stubContext) InputSize(index int) (int, error) {
	if index >= 0 && index < stubMaxTensors && c.inputs[index].size > 0 {
		return c.inputs[index].size, nil
	}
	return stubDefaultTensorSize, nil
}

func (c *stubContext) OutputSize(index int) (int, error) {
	if index >= 0 && index < stubMaxTensors && c.outputs[index].size > 0 {
		return c.outputs[index].size, nil
	}
	return stubDefaultTensorSize, nil
}

func (c *stubContext) SetInput(index int, buf []byte) error {
	if index < 0 || index >= stubMaxTensors {
		return fmt.Errorf("stub: input index %d out of range", index)
	}
	c.inputs[index] = stubBinding{size: len(buf), buf: buf}
	if index >= c.inputCount {
		c.inputCount = index + 1
	}
	c.log.Debug().Int("index", index).Int("bytes", len(buf)).Msg("stub set input")
	return nil
}

func (c *stubContext) SetOutput(index int, buf []byte) error {
	if index < 0 || index >= stubMaxTensors {
		return fmt.Errorf("stub: output index %d out of range", index)
	}
	c.outputs[index] = stubBinding{size: len(buf), buf: buf}
	if index >= c.outputCount {
		c.outputCount = index + 1
	}
	c.log.Debug().Int("index", index).Int("bytes", len(buf)).Msg("stub set output")
	return nil
}

func (c *stubContext) Invoke() error {
	c.invocations++
	for i := 0; i < c.outputCount && i < stubMaxTensors; i++ {
		if b := c.outputs[i].buf; len(b) > 0 {
			clear(b)
		}
	}
	// Log the first few invocations, then sample: the stub often sits in
	// a camera loop running many inferences per second.
	if c.invocations <= 5 || c.invocations%100 == 0 {
		c.log.Info().Int("n", c.invocations).Msg("stub inference, outputs zeroed")
	}
	return nil
}
