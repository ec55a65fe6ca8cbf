package backend

import (
	"errors"
	"testing"
)

// Controllable fakes registered under the engine names. The real engine
// packages are not linked into this test binary, so the names are free.
var (
	fakeOnnxUsable   bool
	fakeTfliteUsable bool
)

type fakeBackend struct {
	name   string
	usable *bool
}

func (f fakeBackend) Name() string { return f.name }
func (f fakeBackend) Probe() bool  { return *f.usable }
func (f fakeBackend) New(opts Options) (Context, error) {
	return nil, errors.New("fake backend cannot create contexts")
}

func init() {
	Register(fakeBackend{name: "onnx", usable: &fakeOnnxUsable})
	Register(fakeBackend{name: "tflite", usable: &fakeTfliteUsable})
}

func TestSelectExplicitName(t *testing.T) {
	fakeOnnxUsable = false
	fakeTfliteUsable = true
	// Explicit selection does not probe: the operator asked for it.
	b := Select("onnx")
	if b.Name() != "onnx" {
		t.Fatalf("explicit selection returned %q", b.Name())
	}
}

func TestSelectExplicitStub(t *testing.T) {
	fakeOnnxUsable = true
	if b := Select("stub"); b.Name() != "stub" {
		t.Fatalf("got %q", b.Name())
	}
}

func TestSelectAutoPriority(t *testing.T) {
	fakeOnnxUsable = true
	fakeTfliteUsable = true
	if b := Select("auto"); b.Name() != "onnx" {
		t.Fatalf("auto with both usable should prefer onnx, got %q", b.Name())
	}
	fakeOnnxUsable = false
	if b := Select(""); b.Name() != "tflite" {
		t.Fatalf("auto should fall to tflite, got %q", b.Name())
	}
}

func TestSelectAutoAllProbesFail(t *testing.T) {
	fakeOnnxUsable = false
	fakeTfliteUsable = false
	b := Select("auto")
	if b.Name() != "stub" {
		t.Fatalf("selection must never fail; got %q", b.Name())
	}
}

func TestSelectUnknownNameFallsThrough(t *testing.T) {
	fakeOnnxUsable = false
	fakeTfliteUsable = false
	b := Select("neuropilot9000")
	if b.Name() != "stub" {
		t.Fatalf("unknown name must fall through to auto-detection, got %q", b.Name())
	}
}

func TestRegistry(t *testing.T) {
	if _, ok := Lookup("stub"); !ok {
		t.Fatal("stub must always be registered")
	}
	names := Names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"onnx", "stub", "tflite"} {
		if !seen[want] {
			t.Errorf("Names() missing %q: %v", want, names)
		}
	}
}
