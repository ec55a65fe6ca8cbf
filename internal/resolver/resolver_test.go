package resolver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCandidateNoRedirect(t *testing.T) {
	for _, tc := range []struct {
		path, suffix, want string
	}{
		{"/models/m.dla", ".onnx", "/models/m.dla.onnx"},
		{"/usr/share/m.dla", ".tflite", "/usr/share/m.dla.tflite"},
		{"relative/m.dla", ".onnx", "relative/m.dla.onnx"},
	} {
		if got := Candidate(tc.path, tc.suffix, ""); got != tc.want {
			t.Errorf("Candidate(%q,%q,\"\") = %q, want %q", tc.path, tc.suffix, got, tc.want)
		}
	}
}

func TestCandidateRedirect(t *testing.T) {
	for _, tc := range []struct {
		path, suffix, dir, want string
	}{
		{"/usr/share/m.dla", ".tflite", "/opt/models", "/opt/models/m.dla.tflite"},
		{"/usr/share/m.dla", ".onnx", "/opt/models/", "/opt/models/m.dla.onnx"},
		{"m.dla", ".onnx", "/opt/models", "/opt/models/m.dla.onnx"},
	} {
		if got := Candidate(tc.path, tc.suffix, tc.dir); got != tc.want {
			t.Errorf("Candidate(%q,%q,%q) = %q, want %q", tc.path, tc.suffix, tc.dir, got, tc.want)
		}
	}
}

func TestCandidateIsPure(t *testing.T) {
	a := Candidate("/x/y.dla", ".onnx", "/opt")
	b := Candidate("/x/y.dla", ".onnx", "/opt")
	if a != b {
		t.Fatalf("identical inputs must yield identical candidates: %q vs %q", a, b)
	}
}

func TestResolveExisting(t *testing.T) {
	d := t.TempDir()
	artifact := filepath.Join(d, "net.dla.onnx")
	if err := os.WriteFile(artifact, []byte("model"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Resolve(filepath.Join(d, "net.dla"), ".onnx", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != artifact {
		t.Fatalf("got %q want %q", got, artifact)
	}
}

func TestResolveRedirected(t *testing.T) {
	d := t.TempDir()
	artifact := filepath.Join(d, "net.dla.tflite")
	if err := os.WriteFile(artifact, []byte("model"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Resolve("/somewhere/else/net.dla", ".tflite", d)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != artifact {
		t.Fatalf("got %q want %q", got, artifact)
	}
}

func TestResolveMissingReportsDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()

	_, err := Resolve("/app/net.dla", ".onnx", "/opt/models")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("errors.As failed for %T", err)
	}
	if nf.OriginalPath != "/app/net.dla" || nf.Probed != "/opt/models/net.dla.onnx" {
		t.Fatalf("unexpected fields: %+v", nf)
	}
	out := buf.String()
	for _, want := range []string{
		"MODEL FILE NOT FOUND",
		"/app/net.dla",
		"/opt/models/net.dla.onnx",
		"model_dir is set to",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostic missing %q:\n%s", want, out)
		}
	}
}

func TestRemediationWithoutRedirectSuggestsModelDir(t *testing.T) {
	nf := &NotFoundError{OriginalPath: "/a/m.dla", Probed: "/a/m.dla.onnx", Suffix: ".onnx"}
	out := nf.Remediation()
	if !strings.Contains(out, "next to the original") {
		t.Fatalf("missing in-place hint:\n%s", out)
	}
	if !strings.Contains(out, "model_dir = /opt/models") {
		t.Fatalf("missing redirect hint:\n%s", out)
	}
}
