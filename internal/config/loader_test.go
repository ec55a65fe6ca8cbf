package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Backend != "auto" || cfg.Suffix != "auto" || cfg.ModelDir != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Threads != 4 || cfg.ForceCPU || cfg.LogLevel != 3 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestApplyConfFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "neuron-shim.conf", `
# comment line
backend = tflite
suffix=.custom
model_dir = /opt/models
threads = 8
force_cpu = true
log_level = 4

not_a_kv_line
unknown_key = whatever
`)
	cfg := Defaults()
	applyConfFile(&cfg, p)
	if cfg.Backend != "tflite" || cfg.Suffix != ".custom" || cfg.ModelDir != "/opt/models" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Threads != 8 || !cfg.ForceCPU || cfg.LogLevel != 4 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestApplyConfFileMissing(t *testing.T) {
	cfg := Defaults()
	applyConfFile(&cfg, filepath.Join(t.TempDir(), "nope.conf"))
	if cfg != Defaults() {
		t.Fatalf("missing file must leave config untouched: %+v", cfg)
	}
}

func TestConfFileValueIsFirstToken(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "c.conf", "model_dir = /opt/models trailing junk\n")
	cfg := Defaults()
	applyConfFile(&cfg, p)
	if cfg.ModelDir != "/opt/models" {
		t.Fatalf("want first token only, got %q", cfg.ModelDir)
	}
}

func TestIntParseFailureBecomesZero(t *testing.T) {
	// Documented quirk inherited from the vendor runtime: unparseable
	// integers become 0, not the prior value.
	d := t.TempDir()
	p := writeTempFile(t, d, "c.conf", "threads = lots\nlog_level = verbose\n")
	cfg := Defaults()
	applyConfFile(&cfg, p)
	if cfg.Threads != 0 || cfg.LogLevel != 0 {
		t.Fatalf("want zeroed ints, got threads=%d log_level=%d", cfg.Threads, cfg.LogLevel)
	}
}

func TestForceCPUTokens(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", false},
		{"TRUE", false},
		{"0", false},
	} {
		cfg := Defaults()
		applyKey(&cfg, "force_cpu", tc.value)
		if cfg.ForceCPU != tc.want {
			t.Errorf("force_cpu=%q: got %v want %v", tc.value, cfg.ForceCPU, tc.want)
		}
	}
}

func TestEnvOverridesEverything(t *testing.T) {
	t.Setenv(EnvBackend, "stub")
	t.Setenv(EnvSuffix, ".tflite")
	t.Setenv(EnvModelDir, "/env/models")
	t.Setenv(EnvThreads, "2")
	t.Setenv(EnvLogLevel, "1")
	cfg := Defaults()
	cfg.Backend = "onnx" // pretend a file set these
	cfg.ModelDir = "/file/models"
	applyEnv(&cfg)
	if cfg.Backend != "stub" || cfg.Suffix != ".tflite" || cfg.ModelDir != "/env/models" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Threads != 2 || cfg.LogLevel != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestEnvForceCPUOnlyHonorsOne(t *testing.T) {
	// Env parsing is stricter than the file key: only "1" enables it.
	t.Setenv(EnvForceCPU, "true")
	cfg := Defaults()
	applyEnv(&cfg)
	if cfg.ForceCPU {
		t.Fatalf("env force_cpu=true must not enable the flag")
	}
	t.Setenv(EnvForceCPU, "1")
	applyEnv(&cfg)
	if !cfg.ForceCPU {
		t.Fatalf("env force_cpu=1 must enable the flag")
	}
}

func TestStructuredFilePartialOverride(t *testing.T) {
	d := t.TempDir()
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"cfg.yaml", "backend: tflite\nthreads: 6\n"},
		{"cfg.json", `{"backend":"tflite","threads":6}`},
		{"cfg.toml", "backend = \"tflite\"\nthreads = 6\n"},
	} {
		p := writeTempFile(t, d, tc.name, tc.content)
		cfg := Defaults()
		cfg.ModelDir = "/keep/me"
		if err := applyStructuredFile(&cfg, p); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if cfg.Backend != "tflite" || cfg.Threads != 6 {
			t.Fatalf("%s: unexpected cfg: %+v", tc.name, cfg)
		}
		if cfg.ModelDir != "/keep/me" || cfg.LogLevel != 3 {
			t.Fatalf("%s: undefined keys must not be overridden: %+v", tc.name, cfg)
		}
	}
}

func TestStructuredFileUnsupportedExtension(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.ini", "backend=stub")
	cfg := Defaults()
	if err := applyStructuredFile(&cfg, p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadEndToEnd(t *testing.T) {
	d := t.TempDir()
	structured := writeTempFile(t, d, "cfg.yaml", "threads: 9\nmodel_dir: /structured\n")
	t.Setenv(EnvConfig, structured)
	t.Setenv(EnvModelDir, "/env/wins")
	cfg := Load()
	if cfg.Threads != 9 {
		t.Fatalf("structured file should set threads: %+v", cfg)
	}
	if cfg.ModelDir != "/env/wins" {
		t.Fatalf("env must win over structured file: %+v", cfg)
	}
}

func TestLoadIgnoresBrokenStructuredFile(t *testing.T) {
	// An unreadable NEURON_SHIM_CONFIG file is logged and skipped; the
	// rest of the chain still applies.
	d := t.TempDir()
	broken := writeTempFile(t, d, "cfg.yaml", "{backend: unclosed")
	t.Setenv(EnvConfig, broken)
	t.Setenv(EnvThreads, "5")
	cfg := Load()
	if cfg.Threads != 5 {
		t.Fatalf("env must still apply after a broken config file: %+v", cfg)
	}
	if cfg.Suffix != "auto" {
		t.Fatalf("broken file must not alter defaults: %+v", cfg)
	}
}

func TestResolvedSuffix(t *testing.T) {
	for _, tc := range []struct {
		backend, suffix, want string
	}{
		{"onnx", "auto", ".onnx"},
		{"tflite", "auto", ".tflite"},
		{"stub", "auto", ".onnx"},
		{"auto", "auto", ".onnx"},
		{"tflite", ".onnx", ".onnx"},
		{"onnx", ".custom", ".custom"},
	} {
		cfg := Config{Backend: tc.backend, Suffix: tc.suffix}
		if got := cfg.ResolvedSuffix(); got != tc.want {
			t.Errorf("backend=%s suffix=%s: got %s want %s", tc.backend, tc.suffix, got, tc.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := expandHome("~/models")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "models") {
		t.Fatalf("got %q", got)
	}
	if got, _ := expandHome("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path must pass through, got %q", got)
	}
}
