package config

// Config holds the process-wide shim settings. It is built once at first
// API use and never mutated afterward; a fresh process re-derives it.
type Config struct {
	Backend  string `json:"backend" yaml:"backend" toml:"backend"`       // auto | onnx | tflite | stub
	Suffix   string `json:"suffix" yaml:"suffix" toml:"suffix"`          // auto | .onnx | .tflite | ...
	ModelDir string `json:"model_dir" yaml:"model_dir" toml:"model_dir"` // empty = keep original path
	Threads  int    `json:"threads" yaml:"threads" toml:"threads"`
	ForceCPU bool   `json:"force_cpu" yaml:"force_cpu" toml:"force_cpu"`
	LogLevel int    `json:"log_level" yaml:"log_level" toml:"log_level"` // 0=off 1=err 2=warn 3=info 4=debug
	DiagAddr string `json:"diag_addr" yaml:"diag_addr" toml:"diag_addr"` // empty = diagnostics endpoint disabled
}

// Defaults returns the compiled-in configuration.
func Defaults() Config {
	return Config{
		Backend:  "auto",
		Suffix:   "auto",
		ModelDir: "",
		Threads:  4,
		ForceCPU: false,
		LogLevel: 3,
		DiagAddr: "",
	}
}

// ResolvedSuffix returns the model-file suffix to append during path
// resolution. An explicit suffix always wins; "auto" derives it from the
// configured backend: tflite models end in .tflite, every other backend
// name (onnx, auto, stub, unknown) uses .onnx.
func (c Config) ResolvedSuffix() string {
	if c.Suffix != "auto" {
		return c.Suffix
	}
	if c.Backend == "tflite" {
		return ".tflite"
	}
	return ".onnx"
}
