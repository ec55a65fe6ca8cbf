package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"neuroshim/internal/logging"
)

// Configuration sources, lowest priority first. Each later source only
// overrides the keys it actually defines:
//
//  1. compiled-in defaults
//  2. /etc/neuron-shim.conf
//  3. ./neuron-shim.conf
//  4. structured file named by NEURON_SHIM_CONFIG (.yaml/.yml/.json/.toml)
//  5. NEURON_SHIM_* environment variables
const (
	SystemConfPath = "/etc/neuron-shim.conf"
	LocalConfPath  = "./neuron-shim.conf"

	EnvBackend  = "NEURON_SHIM_BACKEND"
	EnvSuffix   = "NEURON_SHIM_SUFFIX"
	EnvModelDir = "NEURON_SHIM_MODEL_DIR"
	EnvThreads  = "NEURON_SHIM_NUM_THREADS"
	EnvForceCPU = "NEURON_SHIM_FORCE_CPU"
	EnvLogLevel = "NEURON_SHIM_LOG_LEVEL"
	EnvConfig   = "NEURON_SHIM_CONFIG"
	EnvDiagAddr = "NEURON_SHIM_DIAG_ADDR"
)

// Load builds the configuration snapshot from all sources. Missing files
// are not an error; they are skipped silently.
func Load() Config {
	cfg := Defaults()
	applyConfFile(&cfg, SystemConfPath)
	applyConfFile(&cfg, LocalConfPath)
	if p := os.Getenv(EnvConfig); p != "" {
		if err := applyStructuredFile(&cfg, p); err != nil {
			log := logging.For("config")
			log.Warn().Str("path", p).Err(err).Msg("config file ignored")
		}
	}
	applyEnv(&cfg)
	if dir, err := expandHome(cfg.ModelDir); err == nil {
		cfg.ModelDir = dir
	}
	return cfg
}

// applyConfFile merges a `key = value` file into cfg. Blank lines and lines
// starting with '#' are skipped; malformed lines and unknown keys are
// ignored so old shims keep working with newer files.
func applyConfFile(cfg *Config, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := firstToken(line[eq+1:])
		if key == "" || value == "" {
			continue
		}
		applyKey(cfg, key, value)
	}
}

// firstToken mimics the original parser: the value is the first
// whitespace-delimited token after the '='.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func applyKey(cfg *Config, key, value string) {
	switch key {
	case "backend":
		cfg.Backend = value
	case "suffix":
		cfg.Suffix = value
	case "model_dir":
		cfg.ModelDir = value
	case "threads":
		cfg.Threads = atoi(value)
	case "force_cpu":
		cfg.ForceCPU = value == "true" || value == "1"
	case "log_level":
		cfg.LogLevel = atoi(value)
	case "diag_addr":
		cfg.DiagAddr = value
	}
	// Unknown keys ignored: forward compatible.
}

// fileConfig mirrors Config with pointer fields so a structured file only
// overrides the keys it defines.
type fileConfig struct {
	Backend  *string `json:"backend" yaml:"backend" toml:"backend"`
	Suffix   *string `json:"suffix" yaml:"suffix" toml:"suffix"`
	ModelDir *string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	Threads  *int    `json:"threads" yaml:"threads" toml:"threads"`
	ForceCPU *bool   `json:"force_cpu" yaml:"force_cpu" toml:"force_cpu"`
	LogLevel *int    `json:"log_level" yaml:"log_level" toml:"log_level"`
	DiagAddr *string `json:"diag_addr" yaml:"diag_addr" toml:"diag_addr"`
}

// applyStructuredFile merges a yaml/json/toml file selected by extension.
func applyStructuredFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return err
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &fc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	if fc.Backend != nil {
		cfg.Backend = *fc.Backend
	}
	if fc.Suffix != nil {
		cfg.Suffix = *fc.Suffix
	}
	if fc.ModelDir != nil {
		cfg.ModelDir = *fc.ModelDir
	}
	if fc.Threads != nil {
		cfg.Threads = *fc.Threads
	}
	if fc.ForceCPU != nil {
		cfg.ForceCPU = *fc.ForceCPU
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.DiagAddr != nil {
		cfg.DiagAddr = *fc.DiagAddr
	}
	return nil
}

// applyEnv merges NEURON_SHIM_* variables; they win over every file source.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvSuffix); v != "" {
		cfg.Suffix = v
	}
	if v := os.Getenv(EnvModelDir); v != "" {
		cfg.ModelDir = v
	}
	if v := os.Getenv(EnvThreads); v != "" {
		cfg.Threads = atoi(v)
	}
	if v := os.Getenv(EnvForceCPU); v != "" {
		// The original only honored "1" here, unlike the file key.
		cfg.ForceCPU = v == "1"
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = atoi(v)
	}
	if v := os.Getenv(EnvDiagAddr); v != "" {
		cfg.DiagAddr = v
	}
}

// atoi keeps the vendor runtime's quirk: a value that fails to parse
// becomes 0, not the previous value. Downstream consumers rely on it.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
