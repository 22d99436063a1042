// Package config loads todohl settings from .todohl.toml, .env and TODOHL_*
// environment variables. Precedence, lowest first: defaults, file, env, flags.
// Flags are applied by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"todohl/internal/logging"
	"todohl/internal/rank"
)

// FileName is the project configuration file looked up from the working directory upwards.
const FileName = ".todohl.toml"

// ErrNotFound is returned by Load when an explicitly requested file does not exist.
var ErrNotFound = errors.New("config file not found")

type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
	LSP    LSPConfig    `toml:"lsp"`

	// Path is the file the values came from; empty when only defaults apply.
	Path string `toml:"-"`
}

type ScanConfig struct {
	Extensions  []string `toml:"extensions"`
	Exclude     []string `toml:"exclude"`
	Jobs        int      `toml:"jobs"`
	MinBucket   string   `toml:"min_bucket"`
	MaxFindings int      `toml:"max_findings"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type LSPConfig struct {
	DebounceMS int    `toml:"debounce_ms"`
	CacheSize  int    `toml:"cache_size"`
	LogLevel   string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			MinBucket: "low",
		},
		Output: OutputConfig{
			Format: "pretty",
			Color:  "auto",
		},
		LSP: LSPConfig{
			DebounceMS: 300,
			CacheSize:  128,
			LogLevel:   "info",
		},
	}
}

// Debounce returns the LSP recompute delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.LSP.DebounceMS) * time.Millisecond
}

// MinBucket parses Scan.MinBucket.
func (c Config) MinBucket() rank.Bucket {
	b, err := rank.ParseBucket(c.Scan.MinBucket)
	if err != nil {
		return rank.Low
	}
	return b
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	if _, err := rank.ParseBucket(c.Scan.MinBucket); err != nil {
		return fmt.Errorf("scan.min_bucket: %w", err)
	}
	if c.Scan.Jobs < 0 {
		return fmt.Errorf("scan.jobs: must be >= 0, got %d", c.Scan.Jobs)
	}
	if c.Scan.MaxFindings < 0 {
		return fmt.Errorf("scan.max_findings: must be >= 0, got %d", c.Scan.MaxFindings)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("output.color: invalid value %q (expected auto|on|off)", c.Output.Color)
	}
	if c.LSP.DebounceMS < 0 {
		return fmt.Errorf("lsp.debounce_ms: must be >= 0, got %d", c.LSP.DebounceMS)
	}
	if c.LSP.CacheSize <= 0 {
		return fmt.Errorf("lsp.cache_size: must be > 0, got %d", c.LSP.CacheSize)
	}
	if _, err := logging.ParseLevel(c.LSP.LogLevel); err != nil {
		return fmt.Errorf("lsp.log_level: %w", err)
	}
	return nil
}

// Find walks from startDir to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of the defaults. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with TODOHL_* variables.
func ApplyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if v, ok := lookup("TODOHL_FORMAT"); ok && v != "" {
		cfg.Output.Format = v
	}
	if v, ok := lookup("TODOHL_COLOR"); ok && v != "" {
		cfg.Output.Color = v
	}
	if v, ok := lookup("TODOHL_MIN_BUCKET"); ok && v != "" {
		cfg.Scan.MinBucket = v
	}
	if v, ok := lookup("TODOHL_LOG_LEVEL"); ok && v != "" {
		cfg.LSP.LogLevel = v
	}
	if v, ok := lookup("TODOHL_JOBS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("TODOHL_JOBS: %w", err)
		}
		cfg.Scan.Jobs = n
	}
	if v, ok := lookup("TODOHL_DEBOUNCE_MS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("TODOHL_DEBOUNCE_MS: %w", err)
		}
		cfg.LSP.DebounceMS = n
	}
	return cfg, cfg.Validate()
}

// Resolve produces the effective configuration for a run started in dir.
// explicit, when set, names the config file and must exist. A .env file in
// dir is loaded into the process environment first; existing variables win.
func Resolve(dir, explicit string) (Config, error) {
	if dir == "" {
		dir = "."
	}
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	path := explicit
	if path == "" {
		found, ok, err := Find(dir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// Template is the file written by `todohl init`.
func Template() string {
	d := Default()
	return fmt.Sprintf(`# todohl configuration
[scan]
# file extensions to scan; empty means every text file
extensions = []
# directory names to skip in addition to hidden and vendored ones
exclude = []
# parallel workers, 0 = number of CPUs
jobs = %d
# lightest bucket to report: fixme|high|medium|low
min_bucket = %q
# 0 = unlimited
max_findings = %d

[output]
format = %q
color = %q

[lsp]
debounce_ms = %d
cache_size = %d
log_level = %q
`, d.Scan.Jobs, d.Scan.MinBucket, d.Scan.MaxFindings, d.Output.Format, d.Output.Color,
		d.LSP.DebounceMS, d.LSP.CacheSize, d.LSP.LogLevel)
}
