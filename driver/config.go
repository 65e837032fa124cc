package driver

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/xhd2015/covprobe/probe"
)

// Threshold sentinels, re-exported from package probe so callers never
// need to import probe just to configure a driver (spec.md §6).
const (
	ThresholdImmediateOnly = probe.ThresholdImmediateOnly
	ThresholdDiagnostic    = probe.ThresholdDiagnostic
)

// Config mirrors spec.md §6's `new(config)` option set.
type Config struct {
	Branch         bool
	Immediate      bool
	DMissThreshold int
	CollectStats   bool
	SourceFilter   func(filename string) bool

	// Logger is injected rather than a package-level global, defaulting to
	// a no-op logger when unset.
	Logger *zap.Logger
}

// fileConfig is the on-disk shape of an optional covprobe.toml, loaded by
// LoadConfigFile the same way chazu-maggie's manifest package loads
// maggie.toml: a plain struct tagged with `toml:"..."`, unmarshalled with
// BurntSushi/toml.
type fileConfig struct {
	Branch         bool   `toml:"branch"`
	Immediate      bool   `toml:"immediate"`
	DMissThreshold int    `toml:"d_miss_threshold"`
	CollectStats   bool   `toml:"collect_stats"`
	SourceGlob     string `toml:"source"`
}

// LoadConfigFile reads a covprobe.toml from path and returns a Config
// (SourceFilter is left nil; callers wire source_filter programmatically
// since a TOML glob string is a collaborator concern, not core scope).
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("driver: cannot read %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("driver: parse error in %s: %w", path, err)
	}
	return Config{
		Branch:         fc.Branch,
		Immediate:      fc.Immediate,
		DMissThreshold: fc.DMissThreshold,
		CollectStats:   fc.CollectStats,
	}, nil
}

func (c Config) validate() error {
	if c.DMissThreshold < ThresholdDiagnostic {
		return &ConfigError{Reason: fmt.Sprintf("d_miss_threshold %d is below the diagnostic sentinel %d", c.DMissThreshold, ThresholdDiagnostic)}
	}
	return nil
}
