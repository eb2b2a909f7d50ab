// Package config loads the per-analyzer TOML configuration.
package config

import (
	"fmt"
	"maps"
	"os"

	"github.com/BurntSushi/toml"
)

// Analyzer is one analyzer's configuration: bounds/references in
// reference_values and tuning knobs in settings. Both sub-tables are
// optional and hold primitive-typed values.
type Analyzer struct {
	ReferenceValues map[string]any `toml:"reference_values"`
	Settings        map[string]any `toml:"settings"`
}

// Merged returns the union of reference_values and settings. Settings win on
// key collision.
func (a Analyzer) Merged() map[string]any {
	out := make(map[string]any, len(a.ReferenceValues)+len(a.Settings))
	maps.Copy(out, a.ReferenceValues)
	maps.Copy(out, a.Settings)
	return out
}

// Entry pairs an analyzer name with its configuration.
type Entry struct {
	Name     string
	Analyzer Analyzer
}

// Config is the ordered analyzer configuration. Order follows the TOML
// file's top-level table order, which is what the analysis pipeline iterates.
type Config struct {
	entries []Entry
}

// Entries returns the analyzer entries in file order.
func (c *Config) Entries() []Entry { return c.entries }

// Len reports the number of configured analyzers.
func (c *Config) Len() int { return len(c.entries) }

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML configuration text, recovering top-level key order from
// the decoder metadata (Go maps would lose it).
func Parse(data string) (*Config, error) {
	var raw map[string]Analyzer
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue // nested keys; only top-level tables name analyzers
		}
		name := key[0]
		if seen[name] {
			continue
		}
		seen[name] = true
		cfg.entries = append(cfg.entries, Entry{Name: name, Analyzer: raw[name]})
	}
	return cfg, nil
}
