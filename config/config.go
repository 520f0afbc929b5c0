// Package config implements the §4.4/§6 configuration surface: the RPC
// tick loop's tunables, loaded from an embedded default YAML profile,
// optionally overridden by an on-disk YAML file, and further overridable
// by an ad hoc map (e.g. parsed CLI flags). This mirrors
// mit-pdos/sigmaos's sigmap.Config: an embedded YAML string decoded
// straight into a struct with time.Duration fields.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// defaultProfile is the engine's out-of-the-box tuning, picked to match
// §4.4.3's initial conditions (a mid-range budget, room for the
// controller to move in either direction) and §4.7's fixed smoothing
// factor.
const defaultProfile = `
tick:
  one_rpc_per_update: false
  max_time_per_update: 10000us
  blocking_recv: false
  recv_timeout: 0us
  host_frequency_hz: 60
stats:
  smoothing_factor: 0.25
debug:
  labels: []
`

// Tick holds the §4.4 inputs to the RPC Tick Loop.
type Tick struct {
	OneRPCPerUpdate  bool          `yaml:"one_rpc_per_update" mapstructure:"one_rpc_per_update"`
	MaxTimePerUpdate time.Duration `yaml:"max_time_per_update" mapstructure:"max_time_per_update"`
	BlockingRecv     bool          `yaml:"blocking_recv" mapstructure:"blocking_recv"`
	RecvTimeout      time.Duration `yaml:"recv_timeout" mapstructure:"recv_timeout"`
	HostFrequencyHz  float64       `yaml:"host_frequency_hz" mapstructure:"host_frequency_hz"`
}

// UnmarshalYAML decodes a tick block whose two duration fields are
// Go-style duration strings ("10000us", "5ms") rather than bare
// integers, since yaml.v3 has no built-in notion of time.Duration.
// Fields absent from the document leave t's existing value untouched,
// so a partial override YAML only overwrites what it names.
func (t *Tick) UnmarshalYAML(node *yaml.Node) error {
	aux := struct {
		OneRPCPerUpdate  *bool    `yaml:"one_rpc_per_update"`
		MaxTimePerUpdate *string  `yaml:"max_time_per_update"`
		BlockingRecv     *bool    `yaml:"blocking_recv"`
		RecvTimeout      *string  `yaml:"recv_timeout"`
		HostFrequencyHz  *float64 `yaml:"host_frequency_hz"`
	}{}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	if aux.OneRPCPerUpdate != nil {
		t.OneRPCPerUpdate = *aux.OneRPCPerUpdate
	}
	if aux.BlockingRecv != nil {
		t.BlockingRecv = *aux.BlockingRecv
	}
	if aux.HostFrequencyHz != nil {
		t.HostFrequencyHz = *aux.HostFrequencyHz
	}
	if aux.MaxTimePerUpdate != nil {
		d, err := time.ParseDuration(*aux.MaxTimePerUpdate)
		if err != nil {
			return fmt.Errorf("tick.max_time_per_update: %w", err)
		}
		t.MaxTimePerUpdate = d
	}
	if aux.RecvTimeout != nil {
		d, err := time.ParseDuration(*aux.RecvTimeout)
		if err != nil {
			return fmt.Errorf("tick.recv_timeout: %w", err)
		}
		t.RecvTimeout = d
	}
	return nil
}

// Stats holds the §4.7 Statistics Surface tunables. SmoothingFactor is
// exposed only for test injection; production wiring always leaves it at
// ema.DefaultSmoothingFactor.
type Stats struct {
	SmoothingFactor float64 `yaml:"smoothing_factor" mapstructure:"smoothing_factor"`
}

// Debug holds ambient logging configuration.
type Debug struct {
	Labels []string `yaml:"labels" mapstructure:"labels"`
}

// Config is the full configuration surface, mutable at runtime (§6: "No
// persisted state" — Config is held in memory by the engine and adaptive
// controller, never written back to disk).
type Config struct {
	Tick  Tick  `yaml:"tick" mapstructure:"tick"`
	Stats Stats `yaml:"stats" mapstructure:"stats"`
	Debug Debug `yaml:"debug" mapstructure:"debug"`
}

// Default returns the engine's built-in tuning profile.
func Default() (*Config, error) {
	return parse(defaultProfile)
}

// Load returns Default, overridden field-by-field by the YAML document at
// path if path is non-empty. A path that doesn't exist is an error — the
// caller is expected to only pass paths it knows should exist.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge decodes overrides (e.g. CLI flag values collected into a map) on
// top of cfg in place. Keys absent from overrides leave cfg's existing
// values untouched — mapstructure only sets fields it finds in the input.
func Merge(cfg *Config, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("config: build decoder: %w", err)
	}
	if err := dec.Decode(overrides); err != nil {
		return fmt.Errorf("config: merge overrides: %w", err)
	}
	return nil
}

func parse(yamlDoc string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(yamlDoc), cfg); err != nil {
		return nil, fmt.Errorf("config: parse default profile: %w", err)
	}
	return cfg, nil
}
