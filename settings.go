package chromakey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is a keying preset as stored in JSON or YAML files.
type Settings struct {
	Key           RGB              `json:"key" yaml:"key"`
	Tolerance     float32          `json:"tolerance" yaml:"tolerance"`
	Softness      float32          `json:"softness" yaml:"softness"`
	Metric        DistanceMetric   `json:"metric" yaml:"metric"`
	Spill         float32          `json:"spill" yaml:"spill"`
	Feather       float64          `json:"feather" yaml:"feather"`
	Foreground    ToneAdjustment   `json:"foreground" yaml:"foreground"`
	Background    ToneAdjustment   `json:"background" yaml:"background"`
	Policy        BackgroundPolicy `json:"policy" yaml:"policy"`
	Blend         BlendMode        `json:"blend" yaml:"blend"`
	Fit           string           `json:"fit,omitempty" yaml:"fit,omitempty"`                     // stretch or cover
	Interpolation string           `json:"interpolation,omitempty" yaml:"interpolation,omitempty"` // background video resampling
}

// DefaultSettings mirrors DefaultConfig.
func DefaultSettings() Settings {
	c := DefaultConfig()
	return Settings{
		Key:           c.Key,
		Tolerance:     c.Tolerance,
		Softness:      c.Softness,
		Metric:        c.Metric,
		Foreground:    c.Foreground,
		Background:    c.Background,
		Policy:        c.Policy,
		Fit:           "stretch",
		Interpolation: "bilinear",
	}
}

// Config converts the preset to a validated pipeline configuration.
func (s Settings) Config() (Config, error) {
	c := Config{
		Key:        s.Key,
		Tolerance:  s.Tolerance,
		Softness:   s.Softness,
		Metric:     s.Metric,
		Spill:      s.Spill,
		Feather:    s.Feather,
		Foreground: s.Foreground,
		Background: s.Background,
		Policy:     s.Policy,
		Blend:      s.Blend,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadSettings reads a preset from a .json, .yaml or .yml file.
// Keys missing from the file keep their DefaultSettings values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return s, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return s, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return s, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return s, fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
	}
	return s, nil
}

// SaveSettings writes a preset, choosing the format by extension like LoadSettings.
func SaveSettings(path string, s Settings) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		return fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Clean(path), data, 0o644)
}
