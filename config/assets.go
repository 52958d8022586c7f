package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadSettings reads a flock settings asset. The format is chosen from the
// file extension (.yaml, .yml or .toml). Fields missing from the file keep
// their default values. The returned asset is resolved and validated.
func LoadSettings(path string) (*SettingsData, error) {
	data := DefaultSettingsData()
	data.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, data); err != nil {
			return nil, fmt.Errorf("parsing settings %s: %w", path, err)
		}
	case ".yaml", ".yml":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, data); err != nil {
			return nil, fmt.Errorf("parsing settings %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("settings %s: unsupported extension %q", path, ext)
	}

	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	data.resolve()

	return data, nil
}

// ParseSettingsYAML decodes a YAML settings asset held in memory.
func ParseSettingsYAML(raw []byte) (*SettingsData, error) {
	data := DefaultSettingsData()
	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	data.resolve()
	return data, nil
}

// WriteSettingsYAML writes a settings asset to a YAML file.
func WriteSettingsYAML(path string, data *SettingsData) error {
	out := *data
	if curve, ok := data.Settings.QueueCurve.(*StepCurve); ok && len(out.QueueCurve) == 0 {
		out.QueueCurve = curve.Keys()
	}

	raw, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
