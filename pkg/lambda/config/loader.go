package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a configuration encoding.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from a file extension: .yaml, .yml or .json.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q", ext)
	}
}

// FromFile loads a configuration or vars file, choosing the format by
// extension. An empty file is an empty Config.
func FromFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format. The document must be a mapping.
func Parse(data []byte, format Format) (Config, error) {
	var m map[string]any
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case JSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			break
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return Config{}, fmt.Errorf("parse json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unknown config format %q", format)
	}
	return New(m), nil
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	return Parse(data, YAML)
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	return Parse(data, JSON)
}
