package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a Config from path, picking the codec by extension
// (.yaml, .yml, or .json).
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	}
	return Config{}, fmt.Errorf("load %s: unrecognized extension", path)
}

// FromYAML decodes YAML into a Config. Nested mappings are flattened into
// dotted keys, so `tracker: {attribute: x}` and `tracker.attribute: x` are
// equivalent.
func FromYAML(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	return New(flatten(raw)), nil
}

// FromJSON decodes JSON into a Config, flattening nested objects the same
// way FromYAML does.
func FromJSON(data []byte) (Config, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("decode json: %w", err)
	}
	return New(flatten(raw)), nil
}

// flatten rewrites nested maps as dotted keys, leaving flat keys untouched.
func flatten(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	flattenInto(out, "", raw)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}
