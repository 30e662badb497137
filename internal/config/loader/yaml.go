package loader

import (
	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoader creates a new YAML loader for the given path.
func NewYAMLLoader(path string) *YAMLLoader {
	return NewYAMLLoaderWithFS(DefaultFS(), path)
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{fs: fs, path: path}
}

// Load reads configuration from the configured path.
func (l *YAMLLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}
	return parseYAML(l.path, data)
}

// parseYAML parses YAML data into a map.
func parseYAML(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return normalizeYAML(config), nil
}

// normalizeYAML converts the integer types yaml.v3 produces to int64, the
// type the TOML decoder uses, so values compare equal across formats.
func normalizeYAML(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeYAMLValue(v)
	}
	return m
}

func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case map[string]any:
		return normalizeYAML(val)
	case []any:
		for i := range val {
			val[i] = normalizeYAMLValue(val[i])
		}
		return val
	default:
		return v
	}
}
