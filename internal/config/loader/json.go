package loader

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// JSONLoader loads configuration from JSON files.
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader creates a new JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return NewJSONLoaderWithFS(DefaultFS(), path)
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{fs: fs, path: path}
}

// Load reads configuration from the configured path.
func (l *JSONLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}
	return parseJSON(l.path, data)
}

var errInvalidJSON = errors.New("invalid JSON")

// parseJSON parses a JSON object into a map.
func parseJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: errInvalidJSON.Error(), Err: errInvalidJSON}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		msg := fmt.Sprintf("top level must be an object, got %s", root.Type)
		return nil, &ParseError{Path: source, Message: msg, Err: errInvalidJSON}
	}
	config, _ := root.Value().(map[string]any)
	return normalizeJSON(config), nil
}

// normalizeJSON turns integral numbers into int64 to match the TOML
// decoder; gjson decodes every number as float64.
func normalizeJSON(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeJSONValue(v)
	}
	return m
}

func normalizeJSONValue(v any) any {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case map[string]any:
		return normalizeJSON(val)
	case []any:
		for i := range val {
			val[i] = normalizeJSONValue(val[i])
		}
		return val
	default:
		return v
	}
}
