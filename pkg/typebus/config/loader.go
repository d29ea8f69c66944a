package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a document's root is a scalar or a list.
// Bus settings are always keyed, so only a mapping root is accepted.
var ErrNotMapping = errors.New("config: document root is not a mapping")

// decoder parses raw bytes into a generic document.
type decoder struct {
	format    string
	unmarshal func([]byte, any) error
}

var (
	yamlDecoder = decoder{format: "yaml", unmarshal: yaml.Unmarshal}
	jsonDecoder = decoder{format: "json", unmarshal: json.Unmarshal}
)

// decoderFor picks a decoder by file extension, ignoring case.
func decoderFor(path string) (decoder, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlDecoder, true
	case ".json":
		return jsonDecoder, true
	}
	return decoder{}, false
}

// FromFile loads bus settings from path. The format follows the extension:
// .yaml and .yml are YAML, .json is JSON. Errors name the path.
func FromFile(path string) (Config, error) {
	dec, ok := decoderFor(path)
	if !ok {
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q (want .yaml, .yml or .json)",
			path, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := dec.decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML parses YAML bus settings. An empty document yields an empty Config.
func FromYAML(data []byte) (Config, error) {
	return yamlDecoder.decode(data)
}

// FromJSON parses JSON bus settings. A null document yields an empty Config.
func FromJSON(data []byte) (Config, error) {
	return jsonDecoder.decode(data)
}

func (d decoder) decode(data []byte) (Config, error) {
	var doc any
	if err := d.unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", d.format, err)
	}

	switch root := doc.(type) {
	case nil:
		return New(nil), nil
	case map[string]any:
		return New(root), nil
	default:
		return Config{}, fmt.Errorf("%s root is %s: %w", d.format, kindOf(root), ErrNotMapping)
	}
}

// kindOf names the shape of a decoded document root for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case []any:
		return "a list"
	case map[any]any:
		return "a mapping with non-string keys"
	case string:
		return "a string"
	case bool:
		return "a bool"
	case int, int64, uint64, float64:
		return "a number"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
