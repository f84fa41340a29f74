// File: lixenwraith/configurable/io.go
package configurable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported encodings for overrides files and snapshot output
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatAuto = "auto"
)

// Encode writes the snapshot to w in the given format.
// TOML output is key-sorted; JSON and YAML keep declaration order.
func (s *Snapshot) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatTOML:
		encoder := toml.NewEncoder(w)
		if err := encoder.Encode(s.Map()); err != nil {
			return fmt.Errorf("failed to marshal snapshot to TOML: %w", err)
		}
	case FormatJSON:
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot to JSON: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("failed to indent JSON: %w", err)
		}
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("failed to marshal snapshot to YAML: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// decodeOverrides parses raw file data in the given format into a nested map
func decodeOverrides(data []byte, format, path string) (map[string]any, error) {
	fileConfig := make(map[string]any)

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML overrides file '%s': %w", path, err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON overrides file '%s': %w", path, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML overrides file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine format for overrides file '%s'", path)
	}

	return fileConfig, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// JSON first, YAML accepts JSON as well
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}
