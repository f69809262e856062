package fs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serializer defines how a slot is encoded on disk.
type Serializer interface {
	// Ext is the file extension, including the dot.
	Ext() string
	// Serialize converts a slot value to bytes.
	Serialize(v any) ([]byte, error)
	// Parse decodes data into v.
	Parse(data []byte, v any) error
}

// DefaultSerializers returns the standard set of serializers keyed by format name.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		FormatJSON: NewJSONSerializer(strict),
		FormatYAML: NewYAMLSerializer(strict),
	}
}

// Supported format names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON files.
type JSONSerializer struct {
	// Strict rejects fields the slot type does not know about.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Ext() string { return ".json" }

func (s *JSONSerializer) Serialize(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *JSONSerializer) Parse(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML files.
type YAMLSerializer struct {
	// Strict rejects fields the slot type does not know about.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Ext() string { return ".yaml" }

func (s *YAMLSerializer) Serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *YAMLSerializer) Parse(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(s.Strict)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
