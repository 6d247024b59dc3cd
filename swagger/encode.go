package swagger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("swagger: encode json: %w", err)
	}
	return data, nil
}

// MarshalYAML renders doc as YAML.
func MarshalYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("swagger: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("swagger: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON document.
func UnmarshalJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("swagger: decode json: %w", err)
	}
	return &doc, nil
}

// UnmarshalYAML parses a YAML document.
func UnmarshalYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("swagger: decode yaml: %w", err)
	}
	return &doc, nil
}
