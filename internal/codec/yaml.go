package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"lexibase/internal/domain"
)

// YAMLCodec parses YAML datasets
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes a dataset from YAML. Unknown keys are rejected so a typo in
// a section name cannot silently drop records. An empty document is an
// empty dataset.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Dataset, error) {
	var ds domain.Dataset
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &ds, nil
}
