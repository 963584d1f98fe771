package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"lexibase/internal/domain"
)

// JSONCodec parses JSON datasets
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes a dataset from JSON, rejecting unknown fields
func (c *JSONCodec) Parse(r io.Reader) (*domain.Dataset, error) {
	var ds domain.Dataset
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &ds, nil
}
