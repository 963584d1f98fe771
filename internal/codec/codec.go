// Package codec decodes dataset files for the batch importer.
package codec

import (
	"fmt"
	"io"
	"strings"

	"lexibase/internal/domain"
)

// Importer interface for parsing datasets from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Dataset, error)
	Format() string
}

// ForExtension returns the importer for a file extension such as ".yaml".
// Unsupported extensions yield an "unable to import" error.
func ForExtension(ext string) (Importer, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	case ".json":
		return NewJSONCodec(), nil
	}
	return nil, fmt.Errorf("unable to import a %s file", ext)
}

// Extensions lists the file extensions ForExtension accepts
func Extensions() []string {
	return []string{".json", ".yaml", ".yml"}
}
