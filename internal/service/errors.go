package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked-up object does not exist
	ErrNotFound = errors.New("not found")

	// ErrWordNotFound is returned when a battery names a word slug that is
	// missing from the word table
	ErrWordNotFound = errors.New("word not found")
)

func notFound(kind string, key any) error {
	return fmt.Errorf("%s %v: %w", kind, key, ErrNotFound)
}
