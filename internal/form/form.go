// Package form carries field-level validation for submitted forms.
//
// Validation failures are values, not exceptions: services collect messages
// per field (and per row for multi-row forms) and return them wrapped in a
// *ValidationError so handlers can report them as 400 responses.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Standard messages, worded as the data-entry screens have always shown them
const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// MsgMaxLength is the message for values longer than n characters
func MsgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this value has at most %d characters.", n)
}

// Errors maps field names to their messages
type Errors map[string][]string

// Add records msg against field
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has any messages
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Empty reports whether no messages were recorded
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err returns a *ValidationError for non-empty e, otherwise nil
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError reports invalid form input
type ValidationError struct {
	Fields Errors         `json:"fields,omitempty"`
	Rows   map[int]Errors `json:"rows,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	rows := make([]int, 0, len(e.Rows))
	for i := range e.Rows {
		rows = append(rows, i)
	}
	sort.Ints(rows)
	for _, i := range rows {
		for _, field := range sortedKeys(e.Rows[i]) {
			parts = append(parts, fmt.Sprintf("row %d %s: %s", i, field, strings.Join(e.Rows[i][field], " ")))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps a *ValidationError from err
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Values is the submitted data of a single-row form
type Values map[string]string

// Get returns the trimmed value of name
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// ID parses name as a required object id. Missing values record
// MsgRequired; unparseable ones record MsgInvalidChoice.
func (v Values) ID(name string, errs Errors) (int64, bool) {
	raw := v.Get(name)
	if raw == "" {
		errs.Add(name, MsgRequired)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		errs.Add(name, MsgInvalidChoice)
		return 0, false
	}
	return id, true
}

func sortedKeys(e Errors) []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
