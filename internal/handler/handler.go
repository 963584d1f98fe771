package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lexibase/internal/form"
	"lexibase/internal/service"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details string              `json:"details,omitempty"`
	Fields  form.Errors         `json:"fields,omitempty"`
	Rows    map[int]form.Errors `json:"rows,omitempty"`
}

// responder carries the JSON reply helpers shared by all handlers
type responder struct {
	logger *zap.Logger
}

func newResponder(logger *zap.Logger, name string) responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return responder{logger: logger.Named(name)}
}

func (h responder) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON", zap.Error(err))
	}
}

func (h responder) writeError(w http.ResponseWriter, msg, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: msg, Details: details}, statusCode)
}

// fail maps a service error onto a status: validation 400, not found 404,
// anything else 500
func (h responder) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if ve, ok := form.AsValidation(err); ok {
		h.writeJSON(w, ErrorResponse{Error: "validation failed", Fields: ve.Fields, Rows: ve.Rows}, http.StatusBadRequest)
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	h.logger.Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
	h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
}

// pathID parses a numeric path parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// isJSON reports whether the request body is declared as JSON
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// decodeValues reads a single-row form from a JSON object or from
// url-encoded form data. JSON numbers and booleans become their text form.
func decodeValues(r *http.Request) (form.Values, error) {
	values := form.Values{}

	if isJSON(r) {
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for k, v := range raw {
			switch v := v.(type) {
			case nil:
			case string:
				values[k] = v
			default:
				values[k] = fmt.Sprint(v)
			}
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}
	return values, nil
}
