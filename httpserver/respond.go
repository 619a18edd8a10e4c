package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

// maxRequestBody caps API request bodies (1 MiB of JSON covers any sane app
// source; larger content belongs behind the size config, not unbounded reads).
const maxRequestBody = 1 << 20

var (
	// ErrInvalidAPIKey maps to 403 for unknown or missing API keys.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrBodyTooLarge maps to 413.
	ErrBodyTooLarge = errors.New("request body too large")
)

// errorResponse is the uniform API error body.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a bounded request body into v.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(body) > maxRequestBody {
		return ErrBodyTooLarge
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse request body: %w", err)
	}
	return nil
}

// respondDecodeError maps decodeJSON failures onto statuses: oversized
// bodies get 413, anything else 400.
func respondDecodeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	respondError(w, status, err.Error())
}

// invalidLink writes the single generic failure response for the resolution
// path. Every verification stage produces this same body and status so the
// response reveals nothing about which stage failed.
func invalidLink(w http.ResponseWriter) {
	http.Error(w, "invalid or corrupted link", http.StatusForbidden)
}
