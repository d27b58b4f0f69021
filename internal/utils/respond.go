package utils

import (
	"encoding/json"
	"net/http"

	"grievance-portal/internal/models"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Kind    models.Kind `json:"kind,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Message writes a successful response carrying only a human-readable message.
func Message(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: true, Message: msg})
}

func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg, Kind: kindForStatus(status)})
}

// Fail classifies err and writes it with the matching status code.
// Internal errors are reported without their detail.
func Fail(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	msg := err.Error()
	if kind == models.KindInternal {
		msg = "internal error"
	}
	write(w, StatusFor(kind), Envelope{Success: false, Error: msg, Kind: kind})
}

func StatusFor(k models.Kind) int {
	switch k {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func kindForStatus(status int) models.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return models.KindValidation
	case http.StatusUnauthorized:
		return models.KindUnauthorized
	case http.StatusForbidden:
		return models.KindForbidden
	case http.StatusNotFound:
		return models.KindNotFound
	case http.StatusConflict:
		return models.KindConflict
	case http.StatusTooManyRequests:
		return models.KindTransport
	}
	return models.KindInternal
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
