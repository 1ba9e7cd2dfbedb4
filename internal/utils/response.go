package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dib506676/fast-api/internal/apperr"
	"go.uber.org/zap"
)

type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSONResponse sends a JSON response with given status, success flag, and payload
func JSONResponse(w http.ResponseWriter, status int, payload Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func OK(w http.ResponseWriter, status int, message string, data any) {
	JSONResponse(w, status, Payload{Success: true, Message: message, Data: data})
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, Payload{Success: false, Message: message})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusOf maps an error code to its HTTP status.
func StatusOf(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeUnauthorized, apperr.CodeInvalidCredentials, apperr.CodeUpstream:
		return http.StatusUnauthorized
	case apperr.CodeEmailTaken, apperr.CodeWrongProvider, apperr.CodeInvalid:
		return http.StatusBadRequest
	case apperr.CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err in the envelope. Internal errors are logged and
// answered with a generic message; the cause never reaches the client.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	status := StatusOf(code)

	message := "Internal server error"
	var ae *apperr.Error
	if status < http.StatusInternalServerError && errors.As(err, &ae) {
		message = ae.Message
	}
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.String("code", string(code)), zap.Error(err))
	}
	if status == http.StatusUnauthorized && code == apperr.CodeUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	Fail(w, status, message)
}
