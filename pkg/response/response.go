// Package response writes JSON bodies for the storefront API. Success bodies
// are the payload itself; failures are always {"error": "<message>"}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/logger"
)

// ErrorBody is the wire shape of every failure.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with v as the body.
func Success(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 with v as the body.
func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

// Error sends {"error": message} with status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// Fail maps a service error to its status and public message. Database
// errors are logged with their cause; the client only sees the generic text.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	Error(w, status, apperr.PublicMessage(err))
}

// Unauthorized sends a 401 with the standard "not logged in" message.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, apperr.ErrUnauthenticated.Message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, apperr.ErrNotFound.Message)
}
