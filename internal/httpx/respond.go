// Package httpx writes JSON responses and normalizes handler failures into
// the API's uniform error envelope.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/rohitm/contact-manager/internal/apperr"
)

// DevMode controls whether error envelopes include the captured stack.
// Set once at startup from config, immutable afterwards.
var DevMode bool

// titles maps the status taxonomy to envelope titles. Anything unmapped
// renders as Server Error / 500.
var titles = map[int]string{
	http.StatusBadRequest:          "Validation Error",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusInternalServerError: "Server Error",
}

// ErrorEnvelope is the wire shape of every failure response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error renders err as the uniform error envelope. Errors that are not an
// *apperr.Error become Server Error / 500.
func Error(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	status := ae.Status
	title, ok := titles[status]
	if !ok {
		status = http.StatusInternalServerError
		title = titles[status]
	}
	env := ErrorEnvelope{Success: false, Title: title, Message: ae.Message}
	if DevMode {
		env.Stack = string(ae.Stack)
	}
	WriteJSON(w, status, env)
}

// NotFoundRoute handles requests that match no route.
func NotFoundRoute(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
}
