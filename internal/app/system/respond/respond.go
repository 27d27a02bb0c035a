// internal/app/system/respond/respond.go

// Package respond writes the uniform JSON envelope used by every endpoint:
// {"success": true, ...payload} on success and
// {"success": false, "error": "..."} on failure.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
)

// JSON writes v with the given status code. v is expected to carry its own
// "success" field (handlers define typed response structs).
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the failure half of the envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Err classifies err via apierr.From and writes the failure envelope with
// the mapped status code.
func Err(w http.ResponseWriter, err error) {
	ae := apierr.From(err)
	JSON(w, ae.Kind.HTTPStatus(), errorBody{Success: false, Error: ae.Error()})
}

// ErrMessage writes the failure envelope with an explicit kind and message,
// for boundaries that have no error value in hand.
func ErrMessage(w http.ResponseWriter, kind apierr.Kind, message string) {
	JSON(w, kind.HTTPStatus(), errorBody{Success: false, Error: message})
}
