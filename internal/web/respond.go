// Package web holds helpers shared by the HTTP handlers.
package web

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Failure writes the {success:false, message} envelope.
func Failure(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
