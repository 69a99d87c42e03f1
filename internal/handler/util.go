package handler

import (
	"encoding/json"
	"net/http"
)

// writeJSON encodes v as the response body with the given status. Only used
// on the non-streaming paths; the chat stream writes raw bytes itself.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an {"error": message} body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
