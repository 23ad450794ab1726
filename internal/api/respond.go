// Package api holds the JSON response envelope shared by all handlers:
// {"success": true, ...} on the happy path, {"success": false, "error": ...}
// on failures.
package api

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Data(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func Message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": true, "message": msg})
}

func DataMessage(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, map[string]any{"success": true, "message": msg, "data": data})
}

// List wraps a paginated collection response.
func List(w http.ResponseWriter, status int, data any, page, limit, total int) {
	writeJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
		"pagination": map[string]any{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func Error(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
