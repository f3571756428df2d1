package httpapi

import (
	"encoding/json"
	"net/http"
)

// apiError is the REST error envelope, the same {code, message} shape the
// websocket layer reports.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respond(w, status, apiError{Code: code, Message: msg})
}
