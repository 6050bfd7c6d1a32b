package response

import (
	"encoding/json"
	"net/http"
)

// internalErrorBody is sent when a response value cannot be encoded
const internalErrorBody = `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}` + "\n"

// JSON encodes data and writes it with the given status. Encoding happens
// before any header is sent so a failure still produces a well-formed 500.
// Responses may carry session tokens, so they are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")

	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(internalErrorBody))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
