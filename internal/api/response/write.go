package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response. Player state changes with every command, so
// responses are marked uncacheable.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// CreatedOrOK writes 201 when the call created the resource and 200 when it
// already existed
func CreatedOrOK(w http.ResponseWriter, created bool, data any) {
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	JSON(w, status, data)
}
