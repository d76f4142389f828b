package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/demonkingdom/internal/middleware"
)

// Logging logs every API request
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// RequestID tags every API request with an id
func RequestID() func(http.Handler) http.Handler {
	return middleware.RequestID
}
