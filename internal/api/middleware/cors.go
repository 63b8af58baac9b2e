package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns a CORS middleware with the given allowed origins
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
}

// DefaultCORS returns a CORS middleware that allows the local dashboard
func DefaultCORS(dashboardPort int) func(http.Handler) http.Handler {
	return CORS([]string{
		fmt.Sprintf("http://localhost:%d", dashboardPort),
		fmt.Sprintf("http://127.0.0.1:%d", dashboardPort),
	})
}
