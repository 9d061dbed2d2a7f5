package middleware

import (
	"net/http"

	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/go-chi/cors"
)

// CORS allows browser clients from the configured origins to call the API with credentials.
func CORS(cfg *config.CORS) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           int(cfg.MaxAge.Seconds()),
	})
}
