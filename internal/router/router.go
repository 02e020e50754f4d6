// internal/router/router.go
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-trip-planner/internal/api/area"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/place"
)

// Config contains the handlers the router mounts.
type Config struct {
	ItineraryHandler *itinerary.Handler
	AreaHandler      *area.Handler
	PlaceHandler     *place.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to
// be applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/itinerary", cfg.ItineraryHandler.Generate)

		r.Get("/areas/suggest", cfg.AreaHandler.Suggest)

		r.Get("/places", cfg.PlaceHandler.Search)
		r.Get("/places/nearby", cfg.PlaceHandler.Nearby)

		// Admin catalog management. Auth is not wired yet, keep these
		// off any public deployment.
		r.Post("/admin/places", cfg.PlaceHandler.Upsert)
	})

	return r
}
