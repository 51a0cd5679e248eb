package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-city-info-api/docs"
	"github.com/FACorreiaa/go-city-info-api/internal/api/city"
	"github.com/FACorreiaa/go-city-info-api/internal/api/poi"
)

// Config contains the handlers the router mounts.
type Config struct {
	CityHandler    *city.Handler
	POIHandler     *poi.HandlerImpl
	AllowedOrigins []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Unknown routes and ids that fail the digit pattern are plain 404s.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/cities", func(r chi.Router) {
		r.Get("/", cfg.CityHandler.GetCities)
		r.Get("/{cityID:[0-9]+}", cfg.CityHandler.GetCity)

		r.Route("/{cityID:[0-9]+}/pointsofinterest", func(r chi.Router) {
			r.Get("/", cfg.POIHandler.GetPointsOfInterest)
			r.Post("/", cfg.POIHandler.CreatePointOfInterest)
			r.Get("/{poiID:[0-9]+}", cfg.POIHandler.GetPointOfInterest)
			r.Put("/{poiID:[0-9]+}", cfg.POIHandler.UpdatePointOfInterest)
			r.Patch("/{poiID:[0-9]+}", cfg.POIHandler.PartiallyUpdatePointOfInterest)
			r.Delete("/{poiID:[0-9]+}", cfg.POIHandler.DeletePointOfInterest)
		})
	})

	return r
}
