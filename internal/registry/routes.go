package registry

import (
	"net/http"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Public read access
	r.Get("/", ListDistricts)
	r.Get("/{uuid}", GetDistrict)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Post("/", CreateDistrict)
		r.Put("/{uuid}", UpdateDistrict)
		r.Delete("/{uuid}", DeleteDistrict)
	})

	return r
}
