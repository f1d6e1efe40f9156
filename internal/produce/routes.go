package produce

import (
	"net/http"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Static segments before /{uuid}.
	r.Get("/", ListProductivities)
	r.Get("/summary", GetSummary)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/", CreateProductivity)
		r.Put("/{uuid}", UpdateProductivity)
		r.Delete("/{uuid}", DeleteProductivity)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Get("/export", ExportReport)
	})

	return r
}
