package farm

import (
	"net/http"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Static segments must be registered before /{uuid} so they are not
	// shadowed by the parametrized route.
	r.Get("/", ListFarms)
	r.Get("/pending", ListPending)
	r.Get("/verified", ListVerified)
	r.Get("/{uuid}", GetFarm)
	r.Get("/{uuid}/centroid", GetCentroid)

	// Farmer routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/", CreateFarm)
		r.Put("/{uuid}", UpdateFarm)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Post("/{uuid}/verify", VerifyFarm)
		r.Post("/{uuid}/reject", RejectFarm)
		r.Post("/{uuid}/request-update", RequestUpdate)
		r.Delete("/{uuid}", DeleteFarm)
	})

	return r
}
