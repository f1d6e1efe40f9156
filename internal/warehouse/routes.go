package warehouse

import (
	"net/http"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupFacilityRoutes serves the warehouse (facility) registry.
func SetupFacilityRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Get("/", ListWarehouses)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Post("/", CreateWarehouse)
		r.Put("/{uuid}", UpdateWarehouse)
		r.Delete("/{uuid}", DeleteWarehouse)
	})

	return r
}

// SetupInventoryRoutes serves the stock ledger.
func SetupInventoryRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Static segments before /{uuid}.
	r.Get("/", ListInventories)
	r.Get("/summary", GetStockSummary)
	r.Get("/{uuid}", GetInventory)
	r.Get("/{uuid}/removals", ListRemovals)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/", StoreInventory)
		r.Post("/{uuid}/remove", RemoveStock)
	})

	return r
}
