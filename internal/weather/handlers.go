package weather

import (
	"net/http"
	"strconv"

	"github.com/KopiTrack/KT-Backend/internal/httputil"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves the forecast proxy. client may be nil when the proxy is
// disabled; the endpoint then degrades to an empty failure envelope.
func SetupRoutes(client *Client) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if client == nil {
			httputil.Fail(w, http.StatusNotFound, "Weather proxy is disabled")
			return
		}

		lat, errLat := strconv.ParseFloat(req.URL.Query().Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(req.URL.Query().Get("lng"), 64)
		if errLat != nil || errLng != nil {
			httputil.Fail(w, http.StatusBadRequest, "lat and lng query parameters are required")
			return
		}

		forecast, err := client.GetForecast(req.Context(), lat, lng)
		if err != nil {
			httputil.Internal(w, err)
			return
		}

		httputil.OK(w, http.StatusOK, forecast)
	})

	return r
}
