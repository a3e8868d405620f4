package library

import (
	"net/http"
	"strconv"

	"bookshelf/internal/geo"
	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/logging"
)

type HTTPHandler struct {
	service    *Service
	defaultRef geo.Point
}

func NewHTTPHandler(service *Service, defaultRef geo.Point) *HTTPHandler {
	return &HTTPHandler{service: service, defaultRef: defaultRef}
}

// Nearby handles GET /v1/libraries/nearby?lat=&lon=&limit=
func (h *HTTPHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ref := h.defaultRef
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr != "" || lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		ref = geo.Point{Lat: lat, Lon: lon}
		if latErr != nil || lonErr != nil || !ref.Valid() {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "lat and lon must be valid coordinates", []httpx.ErrorDetail{
				{Field: "lat", Message: "must be between -90 and 90"},
				{Field: "lon", Message: "must be between -180 and 180"},
			})
			return
		}
	}

	limit := DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be between 1 and 100", nil)
			return
		}
		limit = n
	}

	nearby, err := h.service.Nearby(r.Context(), ref, limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("nearby libraries")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, nearby, map[string]any{
		"reference": ref,
		"count":     len(nearby),
	})
}
