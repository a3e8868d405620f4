package favorite

import (
	"errors"
	"net/http"

	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type toggleRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

type toggleResponse struct {
	BookID     string `json:"book_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// List handles GET /v1/favorites.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	books, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// Keys handles GET /v1/favorites/keys.
func (h *HTTPHandler) Keys(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	keys, err := h.service.Keys(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, keys, nil)
}

// Toggle handles POST /v1/favorites/toggle.
func (h *HTTPHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	var req toggleRequest
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	fav, err := h.service.Toggle(r.Context(), owner, req.BookID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toggleResponse{BookID: req.BookID, IsFavorite: fav}, nil)
}

// Status handles GET /v1/favorites/{id}.
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	id := r.PathValue("id")
	fav, err := h.service.IsFavorite(r.Context(), owner, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toggleResponse{BookID: id, IsFavorite: fav}, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnresolvable):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrLookupUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("favorite lookup failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Book provider unavailable", nil)
	case errors.Is(err, ErrStoreUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("favorites store unavailable")
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Favorites are temporarily unavailable", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("favorites request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
