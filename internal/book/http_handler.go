package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Search handles GET /v1/books
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := DefaultPageSize
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageSize {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be between 1 and 40", nil)
			return
		}
		limit = n
	}

	page, err := h.service.Search(r.Context(), query.Get("q"), query.Get("cursor"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	meta := map[string]any{"count": len(page.Books)}
	if page.NextCursor != "" {
		meta["next_cursor"] = page.NextCursor
	}
	httpx.JSONSuccess(w, r, page.Books, meta)
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Query parameter q is required", nil)
	case errors.Is(err, ErrInvalidCursor):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid cursor", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrUpstream):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("book provider failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Book provider unavailable", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("book request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
