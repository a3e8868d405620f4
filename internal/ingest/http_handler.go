package ingest

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/logging"
)

type HTTPHandler struct {
	svc    *Service
	runs   Repository
	secret string
}

func NewHTTPHandler(svc *Service, runs Repository, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, runs: runs, secret: secret}
}

func runMeta(run Run) map[string]any {
	return map[string]any{
		"run_id":          run.ID,
		"status":          run.Status,
		"books":           run.BooksUnique,
		"genres":          run.GenreGroups,
		"failed_subjects": len(run.FailedSubjects),
	}
}

// Catalog handles GET /v1/catalog. The last round is served when there is
// one; otherwise a round runs inline.
func (h *HTTPHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	res, ok := h.svc.Latest()
	if !ok {
		var err error
		res, err = h.svc.Run(r.Context())
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("catalog round failed")
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Book provider unavailable", nil)
			return
		}
	}
	httpx.JSONSuccess(w, r, res.Groups, runMeta(res.Run))
}

func (h *HTTPHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	got := r.Header.Get("X-Internal-Secret")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

// Ingest handles POST /internal/jobs/ingest
func (h *HTTPHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	res, err := h.svc.Run(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("run_id", res.Run.ID).Msg("ingest job failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Book provider unavailable", nil)
		return
	}
	httpx.JSONSuccess(w, r, res.Run, nil)
}

// Runs handles GET /internal/jobs/ingest/runs
func (h *HTTPHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be between 1 and 100", nil)
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list catalog runs")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, runs, nil)
}
