package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/auth"
	"bookshelf/internal/book"
	"bookshelf/internal/catalog"
	"bookshelf/internal/favorite"
	"bookshelf/internal/geo"
	"bookshelf/internal/ingest"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/provider"
	"bookshelf/internal/testutil"
	"bookshelf/internal/user"
)

const testSecret = "test-secret"

type stubProvider struct{}

func (stubProvider) Search(_ context.Context, query string, _, _ int) ([]catalog.RawBook, error) {
	return []catalog.RawBook{
		{ID: "v1", Title: "Dom Casmurro", Authors: []string{"Machado de Assis"}, Categories: []string{"Fiction"}},
		{ID: "v2", Title: "O Cortiço", Authors: []string{"Aluísio Azevedo"}, Categories: []string{"Fiction / Classics"}},
	}, nil
}

func (stubProvider) Volume(_ context.Context, id string) (catalog.RawBook, error) {
	if id == "v1" {
		return catalog.RawBook{ID: "v1", Title: "Dom Casmurro", Authors: []string{"Machado de Assis"}}, nil
	}
	return catalog.RawBook{}, provider.ErrNotFound
}

type stubLibraries struct{}

func (stubLibraries) List(context.Context) ([]library.Library, error) {
	lat, lon := -25.5302, -49.2061
	return []library.Library{{ID: "lib-1", Name: "Biblioteca Pública", Latitude: &lat, Longitude: &lon}}, nil
}

func (stubLibraries) Create(context.Context, *library.Library) error { return nil }

type stubUsers struct{}

func (stubUsers) Create(context.Context, *user.User) error { return nil }

func (stubUsers) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (stubUsers) GetByID(_ context.Context, id string) (user.User, error) {
	if id == testutil.TestUser.ID {
		return testutil.TestUser, nil
	}
	return user.User{}, user.ErrNotFound
}

func (stubUsers) UpdatePassword(context.Context, string, string) error { return nil }

func newTestRouter(t *testing.T, ready func(context.Context) error) http.Handler {
	t.Helper()

	mapper := &catalog.Mapper{}
	normalizer := catalog.NewNormalizer(catalog.DefaultTable())
	runs := ingest.NewMemoryRepo(10)

	bookSvc := book.NewService(stubProvider{}, mapper)
	ingestSvc := ingest.NewService(stubProvider{}, runs, mapper, normalizer, ingest.Config{
		Subjects:    []string{"fiction"},
		MaxResults:  10,
		Concurrency: 1,
	})
	userSvc := user.NewService(stubUsers{})

	return newRouter(handlers{
		book:     book.NewHTTPHandler(bookSvc),
		catalog:  ingest.NewHTTPHandler(ingestSvc, runs, ""),
		favorite: favorite.NewHTTPHandler(favorite.NewService(favorite.NewMemoryStore(), bookSvc)),
		library:  library.NewHTTPHandler(library.NewService(stubLibraries{}), geo.Point{Lat: -25.53, Lon: -49.20}),
		user:     user.NewHTTPHandler(userSvc),
		auth:     auth.NewHTTPHandler(auth.NewService(testSecret, 0, userSvc)),
		ready:    ready,
	}, routerConfig{jwtSecret: testSecret, corsOrigins: []string{"*"}, maxBodyBytes: 1 << 20})
}

func serve(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, nil)

	res := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))

	res = serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRouter_Readiness(t *testing.T) {
	h := newTestRouter(t, func(context.Context) error { return errors.New("db down") })

	res := serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestRouter_Catalog(t *testing.T) {
	h := newTestRouter(t, nil)

	res := serve(h, httptest.NewRequest(http.MethodGet, "/v1/catalog", nil))
	require.Equal(t, http.StatusOK, res.Code)

	groups, ok := res.Body["data"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, groups)
}

func TestRouter_Books(t *testing.T) {
	h := newTestRouter(t, nil)

	res := serve(h, httptest.NewRequest(http.MethodGet, "/v1/books/v1", nil))
	assert.Equal(t, http.StatusOK, res.Code)

	res = serve(h, httptest.NewRequest(http.MethodGet, "/v1/books", nil))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRouter_LibrariesNearby(t *testing.T) {
	h := newTestRouter(t, nil)

	res := serve(h, httptest.NewRequest(http.MethodGet, "/v1/libraries/nearby", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["data"], 1)
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	paths := []string{"/v1/favorites", "/v1/favorites/keys", "/v1/favorites/v1", "/v1/users/me"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			res := serve(h, httptest.NewRequest(http.MethodGet, p, nil))
			assert.Equal(t, http.StatusUnauthorized, res.Code)
			assert.Equal(t, "UNAUTHORIZED", res.ErrorCode())
		})
	}

	expired := testutil.GenerateExpiredToken(testSecret, testutil.TestUser.ID)
	res := serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/favorites", nil, expired))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRouter_FavoritesRoundTrip(t *testing.T) {
	h := newTestRouter(t, nil)
	token := testutil.GenerateTestToken(testSecret, testutil.TestUser.ID)

	res := serve(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/favorites/toggle", map[string]string{"book_id": "v1"}, token))
	require.Equal(t, http.StatusOK, res.Code)

	res = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/favorites/keys", nil, token))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []any{"v1"}, res.Body["data"])

	res = serve(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/users/me", nil, token))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, nil)

	res := serve(h, httptest.NewRequest(http.MethodDelete, "/v1/catalog", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
}
