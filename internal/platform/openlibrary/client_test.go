package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/platform/provider"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, provider.Options{
		Name:        "openlibrary-" + t.Name(),
		BaseBackoff: time.Millisecond,
	})
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780451524935-L.jpg", CoverURL("978-0-451-52493-5"))
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/045152493X-L.jpg", CoverURL("0451 52493X"))
	assert.Equal(t, "", CoverURL("n/a"))
}

func TestClient_Search(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "subject:romance", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "40", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"numFound":1,"docs":[{
			"key":"/works/OL45804W",
			"title":"Pride and Prejudice",
			"author_name":["Jane Austen"],
			"isbn":["9780141439518","0141439513"],
			"first_publish_year":1813,
			"subject":["Romance","Fiction","England","Sisters","Courtship","Classics"],
			"number_of_pages_median":279,
			"cover_i":14348537
		}]}`))
	})

	books, err := c.Search(context.Background(), "subject:romance", 40, 20)
	require.NoError(t, err)
	require.Len(t, books, 1)

	b := books[0]
	assert.Equal(t, "OL45804W", b.ID)
	assert.Equal(t, "1813", b.PublishedDate)
	assert.Len(t, b.Categories, 5)
	assert.Equal(t, "ISBN_13", b.Identifiers[0].Type)
	assert.Equal(t, "ISBN_10", b.Identifiers[1].Type)
	assert.Equal(t, 279, b.PageCount)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/14348537-M.jpg", b.ImageLinks.Thumbnail)
}

func TestClient_Volume(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/works/OL1W.json":
			w.Write([]byte(`{"key":"/works/OL1W","title":"A","description":{"type":"/type/text","value":"Long text"},"covers":[7]}`))
		case "/works/OL2W.json":
			w.Write([]byte(`{"key":"/works/OL2W","title":"B","description":"Plain"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	a, err := c.Volume(context.Background(), "/works/OL1W")
	require.NoError(t, err)
	assert.Equal(t, "OL1W", a.ID)
	assert.Equal(t, "Long text", a.Description)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/7-M.jpg", a.ImageLinks.Thumbnail)

	b, err := c.Volume(context.Background(), "OL2W")
	require.NoError(t, err)
	assert.Equal(t, "Plain", b.Description)

	_, err = c.Volume(context.Background(), "OL3W")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}
