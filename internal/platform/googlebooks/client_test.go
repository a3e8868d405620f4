package googlebooks

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

const searchBody = `{
  "totalItems": 2,
  "items": [
    {
      "id": "zyTCAlFPjgYC",
      "volumeInfo": {
        "title": "The Google Story",
        "authors": ["David A. Vise", "Mark Malseed"],
        "categories": ["Business & Economics"],
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "055380457X"},
          {"type": "ISBN_13", "identifier": "9780553804577"}
        ],
        "pageCount": 207,
        "publishedDate": "2005-11-15",
        "description": "<p>Here is the story</p>",
        "imageLinks": {"thumbnail": "http://books.google.com/t.jpg"}
      }
    },
    {"id": "abc", "volumeInfo": {"title": "Sparse"}}
  ]
}`

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "k3y", provider.Options{
		Name:        "googlebooks-" + t.Name(),
		BaseBackoff: time.Millisecond,
	})
}

func TestClient_Search(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "subject:fiction", r.URL.Query().Get("q"))
		assert.Equal(t, "40", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "0", r.URL.Query().Get("startIndex"))
		assert.Equal(t, "k3y", r.URL.Query().Get("key"))
		w.Write([]byte(searchBody))
	})

	books, err := c.Search(context.Background(), "subject:fiction", -3, 100)
	require.NoError(t, err)
	require.Len(t, books, 2)

	b := books[0]
	assert.Equal(t, "zyTCAlFPjgYC", b.ID)
	assert.Equal(t, []string{"David A. Vise", "Mark Malseed"}, b.Authors)
	assert.Equal(t, "9780553804577", b.Identifiers[1].Value)
	assert.Equal(t, 207, b.PageCount)
	assert.Equal(t, "http://books.google.com/t.jpg", b.ImageLinks.Thumbnail)
	assert.Equal(t, "Sparse", books[1].Title)
}

func TestClient_SearchNoItems(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems":0}`))
	})

	books, err := c.Search(context.Background(), "isbn:0000000000", 0, 1)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestClient_Volume(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/volumes/zyTCAlFPjgYC":
			w.Write([]byte(`{"id":"zyTCAlFPjgYC","volumeInfo":{"title":"The Google Story"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	b, err := c.Volume(context.Background(), "zyTCAlFPjgYC")
	require.NoError(t, err)
	assert.Equal(t, "The Google Story", b.Title)

	_, err = c.Volume(context.Background(), "missing")
	assert.ErrorIs(t, err, provider.ErrNotFound)

	_, err = c.Volume(context.Background(), "")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestClient_SearchUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Search(context.Background(), "subject:fiction", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
