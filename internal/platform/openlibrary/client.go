package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/provider"
)

const (
	DefaultBaseURL  = "https://openlibrary.org"
	coversBaseURL   = "https://covers.openlibrary.org"
	maxSubjects     = 5
	searchFieldList = "key,title,author_name,isbn,first_publish_year,subject,number_of_pages_median,cover_i"
)

type Client struct {
	fetch   *provider.Fetcher
	baseURL string
}

func NewClient(baseURL string, opts provider.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Name == "" {
		opts.Name = "openlibrary"
	}
	return &Client{
		fetch:   provider.NewFetcher(opts),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear int      `json:"first_publish_year"`
	Subjects         []string `json:"subject"`
	Pages            int      `json:"number_of_pages_median"`
	CoverID          int      `json:"cover_i"`
}

// Work matches works/{id}.json
type Work struct {
	Key              string      `json:"key"`
	Title            string      `json:"title"`
	Description      textOrValue `json:"description"`
	Subjects         []string    `json:"subjects"`
	Covers           []int       `json:"covers"`
	FirstPublishDate string      `json:"first_publish_date"`
}

// textOrValue decodes fields that are either a string or {type, value}.
type textOrValue string

func (t *textOrValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = textOrValue(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*t = textOrValue(obj.Value)
	return nil
}

// CoverURL builds the large cover image URL for an ISBN, or "" when the
// ISBN has no usable characters.
func CoverURL(isbn string) string {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			return r
		}
		return -1
	}, isbn)
	if clean == "" {
		return ""
	}
	return coversBaseURL + "/b/isbn/" + clean + "-L.jpg"
}

func coverByID(id int) string {
	if id <= 0 {
		return ""
	}
	return coversBaseURL + "/b/id/" + strconv.Itoa(id) + "-M.jpg"
}

func workID(key string) string {
	return strings.TrimPrefix(key, "/works/")
}

func identifiers(isbns []string) []catalog.Identifier {
	ids := make([]catalog.Identifier, 0, len(isbns))
	for _, isbn := range isbns {
		typ := "ISBN_10"
		if len(isbn) == 13 {
			typ = "ISBN_13"
		}
		ids = append(ids, catalog.Identifier{Type: typ, Value: isbn})
	}
	return ids
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func (d Doc) raw() catalog.RawBook {
	b := catalog.RawBook{
		ID:          workID(d.Key),
		Title:       d.Title,
		Authors:     d.AuthorNames,
		Categories:  firstN(d.Subjects, maxSubjects),
		Identifiers: identifiers(d.ISBN),
		PageCount:   d.Pages,
		ImageLinks:  catalog.ImageLinks{Thumbnail: coverByID(d.CoverID)},
	}
	if d.FirstPublishYear > 0 {
		b.PublishedDate = strconv.Itoa(d.FirstPublishYear)
	}
	return b
}

func (w Work) raw() catalog.RawBook {
	b := catalog.RawBook{
		ID:            workID(w.Key),
		Title:         w.Title,
		Categories:    firstN(w.Subjects, maxSubjects),
		PublishedDate: w.FirstPublishDate,
		Description:   string(w.Description),
	}
	if len(w.Covers) > 0 {
		b.ImageLinks.Thumbnail = coverByID(w.Covers[0])
	}
	return b
}

// Search queries search.json. Field prefixes such as subject: and isbn:
// are understood by the endpoint as is.
func (c *Client) Search(ctx context.Context, query string, startIndex, maxResults int) ([]catalog.RawBook, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	if startIndex < 0 {
		startIndex = 0
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("fields", searchFieldList)
	q.Set("limit", strconv.Itoa(maxResults))
	q.Set("offset", strconv.Itoa(startIndex))

	var res SearchResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/search.json?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("openlibrary search %q: %w", query, err)
	}

	books := make([]catalog.RawBook, 0, len(res.Docs))
	for _, d := range res.Docs {
		books = append(books, d.raw())
	}
	return books, nil
}

// Volume fetches a work by its id (OL...W).
func (c *Client) Volume(ctx context.Context, id string) (catalog.RawBook, error) {
	id = workID(strings.TrimSpace(id))
	if id == "" {
		return catalog.RawBook{}, provider.ErrNotFound
	}

	var w Work
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/works/"+url.PathEscape(id)+".json", &w); err != nil {
		return catalog.RawBook{}, fmt.Errorf("openlibrary work %s: %w", id, err)
	}
	return w.raw(), nil
}
