package googlebooks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/provider"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	// MaxPageSize is the largest maxResults the volumes endpoint accepts.
	MaxPageSize = 40
)

type Client struct {
	fetch   *provider.Fetcher
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string, opts provider.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Name == "" {
		opts.Name = "googlebooks"
	}
	return &Client{
		fetch:   provider.NewFetcher(opts),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// volumesResponse matches GET /volumes.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// volume matches GET /volumes/{id} and each search item.
type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Categories          []string             `json:"categories"`
	IndustryIdentifiers []catalog.Identifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	ImageLinks          catalog.ImageLinks   `json:"imageLinks"`
}

func (v volume) raw() catalog.RawBook {
	return catalog.RawBook{
		ID:            v.ID,
		Title:         v.VolumeInfo.Title,
		Authors:       v.VolumeInfo.Authors,
		Categories:    v.VolumeInfo.Categories,
		Identifiers:   v.VolumeInfo.IndustryIdentifiers,
		PageCount:     v.VolumeInfo.PageCount,
		PublishedDate: v.VolumeInfo.PublishedDate,
		Description:   v.VolumeInfo.Description,
		ImageLinks:    v.VolumeInfo.ImageLinks,
	}
}

// Search runs a volumes query. maxResults is clamped to [1, MaxPageSize].
func (c *Client) Search(ctx context.Context, query string, startIndex, maxResults int) ([]catalog.RawBook, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}
	if startIndex < 0 {
		startIndex = 0
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("startIndex", strconv.Itoa(startIndex))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	var res volumesResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/volumes?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("googlebooks search %q: %w", query, err)
	}

	books := make([]catalog.RawBook, 0, len(res.Items))
	for _, item := range res.Items {
		books = append(books, item.raw())
	}
	return books, nil
}

// Volume fetches one volume by id. An unknown id wraps provider.ErrNotFound.
func (c *Client) Volume(ctx context.Context, id string) (catalog.RawBook, error) {
	if strings.TrimSpace(id) == "" {
		return catalog.RawBook{}, provider.ErrNotFound
	}

	u := c.baseURL + "/volumes/" + url.PathEscape(id)
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}

	var v volume
	if err := c.fetch.GetJSON(ctx, u, &v); err != nil {
		return catalog.RawBook{}, fmt.Errorf("googlebooks volume %s: %w", id, err)
	}
	if v.ID == "" {
		return catalog.RawBook{}, fmt.Errorf("googlebooks volume %s: %w", id, provider.ErrNotFound)
	}
	return v.raw(), nil
}
