package book

import (
	"errors"

	"bookshelf/internal/catalog"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidQuery is returned for an empty search.
	ErrInvalidQuery = errors.New("book: search query is required")
	// ErrInvalidCursor is returned for a cursor that cannot be decoded or
	// belongs to another query.
	ErrInvalidCursor = errors.New("book: invalid cursor")
	// ErrUpstream wraps provider failures other than not found.
	ErrUpstream = errors.New("book: provider unavailable")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 40
)

// Page is one page of search results.
type Page struct {
	Books      []catalog.Book `json:"books"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
