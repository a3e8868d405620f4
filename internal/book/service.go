package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/catalog"
	"bookshelf/internal/favorite"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/platform/provider"
)

// Service looks books up through the configured provider.
type Service struct {
	provider Provider
	mapper   *catalog.Mapper
}

// NewService creates a new book service.
func NewService(p Provider, mapper *catalog.Mapper) *Service {
	return &Service{provider: p, mapper: mapper}
}

// Search returns one page of mapped, deduplicated results. A non-empty
// cursor continues the query it was issued for.
func (s *Service) Search(ctx context.Context, query, cursor string, limit int) (Page, error) {
	query = strings.TrimSpace(query)
	c, err := DecodeCursor(cursor)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	if cursor != "" {
		if query != "" && query != c.Query {
			return Page{}, ErrInvalidCursor
		}
		query = c.Query
	}
	if query == "" {
		return Page{}, ErrInvalidQuery
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if c.Offset < 0 {
		c.Offset = 0
	}

	raw, err := s.provider.Search(ctx, query, c.Offset, limit)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	page := Page{Books: catalog.Dedupe(raw, s.mapper)}
	if len(raw) >= limit {
		page.NextCursor = EncodeCursor(CursorData{Query: query, Offset: c.Offset + limit})
	}
	return page, nil
}

// Get looks a book up by provider id, falling back to an ISBN search for
// keys stored before ids were used.
func (s *Service) Get(ctx context.Context, key string) (catalog.Book, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return catalog.Book{}, ErrNotFound
	}

	raw, err := s.provider.Volume(ctx, key)
	if err == nil {
		return s.mapper.Map(raw), nil
	}
	if ctx.Err() != nil {
		return catalog.Book{}, ctx.Err()
	}
	if !errors.Is(err, provider.ErrNotFound) {
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("volume lookup failed, trying isbn")
	}

	hits, err := s.provider.Search(ctx, "isbn:"+key, 0, 1)
	if err != nil {
		return catalog.Book{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(hits) == 0 {
		return catalog.Book{}, ErrNotFound
	}

	b := s.mapper.Map(hits[0])
	b.ISBN = key
	return b, nil
}

// Resolve implements favorite.Resolver. Structural keys carry the whole
// record and are decoded without a lookup.
func (s *Service) Resolve(ctx context.Context, key favorite.Key) (catalog.Book, error) {
	if key.Kind == favorite.Structural {
		var b catalog.Book
		if err := json.Unmarshal([]byte(key.Value), &b); err != nil {
			return catalog.Book{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return b, nil
	}
	b, err := s.Get(ctx, key.Value)
	if errors.Is(err, ErrUpstream) {
		return catalog.Book{}, fmt.Errorf("%w: %w", favorite.ErrLookupUnavailable, err)
	}
	return b, err
}
