package book

import (
	"context"

	"bookshelf/internal/catalog"
)

//go:generate mockgen -source=ports.go -destination=mock_provider_test.go -package=book

// Provider is a remote book search service.
type Provider interface {
	Search(ctx context.Context, query string, startIndex, maxResults int) ([]catalog.RawBook, error)
	// Volume fetches one record by its provider id. An unknown id must
	// wrap provider.ErrNotFound.
	Volume(ctx context.Context, id string) (catalog.RawBook, error)
}
