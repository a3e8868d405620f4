package favorite

import (
	"context"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/logging"
)

// Resolver looks a favorite key up. Implementations try the canonical id
// first and fall back to an ISBN search.
type Resolver interface {
	Resolve(ctx context.Context, key Key) (catalog.Book, error)
}

type ResolverFunc func(ctx context.Context, key Key) (catalog.Book, error)

func (f ResolverFunc) Resolve(ctx context.Context, key Key) (catalog.Book, error) {
	return f(ctx, key)
}

// IsFavorite reports whether b is in s under its id or its ISBN.
func IsFavorite(s Set, b catalog.Book) bool {
	for _, k := range s.keys {
		if k.Matches(b) {
			return true
		}
	}
	return false
}

// Toggle returns a new set with b removed (every key that matches it) when it
// was a favorite, or added under IdentityKey otherwise. s is not modified.
func Toggle(s Set, b catalog.Book) Set {
	if IsFavorite(s, b) {
		return s.without(b)
	}
	return s.with(IdentityKey(b))
}

// Resolve looks up every key in order. Keys that fail to resolve are dropped
// without retry and do not stop the others. Records resolving to the same
// book are collapsed, first one wins.
func Resolve(ctx context.Context, keys []Key, r Resolver) []catalog.Book {
	books := make([]catalog.Book, 0, len(keys))
	for _, k := range keys {
		b, err := r.Resolve(ctx, k)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).
				Str("key", k.Value).
				Str("kind", k.Kind.String()).
				Msg("favorite not resolved")
			continue
		}
		books = append(books, b)
	}
	return catalog.DedupeBooks(books)
}
