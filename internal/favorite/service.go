package favorite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/logging"
)

// StoreKey is the fixed key the favorites list is saved under.
const StoreKey = "favorites"

type Service struct {
	store    Store
	resolver Resolver
}

func NewService(store Store, resolver Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

// Load reads the owner's favorites. A list that was never saved is empty;
// any other store failure wraps ErrStoreUnavailable. A list that cannot be
// decoded is logged and treated as empty so the next save replaces it.
func (s *Service) Load(ctx context.Context, owner string) (Set, error) {
	raw, err := s.store.Get(ctx, owner, StoreKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Set{}, nil
		}
		return Set{}, fmt.Errorf("load favorites: %w: %w", ErrStoreUnavailable, err)
	}
	if raw == "" {
		return Set{}, nil
	}

	var set Set
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("owner", owner).Msg("discarding unreadable favorites list")
		return Set{}, nil
	}
	return set, nil
}

func (s *Service) Save(ctx context.Context, owner string, set Set) error {
	b, err := json.Marshal(set)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, owner, StoreKey, string(b)); err != nil {
		return fmt.Errorf("save favorites: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Keys returns the persisted keys in insertion order.
func (s *Service) Keys(ctx context.Context, owner string) ([]string, error) {
	set, err := s.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return set.Strings(), nil
}

// List resolves the owner's favorites into books, dropping keys that no
// longer resolve.
func (s *Service) List(ctx context.Context, owner string) ([]catalog.Book, error) {
	set, err := s.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return Resolve(ctx, set.Keys(), s.resolver), nil
}

// Toggle flips the favorite state of the book identified by rawKey and
// returns the new state. A key stored verbatim can always be removed, even
// when the book no longer resolves.
func (s *Service) Toggle(ctx context.Context, owner, rawKey string) (bool, error) {
	set, err := s.Load(ctx, owner)
	if err != nil {
		return false, err
	}

	b, err := s.resolve(ctx, rawKey)
	if err != nil {
		key := strings.TrimSpace(rawKey)
		if !set.Contains(key) {
			return false, err
		}
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("removing favorite that no longer resolves")
		return false, s.Save(ctx, owner, set.withoutValue(key))
	}

	next := Toggle(set, b)
	if err := s.Save(ctx, owner, next); err != nil {
		return false, err
	}
	return IsFavorite(next, b), nil
}

// IsFavorite reports whether the book identified by rawKey is a favorite. A
// key stored verbatim answers without a lookup.
func (s *Service) IsFavorite(ctx context.Context, owner, rawKey string) (bool, error) {
	set, err := s.Load(ctx, owner)
	if err != nil {
		return false, err
	}
	if set.Contains(rawKey) {
		return true, nil
	}

	b, err := s.resolve(ctx, rawKey)
	if err != nil {
		return false, err
	}
	return IsFavorite(set, b), nil
}

func (s *Service) resolve(ctx context.Context, rawKey string) (catalog.Book, error) {
	k := ParseKey(rawKey)
	if k.Value == "" {
		return catalog.Book{}, ErrUnresolvable
	}
	b, err := s.resolver.Resolve(ctx, k)
	if err != nil {
		if errors.Is(err, ErrLookupUnavailable) {
			return catalog.Book{}, err
		}
		return catalog.Book{}, fmt.Errorf("%w: %w", ErrUnresolvable, err)
	}
	return b, nil
}
