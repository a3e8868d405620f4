package library

import (
	"context"
	"fmt"

	"bookshelf/internal/geo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Nearby returns the libraries with a usable location ordered by distance
// from ref, capped at limit.
func (s *Service) Nearby(ctx context.Context, ref geo.Point, limit int) ([]Nearby, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("library: invalid reference point %v", ref)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	libs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}

	out := geo.Annotate(ref, libs)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
