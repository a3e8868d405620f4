package library

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository_test.go -package=library

// Repository defines the contract for library storage.
type Repository interface {
	List(ctx context.Context) ([]Library, error)
	Create(ctx context.Context, l *Library) error
}
