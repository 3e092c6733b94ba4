package repository

import "context"

// Store is the persistence contract shared by every aggregate.
type Store[T any] interface {
	Find(ctx context.Context, options ...Option) ([]T, error)
	FindOne(ctx context.Context, options ...Option) (T, error)
	Exists(ctx context.Context, options ...Option) (bool, error)
	Count(ctx context.Context, options ...Option) (int64, error)
	Save(ctx context.Context, entity T) (T, error)
}

// Deleter is implemented by stores whose entities can be removed.
type Deleter[T any] interface {
	Delete(ctx context.Context, entity T) error
}
