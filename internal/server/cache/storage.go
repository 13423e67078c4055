package cache

import (
	"context"
	"errors"
)

var ErrInvalidGeneration = errors.New("invalid generation name")

// Storage is a set of named generations.
//
// Put into a generation that was never opened creates it. Match returns
// (nil, nil) when the generation or the entry does not exist.
type Storage interface {
	Open(ctx context.Context, generation string) error
	Generations(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, generation string) (bool, error)
	Put(ctx context.Context, generation string, e Entry) error
	Match(ctx context.Context, generation, method, url string) (*Entry, error)
	Close() error
}

func validGeneration(name string) error {
	if name == "" {
		return ErrInvalidGeneration
	}
	for _, r := range name {
		if r == '/' {
			return ErrInvalidGeneration
		}
	}
	return nil
}
