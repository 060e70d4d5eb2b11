package cache

import (
	"context"

	"github.com/pkg/errors"
)

// ErrMiss is returned by every backend when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

func (Nop) Set(context.Context, string, []byte) error {
	return nil
}
