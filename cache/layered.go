package cache

import (
	"context"
	"errors"

	"github.com/joy-dx/rxnet/dto"
)

// Layered serves reads from a fast front store and falls back to a
// persistent back store, promoting hits. Writes go to both.
type Layered struct {
	front dto.CacheStore
	back  dto.CacheStore
}

func NewLayered(front, back dto.CacheStore) *Layered {
	return &Layered{front: front, back: back}
}

func (l *Layered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, found, err := l.front.Get(ctx, key); err == nil && found {
		return data, true, nil
	}
	data, found, err := l.back.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	// promotion failure only costs a later back-store read
	_ = l.front.Set(ctx, key, data)
	return data, true, nil
}

func (l *Layered) Set(ctx context.Context, key string, data []byte) error {
	if err := l.back.Set(ctx, key, data); err != nil {
		return err
	}
	return l.front.Set(ctx, key, data)
}

func (l *Layered) Delete(ctx context.Context, key string) error {
	return errors.Join(l.front.Delete(ctx, key), l.back.Delete(ctx, key))
}

func (l *Layered) DeleteAll(ctx context.Context) error {
	return errors.Join(l.front.DeleteAll(ctx), l.back.DeleteAll(ctx))
}
