package utils

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryDelay decides how long to pause before the given retry attempt.
type RetryDelay interface {
	Wait(ctx context.Context, taskName string, attempt int) error
}

// ConstantDelay waits Period before every retry.
type ConstantDelay struct {
	Period time.Duration
}

func (d ConstantDelay) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepCtx(ctx, d.Period)
}

// ExponentialBackoff waits Base*2^attempt capped at Max, plus up to Jitter.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter time.Duration
}

func (b ExponentialBackoff) Duration(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = time.Second
	}
	limit := b.Max
	if limit <= 0 {
		limit = 10 * time.Second
	}
	if attempt < 0 {
		attempt = 0
	}
	d := base
	for i := 0; i < attempt && d < limit; i++ {
		d *= 2
	}
	if d > limit {
		d = limit
	}
	if b.Jitter > 0 {
		d += time.Duration(rand.Int64N(int64(b.Jitter)))
	}
	return d
}

func (b ExponentialBackoff) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepCtx(ctx, b.Duration(attempt))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
