package ratelimit

import (
	"context"
	"time"
)

// FallbackLimiter tries primary and answers from fallback when primary errors.
// It fails open: a broken shared store never blocks submissions.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
	onError  func(error)
}

func NewFallbackLimiter(primary, fallback Limiter, onError func(error)) *FallbackLimiter {
	if onError == nil {
		onError = func(error) {}
	}
	return &FallbackLimiter{primary: primary, fallback: fallback, onError: onError}
}

func (f *FallbackLimiter) Limit() int { return f.primary.Limit() }

func (f *FallbackLimiter) Window() time.Duration { return f.primary.Window() }

func (f *FallbackLimiter) Hit(ctx context.Context, key string) (Decision, error) {
	d, err := f.primary.Hit(ctx, key)
	if err == nil {
		return d, nil
	}
	f.onError(err)
	return f.fallback.Hit(ctx, key)
}
