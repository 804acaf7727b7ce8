package provider

import (
	"errors"
	"time"

	"github.com/brickmark/goapi/base/ctx"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// Provider is a raw byte cache. Get returns the remaining ttl alongside the
// value so layered caches can forward fill without resetting expiry.
type Provider interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
