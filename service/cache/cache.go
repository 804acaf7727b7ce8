package cache

import (
	"errors"
	"time"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/service/cache/provider"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// OneTimeGetter loads the value on a cache miss
type OneTimeGetter func() (interface{}, error)

// Service is a typed cache over a raw provider. Values are json encoded.
type Service interface {
	// GetByFunc fills container from cache, falling back to getter and
	// caching its result on a miss
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl   time.Duration
	Pfx   string
	Cache provider.Provider
}
