package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/brickmark/goapi/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")
)

// Pools groups the connection pools the service draws from. Src is the
// primary pool.
type Pools struct {
	Src *redis.Pool
}

// Service is the subset of redis commands the marketplace uses: plain
// key/value for the read cache, struct helpers for cached entities, and
// Publish for the event feed.
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error
	GetStruct(context ctx.Ctx, key string, val interface{}) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	Incr(context ctx.Ctx, key string) (int64, error)
	TTL(context ctx.Ctx, key string) (int64, error)
	Publish(context ctx.Ctx, channel string, message []byte) error
}
