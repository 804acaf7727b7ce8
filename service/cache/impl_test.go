package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/service/cache/provider/primitive"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetByFunc(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	svc := New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "test",
		Cache: primitive.NewPrimitive("test", 1),
	})

	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &payload{Name: "first", Count: 7}, nil
	}

	res := &payload{}
	req.NoError(svc.GetByFunc(c, "key", res, getter))
	req.Equal(&payload{Name: "first", Count: 7}, res)
	req.Equal(1, calls)

	// second read hits the cache, getter not invoked again
	res = &payload{}
	req.NoError(svc.GetByFunc(c, "key", res, getter))
	req.Equal(&payload{Name: "first", Count: 7}, res)
	req.Equal(1, calls)

	req.NoError(svc.Del(c, "key"))

	res = &payload{}
	req.NoError(svc.GetByFunc(c, "key", res, getter))
	req.Equal(2, calls)
}

func TestGetMissing(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	svc := New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "test",
		Cache: primitive.NewPrimitive("test", 1),
	})

	res := &payload{}
	req.Equal(ErrNotFound, svc.Get(c, "missing", res))
}
