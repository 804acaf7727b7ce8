package redis

import (
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/metrics"
)

type redImpl struct {
	name  string
	met   metrics.Service
	pools *Pools
}

// New redis service
func New(name string, metrics metrics.Service, pools *Pools) Service {
	im := &redImpl{
		name:  name,
		met:   metrics,
		pools: pools,
	}

	return im
}

func (r *redImpl) getConn(command string) (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pools.Src.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}

	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn(commandName)
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// Closing conn explicitly asap improves redigo's performance,
	// because the longer a connection is held the more connections the
	// pool needs to handle at the same time.
	if closeErr := conn.Close(); closeErr != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	defer r.met.BumpTime("latency", "cluster", r.name, "cmd", "get").End()

	reply, err := r.connDo(context, "GET", key)
	if err != nil {
		r.met.BumpSum("get.err", 1, "cluster", r.name)
		return nil, err
	}
	if reply == nil {
		return nil, ErrNotFound
	}
	return redis.Bytes(reply, err)
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	defer r.met.BumpTime("latency", "cluster", r.name, "cmd", "set").End()

	var err error
	if expire > 0 {
		_, err = r.connDo(context, "SET", key, val, "PX", int64(expire/time.Millisecond))
	} else {
		_, err = r.connDo(context, "SET", key, val)
	}
	if err != nil {
		r.met.BumpSum("set.err", 1, "cluster", r.name)
		context.WithFields(log.Fields{"key": key, "err": err}).Error("redis Set failed")
	}
	return err
}

func (r *redImpl) SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		context.WithFields(log.Fields{"key": key, "err": err}).Error("SetStruct marshal failed")
		return err
	}
	return r.Set(context, key, data, expire)
}

func (r *redImpl) GetStruct(context ctx.Ctx, key string, val interface{}) error {
	data, err := r.Get(context, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, val); err != nil {
		context.WithFields(log.Fields{"key": key, "err": err}).Error("GetStruct unmarshal failed")
		return err
	}
	return nil
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	defer r.met.BumpTime("latency", "cluster", r.name, "cmd", "del").End()

	args := make([]interface{}, len(ks))
	for i, k := range ks {
		args[i] = k
	}
	reply, err := r.connDo(context, "DEL", args...)
	if err != nil {
		r.met.BumpSum("del.err", 1, "cluster", r.name)
		return 0, err
	}
	return redis.Int(reply, err)
}

func (r *redImpl) Incr(context ctx.Ctx, key string) (int64, error) {
	defer r.met.BumpTime("latency", "cluster", r.name, "cmd", "incr").End()

	reply, err := r.connDo(context, "INCR", key)
	if err != nil {
		r.met.BumpSum("incr.err", 1, "cluster", r.name)
		return 0, err
	}
	return redis.Int64(reply, err)
}

// TTL returns the remaining time to live of key in seconds
func (r *redImpl) TTL(context ctx.Ctx, key string) (int64, error) {
	defer r.met.BumpTime("latency", "cluster", r.name, "cmd", "ttl").End()

	reply, err := r.connDo(context, "TTL", key)
	if err != nil {
		r.met.BumpSum("ttl.err", 1, "cluster", r.name)
		return 0, err
	}
	return redis.Int64(reply, err)
}

func (r *redImpl) Publish(context ctx.Ctx, channel string, message []byte) error {
	defer r.met.BumpTime("latency", "cluster", r.name, "cmd", "publish").End()

	if _, err := r.connDo(context, "PUBLISH", channel, message); err != nil {
		r.met.BumpSum("publish.err", 1, "cluster", r.name)
		return err
	}
	return nil
}
