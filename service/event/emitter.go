package event

import (
	"encoding/json"
	"time"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/metrics"
	"github.com/brickmark/goapi/domain/event"
	"github.com/brickmark/goapi/service/redis"
)

const channelPrefix = "marketplace.events."

type emitterImpl struct {
	redis redis.Service
	met   metrics.Service
}

// New returns an emitter publishing events on redis pub/sub, one channel per
// topic. Emit is best effort: failures are logged and counted, never
// propagated, so a dead feed can not roll back a mutation.
func New(redis redis.Service) event.Emitter {
	return &emitterImpl{
		redis: redis,
		met:   metrics.New("event"),
	}
}

func (im *emitterImpl) Emit(c ctx.Ctx, topic event.Topic, payload interface{}) {
	ev := event.Event{
		Topic:     topic,
		Payload:   payload,
		EmittedAt: time.Now(),
	}

	data, err := json.Marshal(&ev)
	if err != nil {
		im.met.BumpSum("emit.err", 1, "topic", string(topic))
		c.WithFields(log.Fields{
			"topic": topic,
			"err":   err,
		}).Error("failed to marshal event")
		return
	}

	if err := im.redis.Publish(c, channelPrefix+string(topic), data); err != nil {
		im.met.BumpSum("emit.err", 1, "topic", string(topic))
		c.WithFields(log.Fields{
			"topic": topic,
			"err":   err,
		}).Error("failed to publish event")
		return
	}

	im.met.BumpSum("emit", 1, "topic", string(topic))
}
