// Package event defines the best effort marketplace event feed. Emit
// failures must never roll back the mutation that produced the event.
package event

import (
	"time"

	"github.com/brickmark/goapi/base/ctx"
)

type Topic string

const (
	TopicListingCreated   Topic = "listing_created"
	TopicListingCancelled Topic = "listing_cancelled"
	TopicListingSold      Topic = "listing_sold"
	TopicListingExpired   Topic = "listing_expired"
	TopicBidPlaced        Topic = "bid_placed"
	TopicBidAccepted      Topic = "bid_accepted"
	TopicBidWithdrawn     Topic = "bid_withdrawn"
	TopicTradeCreated     Topic = "trade_created"
	TopicTradeCompleted   Topic = "trade_completed"
	TopicTradeFailed      Topic = "trade_failed"
	TopicTradeDisputed    Topic = "trade_disputed"
)

type Event struct {
	Topic     Topic       `json:"topic"`
	Payload   interface{} `json:"payload"`
	EmittedAt time.Time   `json:"emittedAt"`
}

// Emitter publishes marketplace events to interested consumers
type Emitter interface {
	Emit(c ctx.Ctx, topic Topic, payload interface{})
}
