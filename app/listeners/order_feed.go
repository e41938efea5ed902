// Package listeners reacts to application events.
package listeners

import (
	"context"
	"encoding/json"

	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/freshchoice/storefront/pkg/logger"
)

// Publisher receives encoded messages; *ws.Hub satisfies it.
type Publisher interface {
	Publish(msg []byte) bool
}

// feedMessage is what pick stations receive on /ws/orders.
type feedMessage struct {
	Type  string               `json:"type"`
	Order services.OrderPlaced `json:"order"`
}

// RegisterOrderFeed forwards every placed order to pub.
func RegisterOrderFeed(bus *event.Bus, pub Publisher) {
	bus.Listen(event.OrderPlaced, func(ctx context.Context, payload any) {
		order, ok := payload.(services.OrderPlaced)
		if !ok {
			return
		}

		msg, err := json.Marshal(feedMessage{Type: event.OrderPlaced, Order: order})
		if err != nil {
			logger.WithCtx(ctx).Error("order feed: encode", "order_id", order.OrderID, "error", err)
			return
		}
		if !pub.Publish(msg) {
			logger.WithCtx(ctx).Warn("order feed: hub busy, message dropped", "order_id", order.OrderID)
		}
	})
}
