package listeners_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/freshchoice/storefront/app/listeners"
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct{ msgs [][]byte }

func (c *capture) Publish(msg []byte) bool {
	c.msgs = append(c.msgs, msg)
	return true
}

func TestOrderFeedPublishesPlacedOrders(t *testing.T) {
	bus := event.New()
	pub := &capture{}
	listeners.RegisterOrderFeed(bus, pub)

	bus.Fire(context.Background(), event.OrderPlaced, services.OrderPlaced{OrderID: 12, Barcode: "020100"})
	bus.Fire(context.Background(), event.OrderPlaced, "not an order")

	require.Len(t, pub.msgs, 1)
	var got struct {
		Type  string `json:"type"`
		Order struct {
			OrderID uint   `json:"order_id"`
			Barcode string `json:"barcode"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(pub.msgs[0], &got))
	assert.Equal(t, "order.placed", got.Type)
	assert.Equal(t, uint(12), got.Order.OrderID)
	assert.Equal(t, "020100", got.Order.Barcode)
}
