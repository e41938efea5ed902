package controllers

import (
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store handles POST /api/orders for guests and signed-in users alike.
func (h *OrderController) Store(c *ctx.Context) {
	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}

	var userID *uint
	if uid, ok := c.UserID(); ok {
		userID = &uid
	}

	receipt, err := h.orders.Checkout(c.Context(), userID, in.Items)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(receipt)
}
