package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/app/repositories"
	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/barcode"
	"github.com/freshchoice/storefront/pkg/database"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/metrics"
	"github.com/freshchoice/storefront/pkg/storage"
	"gorm.io/gorm"
)

// LineItem is one cart entry. Both fields are plain JSON numbers so that
// negative or fractional values reach validation instead of failing decode.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Qty       float64 `json:"qty"`
}

// CheckoutInput is the body of POST /api/orders.
type CheckoutInput struct {
	Items []LineItem `json:"items"`
}

// Receipt is what the client gets back after a successful checkout.
type Receipt struct {
	ID               uint   `json:"id"`
	Barcode          string `json:"barcode"`
	BarcodeImage     string `json:"barcode_image"`
	BarcodeURL       string `json:"barcode_url,omitempty"`
	AllergenWarnings []uint `json:"allergen_warnings"`
}

// OrderPlaced is the event.OrderPlaced payload.
type OrderPlaced struct {
	OrderID   uint               `json:"order_id"`
	UserID    *uint              `json:"user_id"`
	Barcode   string             `json:"barcode"`
	Lines     []models.OrderLine `json:"lines"`
	CreatedAt time.Time          `json:"created_at"`
}

type OrderService struct {
	db   *gorm.DB
	disk storage.Disk
	bus  *event.Bus
}

// NewOrderService wires checkout. disk and bus may be nil: barcodes are then
// not archived and no event is fired.
func NewOrderService(db *gorm.DB, disk storage.Disk, bus *event.Bus) *OrderService {
	return &OrderService{db: db, disk: disk, bus: bus}
}

// BarcodePath is where the PNG of an order is archived on the storage disk.
func BarcodePath(orderID uint) string {
	return "barcodes/" + strconv.FormatUint(uint64(orderID), 10) + ".png"
}

// Checkout validates the cart, persists the order with its lines in one
// transaction and returns the receipt. userID is nil for guests.
func (s *OrderService) Checkout(ctx context.Context, userID *uint, items []LineItem) (Receipt, error) {
	if len(items) == 0 {
		return Receipt{}, apperr.ErrEmptyCart
	}

	var (
		order    models.Order
		png      []byte
		warnings = []uint{}
		units    = map[string]int{}
	)

	err := database.Transact(ctx, s.db, "checkout", func(tx *gorm.DB) error {
		catalog, err := repositories.NewProductRepository(tx, nil).Fresh(ctx)
		if err != nil {
			return err
		}

		qty, err := sumLines(catalog, items)
		if err != nil {
			return err
		}

		slots := make([]int, len(catalog))
		for i, p := range catalog {
			slots[i] = qty[p.ID]
		}
		payload, err := barcode.Payload(slots)
		if err != nil {
			return apperr.InvalidLineItem(err.Error())
		}
		if png, err = barcode.PNG(payload); err != nil {
			return fmt.Errorf("checkout: render barcode: %w", err)
		}

		order = models.Order{UserID: userID, Barcode: payload}
		for _, p := range catalog {
			if qty[p.ID] > 0 {
				order.Lines = append(order.Lines, models.OrderLine{ProductID: p.ID, Qty: qty[p.ID]})
				units[p.Name] += qty[p.ID]
			}
		}
		if err := repositories.NewOrderRepository(tx).Create(ctx, &order); err != nil {
			return err
		}

		if userID == nil {
			return nil
		}
		declared, err := repositories.NewAllergenRepository(tx).ForUser(ctx, *userID)
		if err != nil {
			return err
		}
		warnings = collisions(catalog, qty, declared)
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	metrics.RecordOrder(units)
	log := logger.WithCtx(ctx)
	log.Info("order placed", "order_id", order.ID, "barcode", order.Barcode, "guest", userID == nil)

	receipt := Receipt{
		ID:               order.ID,
		Barcode:          order.Barcode,
		BarcodeImage:     barcode.DataURL(png),
		AllergenWarnings: warnings,
	}

	if s.disk != nil {
		path := BarcodePath(order.ID)
		if err := s.disk.Put(ctx, path, png, "image/png"); err != nil {
			log.Warn("order: archive barcode failed", "order_id", order.ID, "disk", s.disk.Name(), "error", err)
		} else {
			receipt.BarcodeURL = s.disk.URL(path)
		}
	}

	if s.bus != nil {
		s.bus.FireAsync(ctx, event.OrderPlaced, OrderPlaced{
			OrderID:   order.ID,
			UserID:    order.UserID,
			Barcode:   order.Barcode,
			Lines:     order.Lines,
			CreatedAt: order.CreatedAt,
		})
	}

	return receipt, nil
}

// sumLines checks every line against the catalog and merges repeated
// products. The merged quantity is capped by barcode.MaxQty.
func sumLines(catalog []models.Product, items []LineItem) (map[uint]int, error) {
	known := make(map[uint]bool, len(catalog))
	for _, p := range catalog {
		known[p.ID] = true
	}

	qty := make(map[uint]int, len(items))
	for _, it := range items {
		if it.ProductID <= 0 || !known[uint(it.ProductID)] {
			return nil, apperr.InvalidLineItem(fmt.Sprintf("Unknown product %d.", it.ProductID))
		}
		if it.Qty < 1 || it.Qty != math.Trunc(it.Qty) || it.Qty > barcode.MaxQty {
			return nil, apperr.InvalidLineItem(fmt.Sprintf("Quantity for product %d must be a whole number between 1 and %d.", it.ProductID, barcode.MaxQty))
		}

		id := uint(it.ProductID)
		qty[id] += int(it.Qty)
		if qty[id] > barcode.MaxQty {
			return nil, apperr.InvalidLineItem(fmt.Sprintf("Quantity for product %d may not exceed %d.", id, barcode.MaxQty))
		}
	}
	return qty, nil
}

// collisions lists ordered products, by id, whose allergen the user declared.
func collisions(catalog []models.Product, qty map[uint]int, declared []uint) []uint {
	set := make(map[uint]bool, len(declared))
	for _, id := range declared {
		set[id] = true
	}

	out := []uint{}
	for _, p := range catalog {
		if qty[p.ID] > 0 && p.AllergenID != nil && set[*p.AllergenID] {
			out = append(out, p.ID)
		}
	}
	return out
}
