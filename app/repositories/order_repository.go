package repositories

import (
	"context"

	"github.com/freshchoice/storefront/app/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its lines.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Find loads an order with its lines.
func (r *OrderRepository) Find(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_id")
	}).Take(&o, id).Error
	return o, err
}

// Count returns the number of orders, optionally for one user.
func (r *OrderRepository) Count(ctx context.Context, userID *uint) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if userID != nil {
		q = q.Where("klant_id = ?", *userID)
	}
	err := q.Count(&n).Error
	return n, err
}
