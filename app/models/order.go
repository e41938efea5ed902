package models

import "time"

// Order is a placed checkout (table orders). UserID is nil for guests.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    *uint       `gorm:"column:klant_id;index" json:"user_id"`
	Barcode   string      `gorm:"size:32;not null" json:"barcode"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	User      *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is the quantity of one product in an order.
type OrderLine struct {
	OrderID   uint     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ProductID uint     `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Qty       int      `gorm:"not null" json:"qty"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderLine) TableName() string { return "order_lines" }
