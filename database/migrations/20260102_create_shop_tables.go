package migrations

import (
	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/pkg/migration"
	"github.com/freshchoice/storefront/pkg/session"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260102000000_create_product_table", &CreateProductTable{})
	migration.Register("20260102000001_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260102000002_create_sessions_table", &CreateSessionsTable{})
}

// -------- 0003: product --------

type CreateProductTable struct{}

func (m *CreateProductTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// -------- 0004: orders + order_lines --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderLine{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderLine{}, &models.Order{})
}

// -------- 0005: sessions --------

type CreateSessionsTable struct{}

func (m *CreateSessionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&session.Record{})
}

func (m *CreateSessionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&session.Record{})
}
