package migrations

import (
	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_klant_tables", &CreateKlantTables{})
	migration.Register("20260101000001_create_allergenen_tables", &CreateAllergenenTables{})
}

// -------- 0001: klant + klantinformatie --------

type CreateKlantTables struct{}

func (m *CreateKlantTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Profile{})
}

func (m *CreateKlantTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Profile{}, &models.User{})
}

// -------- 0002: allergenen + klant_allergenen --------

type CreateAllergenenTables struct{}

func (m *CreateAllergenenTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Allergen{}, &models.UserAllergen{})
}

func (m *CreateAllergenenTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.UserAllergen{}, &models.Allergen{})
}
