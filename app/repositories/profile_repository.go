package repositories

import (
	"context"

	"github.com/freshchoice/storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// View returns the user joined with its (possibly missing) profile row.
func (r *ProfileRepository) View(ctx context.Context, userID uint) (models.ProfileView, error) {
	var view models.ProfileView
	err := r.db.WithContext(ctx).Table("klant").
		Select("klant.id, klant.naam AS name, klant.email, klantinformatie.adres AS address, klantinformatie.telefoonnummer AS phone").
		Joins("LEFT JOIN klantinformatie ON klantinformatie.klant_id = klant.id").
		Where("klant.id = ?", userID).
		Take(&view).Error
	return view, err
}

// Upsert writes the profile row for userID, creating it when absent.
func (r *ProfileRepository) Upsert(ctx context.Context, userID uint, address, phone *string) error {
	p := models.Profile{UserID: userID, Address: address, Phone: phone}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "klant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"adres", "telefoonnummer"}),
	}).Create(&p).Error
}
