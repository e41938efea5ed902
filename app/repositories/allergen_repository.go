package repositories

import (
	"context"

	"github.com/freshchoice/storefront/app/models"
	"gorm.io/gorm"
)

type AllergenRepository struct {
	db *gorm.DB
}

func NewAllergenRepository(db *gorm.DB) *AllergenRepository {
	return &AllergenRepository{db: db}
}

// All returns every allergen ordered by name.
func (r *AllergenRepository) All(ctx context.Context) ([]models.Allergen, error) {
	out := []models.Allergen{}
	err := r.db.WithContext(ctx).Order("naam").Find(&out).Error
	return out, err
}

// ExistingIDs returns the subset of ids that exist.
func (r *AllergenRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	out := []uint{}
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Allergen{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error
	return out, err
}

// ForUser returns the user's declared allergen ids ordered by allergen name.
func (r *AllergenRepository) ForUser(ctx context.Context, userID uint) ([]uint, error) {
	out := []uint{}
	err := r.db.WithContext(ctx).Table("klant_allergenen").
		Joins("JOIN allergenen ON allergenen.id = klant_allergenen.allergeen_id").
		Where("klant_allergenen.klant_id = ?", userID).
		Order("allergenen.naam").
		Pluck("klant_allergenen.allergeen_id", &out).Error
	if out == nil {
		out = []uint{}
	}
	return out, err
}

// Replace deletes the user's links and inserts ids. Run it inside a
// transaction so a failed insert restores the previous set.
func (r *AllergenRepository) Replace(ctx context.Context, userID uint, ids []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("klant_id = ?", userID).Delete(&models.UserAllergen{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.UserAllergen, len(ids))
	for i, id := range ids {
		rows[i] = models.UserAllergen{UserID: userID, AllergenID: id}
	}
	return db.Create(&rows).Error
}
