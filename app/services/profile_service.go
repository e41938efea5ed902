package services

import (
	"context"
	"strings"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/app/repositories"
	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/database"
	"gorm.io/gorm"
)

// ProfileInput is the body of PUT /api/profile.
type ProfileInput struct {
	Name    string  `json:"name"    validate:"required,max=255"`
	Email   string  `json:"email"   validate:"required,email,max=255"`
	Address *string `json:"address" validate:"nullable,max=255"`
	Phone   *string `json:"phone"   validate:"nullable,phone,max=30"`
}

// AllergensInput is the body of PUT /api/my-allergens.
type AllergensInput struct {
	AllergenIDs []int64 `json:"allergen_ids"`
}

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (models.ProfileView, error) {
	view, err := repositories.NewProfileRepository(s.db).View(ctx, userID)
	if err != nil {
		return models.ProfileView{}, database.Classify(ctx, "profile.get", err)
	}
	return view, nil
}

// SaveProfile updates name and email and upserts the contact details. It
// returns the stored (normalized) view.
func (s *ProfileService) SaveProfile(ctx context.Context, userID uint, in ProfileInput) (models.ProfileView, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return models.ProfileView{}, apperr.Validation("Name and email are required.")
	}

	var view models.ProfileView
	err := database.Transact(ctx, s.db, "profile.save", func(tx *gorm.DB) error {
		users := repositories.NewUserRepository(tx)

		taken, err := users.EmailTaken(ctx, email, userID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.ErrDuplicateEmail
		}

		if err := users.UpdateIdentity(ctx, userID, name, email); err != nil {
			if database.IsDuplicate(err) {
				return apperr.ErrDuplicateEmail
			}
			return err
		}

		profiles := repositories.NewProfileRepository(tx)
		if err := profiles.Upsert(ctx, userID, optional(in.Address), optional(in.Phone)); err != nil {
			return err
		}

		view, err = profiles.View(ctx, userID)
		return err
	})
	return view, err
}

// ListAllergens returns every allergen ordered by name.
func (s *ProfileService) ListAllergens(ctx context.Context) ([]models.Allergen, error) {
	out, err := repositories.NewAllergenRepository(s.db).All(ctx)
	if err != nil {
		return nil, database.Classify(ctx, "allergens.list", err)
	}
	return out, nil
}

// GetAllergens returns the user's declared allergen ids ordered by name.
func (s *ProfileService) GetAllergens(ctx context.Context, userID uint) ([]uint, error) {
	out, err := repositories.NewAllergenRepository(s.db).ForUser(ctx, userID)
	if err != nil {
		return nil, database.Classify(ctx, "allergens.get", err)
	}
	return out, nil
}

// SaveAllergens replaces the user's set atomically. Non-positive and repeated
// ids are dropped; unknown ids fail the whole call and leave the old set.
func (s *ProfileService) SaveAllergens(ctx context.Context, userID uint, ids []int64) ([]uint, error) {
	clean := cleanIDs(ids)

	var saved []uint
	err := database.Transact(ctx, s.db, "allergens.save", func(tx *gorm.DB) error {
		if err := replaceAllergens(ctx, tx, userID, clean); err != nil {
			return err
		}
		var err error
		saved, err = repositories.NewAllergenRepository(tx).ForUser(ctx, userID)
		return err
	})
	return saved, err
}
