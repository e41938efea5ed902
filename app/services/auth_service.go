package services

import (
	"context"
	"errors"
	"strings"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/app/repositories"
	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/auth"
	"github.com/freshchoice/storefront/pkg/database"
	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/metrics"
	"gorm.io/gorm"
)

// RegisterInput is the body of POST /api/register.
type RegisterInput struct {
	Name        string  `json:"name"         validate:"required,max=255"`
	Email       string  `json:"email"        validate:"required,email,max=255"`
	Password    string  `json:"password"     validate:"required,max=72"`
	Address     *string `json:"address"      validate:"nullable,max=255"`
	Phone       *string `json:"phone"        validate:"nullable,phone,max=30"`
	AllergenIDs []int64 `json:"allergen_ids"`
}

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates the user, the profile row and any declared allergens in
// one transaction and returns the new user id.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return 0, apperr.Validation("Name, email and password are required.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if auth.IsTooLong(err) {
			return 0, apperr.Validation("The password may not be greater than 72 bytes.")
		}
		return 0, apperr.Database(err)
	}

	allergenIDs := cleanIDs(in.AllergenIDs)
	user := models.User{Name: name, Email: email, PasswordHash: hash}

	err = database.Transact(ctx, s.db, "register", func(tx *gorm.DB) error {
		users := repositories.NewUserRepository(tx)

		taken, err := users.EmailTaken(ctx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.ErrDuplicateEmail
		}

		if err := users.Create(ctx, &user); err != nil {
			if database.IsDuplicate(err) {
				return apperr.ErrDuplicateEmail
			}
			return err
		}

		if err := repositories.NewProfileRepository(tx).Upsert(ctx, user.ID, optional(in.Address), optional(in.Phone)); err != nil {
			return err
		}

		return replaceAllergens(ctx, tx, user.ID, allergenIDs)
	})
	if err != nil {
		return 0, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return user.ID, nil
}

// Verify checks credentials. Unknown email and wrong password are the same
// InvalidCredentials failure.
func (s *AuthService) Verify(ctx context.Context, email, password string) (models.User, error) {
	user, err := repositories.NewUserRepository(s.db).FindByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, database.Classify(ctx, "login", err)
	}

	// An empty hash still runs a full bcrypt compare.
	if !auth.CheckPassword(user.PasswordHash, password) {
		metrics.RecordLogin(false)
		return models.User{}, apperr.ErrInvalidCredentials
	}

	metrics.RecordLogin(true)
	return user, nil
}

// Me returns the session user.
func (s *AuthService) Me(ctx context.Context, userID uint) (models.User, error) {
	user, err := repositories.NewUserRepository(s.db).FindByID(ctx, userID)
	if err != nil {
		return models.User{}, database.Classify(ctx, "me", err)
	}
	return user, nil
}

// replaceAllergens rejects unknown ids and swaps the user's set. tx must be
// a transaction.
func replaceAllergens(ctx context.Context, tx *gorm.DB, userID uint, ids []uint) error {
	allergens := repositories.NewAllergenRepository(tx)

	existing, err := allergens.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(existing) != len(ids) {
		return apperr.Validation("Unknown allergen id.")
	}
	return allergens.Replace(ctx, userID, ids)
}
