// Package repositories holds the storefront's gorm queries. Every repository
// wraps the *gorm.DB it is given, so the same code runs on the pool or inside
// a database.Transact callback. Errors come back raw; services classify them.
package repositories

import (
	"context"

	"github.com/freshchoice/storefront/app/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by normalized email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Take(&user, id).Error
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateIdentity changes name and email of an existing user.
func (r *UserRepository) UpdateIdentity(ctx context.Context, id uint, name, email string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"naam": name, "email": email}).Error
}

// EmailTaken reports whether a user other than exceptID owns email.
// Pass exceptID 0 to check against everyone.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&n).Error
	return n > 0, err
}
