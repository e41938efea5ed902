package database

import (
	"context"
	"errors"
	"time"

	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/metrics"
	"gorm.io/gorm"
)

// Transact runs fn inside one transaction: commit when fn returns nil,
// rollback on any error or panic. Classified errors returned by fn pass
// through untouched; everything else is logged and surfaced as a
// DatabaseError.
//
//	err := database.Transact(ctx, db, "register", func(tx *gorm.DB) error {
//	    return repositories.NewUserRepository(tx).Create(&user)
//	})
func Transact(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := db.WithContext(ctx).Transaction(fn)
	metrics.ObserveTransaction(op, err == nil, start)

	if err == nil {
		return nil
	}
	return Classify(ctx, op, err)
}

// Classify converts a raw store error into the apperr taxonomy. Record-not-found
// becomes NotFound; other unclassified errors are logged and become
// DatabaseError.
func Classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsClassified(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	logger.WithCtx(ctx).Error("database: operation failed", "op", op, "error", err)
	return apperr.Database(err)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
