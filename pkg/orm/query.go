// Package orm is a small chainable query wrapper over an injected *gorm.DB
// that adds read-through caching.
//
//	var products []models.Product
//	err := orm.New(db, store).Model(&models.Product{}).Order("id").
//	    Cache(ctx, "catalog:products", 10*time.Minute, &products)
package orm

import (
	"context"
	"time"

	"github.com/freshchoice/storefront/pkg/cache"
	"github.com/freshchoice/storefront/pkg/logger"
	"gorm.io/gorm"
)

type Query struct {
	db    *gorm.DB
	cache *cache.Store
}

// New starts a query on db. store may be nil, in which case Cache always
// reads from the database.
func New(db *gorm.DB, store *cache.Store) *Query {
	return &Query{db: db, cache: store}
}

func (q *Query) with(db *gorm.DB) *Query {
	return &Query{db: db, cache: q.cache}
}

func (q *Query) Model(v any) *Query {
	return q.with(q.db.Model(v))
}

func (q *Query) Select(query any, args ...any) *Query {
	return q.with(q.db.Select(query, args...))
}

func (q *Query) Joins(query string, args ...any) *Query {
	return q.with(q.db.Joins(query, args...))
}

func (q *Query) Where(query any, args ...any) *Query {
	return q.with(q.db.Where(query, args...))
}

func (q *Query) Order(value any) *Query {
	return q.with(q.db.Order(value))
}

// Get loads every matching row into dest.
func (q *Query) Get(dest any) error {
	return q.db.Find(dest).Error
}

// Take loads one row; gorm.ErrRecordNotFound when none match.
func (q *Query) Take(dest any) error {
	return q.db.Take(dest).Error
}

// Cache serves dest from the cache when present, otherwise runs the query
// and stores the result for ttl. Cache write failures are logged, not
// returned.
func (q *Query) Cache(ctx context.Context, key string, ttl time.Duration, dest any) error {
	if q.cache.Get(ctx, key, dest) {
		return nil
	}

	if err := q.db.WithContext(ctx).Find(dest).Error; err != nil {
		return err
	}

	if err := q.cache.Set(ctx, key, dest, ttl); err != nil {
		logger.WithCtx(ctx).Warn("orm: cache write failed", "key", key, "error", err)
	}
	return nil
}
