package repositories

import (
	"context"
	"time"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/pkg/cache"
	"github.com/freshchoice/storefront/pkg/orm"
	"gorm.io/gorm"
)

const (
	// CatalogCacheKey holds the full product list (prefixed by cache.KeyPrefix).
	CatalogCacheKey = "catalog:products"
	CatalogCacheTTL = 10 * time.Minute
)

type ProductRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewProductRepository reads the catalog from db. store may be nil.
func NewProductRepository(db *gorm.DB, store *cache.Store) *ProductRepository {
	return &ProductRepository{db: db, cache: store}
}

func (r *ProductRepository) catalog(ctx context.Context) *orm.Query {
	return orm.New(r.db.WithContext(ctx), r.cache).
		Model(&models.Product{}).
		Select("product.id, product.naam, product.prijs_cent, product.allergeen_id, allergenen.naam AS allergen_name").
		Joins("LEFT JOIN allergenen ON allergenen.id = product.allergeen_id")
}

// All returns the catalog ordered by id, from the cache when configured.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	err := r.catalog(ctx).Order("product.id").Cache(ctx, CatalogCacheKey, CatalogCacheTTL, &out)
	return out, err
}

// Fresh returns the catalog ordered by id, bypassing the cache.
func (r *ProductRepository) Fresh(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	err := r.catalog(ctx).Order("product.id").Get(&out)
	return out, err
}

func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.catalog(ctx).Where("product.id = ?", id).Take(&p)
	return p, err
}

// Forget drops the cached catalog.
func (r *ProductRepository) Forget(ctx context.Context) error {
	return r.cache.Del(ctx, CatalogCacheKey)
}
