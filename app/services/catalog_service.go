package services

import (
	"context"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/app/repositories"
	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/cache"
	"github.com/freshchoice/storefront/pkg/database"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned by GetProduct for unknown ids.
var ErrProductNotFound = apperr.NotFound("Product not found.")

// CatalogService serves the read-only product list. With a cache store the
// list is read through Redis.
type CatalogService struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewCatalogService(db *gorm.DB, store *cache.Store) *CatalogService {
	return &CatalogService{db: db, cache: store}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	out, err := repositories.NewProductRepository(s.db, s.cache).All(ctx)
	if err != nil {
		return nil, database.Classify(ctx, "catalog.list", err)
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	p, err := repositories.NewProductRepository(s.db, s.cache).Find(ctx, id)
	if err != nil {
		err = database.Classify(ctx, "catalog.get", err)
		if apperr.As(err).Kind == apperr.KindNotFound {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}
