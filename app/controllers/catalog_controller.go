package controllers

import (
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/ctx"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// Index handles GET /api/products.
func (h *CatalogController) Index(c *ctx.Context) {
	products, err := h.catalog.ListProducts(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// Show handles GET /api/products/{id}.
func (h *CatalogController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Fail(services.ErrProductNotFound)
		return
	}

	p, err := h.catalog.GetProduct(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}
