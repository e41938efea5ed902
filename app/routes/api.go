// Package routes registers the storefront API on a router.
package routes

import (
	"fmt"

	"github.com/freshchoice/storefront/app/controllers"
	appgraphql "github.com/freshchoice/storefront/app/graphql"
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/cache"
	"github.com/freshchoice/storefront/pkg/ctx"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/freshchoice/storefront/pkg/graphql"
	"github.com/freshchoice/storefront/pkg/middleware"
	"github.com/freshchoice/storefront/pkg/router"
	"github.com/freshchoice/storefront/pkg/session"
	"github.com/freshchoice/storefront/pkg/storage"
	"gorm.io/gorm"
)

// Deps is everything the API handlers need. Cache, Disk and Events may be nil.
type Deps struct {
	DB       *gorm.DB
	Cache    *cache.Store
	Sessions *session.Manager
	Disk     storage.Disk
	Events   *event.Bus
}

// RegisterAPI mounts every /api route.
func RegisterAPI(r *router.Router, d Deps) error {
	authSvc := services.NewAuthService(d.DB)
	profileSvc := services.NewProfileService(d.DB)
	catalogSvc := services.NewCatalogService(d.DB, d.Cache)
	orderSvc := services.NewOrderService(d.DB, d.Disk, d.Events)

	authController := controllers.NewAuthController(authSvc, d.Sessions)
	profileController := controllers.NewProfileController(profileSvc)
	catalogController := controllers.NewCatalogController(catalogSvc)
	orderController := controllers.NewOrderController(orderSvc)

	schema, err := appgraphql.NewSchema(catalogSvc, profileSvc)
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}

	api := r.Group("/api")

	// Public
	api.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	api.Post("/login", "auth.login", ctx.Wrap(authController.Login))
	api.Get("/allergens", "allergens.index", ctx.Wrap(profileController.Allergens))
	api.Get("/products", "products.index", ctx.Wrap(catalogController.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(catalogController.Show))
	api.Post("/graphql", "graphql", graphql.Handler(schema))

	// Guests may check out; a session adds allergen warnings.
	api.Post("/orders", "orders.store", ctx.Wrap(orderController.Store), middleware.OptionalSession(d.Sessions))

	// Signed in
	protected := api.Group("", middleware.RequireSession(d.Sessions))
	protected.Post("/logout", "auth.logout", ctx.Wrap(authController.Logout))
	protected.Get("/me", "auth.me", ctx.Wrap(authController.Me))
	protected.Get("/profile", "profile.show", ctx.Wrap(profileController.Show))
	protected.Put("/profile", "profile.update", ctx.Wrap(profileController.Update))
	protected.Get("/my-allergens", "allergens.mine", ctx.Wrap(profileController.MyAllergens))
	protected.Put("/my-allergens", "allergens.update", ctx.Wrap(profileController.UpdateMyAllergens))

	return nil
}
