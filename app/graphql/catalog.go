// Package graphql exposes the catalog and the allergen list as a read-only
// GraphQL schema at /api/graphql.
//
//	{ products { id name price allergenName } }
//	{ product(id: 2) { name price } }
package graphql

import (
	"errors"

	"github.com/freshchoice/storefront/app/models"
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/apperr"
	schema "github.com/freshchoice/storefront/pkg/graphql"
	"github.com/graphql-go/graphql"
)

var allergenType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Allergen",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.Float),
			Description: "Price in euros.",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(models.Product).Price.Float(), nil
			},
		},
		"priceCents": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return int(p.Source.(models.Product).Price), nil
			},
		},
		"allergenId": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if id := p.Source.(models.Product).AllergenID; id != nil {
					return int(*id), nil
				}
				return nil, nil
			},
		},
		"allergenName": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if name := p.Source.(models.Product).AllergenName; name != nil {
					return *name, nil
				}
				return nil, nil
			},
		},
	},
})

// NewSchema builds the catalog schema over the given services.
func NewSchema(catalog *services.CatalogService, profiles *services.ProfileService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, err := catalog.ListProducts(p.Context)
					return out, public(err)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					out, err := catalog.GetProduct(p.Context, uint(id))
					if errors.Is(err, apperr.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, public(err)
					}
					return out, nil
				},
			},
			"allergens": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(allergenType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, err := profiles.ListAllergens(p.Context)
					return out, public(err)
				},
			},
		},
	})
	return schema.NewSchema(query)
}

// public strips infrastructure detail before an error reaches the client.
func public(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(apperr.PublicMessage(err))
}
