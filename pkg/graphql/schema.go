// Package graphql serves a graphql-go schema over HTTP.
//
//	s, _ := graphql.NewSchema(query)
//	api.Post("/graphql", "graphql", graphql.Handler(s))
package graphql

import (
	"net/http"

	"github.com/freshchoice/storefront/pkg/bind"
	"github.com/freshchoice/storefront/pkg/response"
	"github.com/graphql-go/graphql"
)

// NewSchema creates a read-only schema from the root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP POST body.
type Request struct {
	Query         string         `json:"query"         validate:"required"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes POSTed queries against s. Execution errors are reported
// in the result's "errors" list with a 200, as GraphQL clients expect.
func Handler(s graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := bind.JSON(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         s,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		response.Success(w, result)
	}
}
