package graphql_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appgraphql "github.com/freshchoice/storefront/app/graphql"
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/graphql"
	"github.com/freshchoice/storefront/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	db := testkit.NewDB(t)
	s, err := appgraphql.NewSchema(services.NewCatalogService(db, nil), services.NewProfileService(db))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body))
	graphql.Handler(s)(rec, req)
	return rec
}

func TestProductsQuery(t *testing.T) {
	rec := serve(t, `{"query":"{ products { id name price priceCents allergenName } }"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"products":[
		{"id":1,"name":"Brood","price":2.75,"priceCents":275,"allergenName":"glutenbevattende granen"},
		{"id":2,"name":"Kaas","price":3.5,"priceCents":350,"allergenName":"melk (inclusief lactose)"},
		{"id":3,"name":"Noten","price":4.25,"priceCents":425,"allergenName":"noten"}
	]}}`, rec.Body.String())
}

func TestProductQueryWithVariables(t *testing.T) {
	rec := serve(t, `{"query":"query P($id: Int!) { product(id: $id) { name allergenId } }","variables":{"id":2}}`)
	assert.JSONEq(t, `{"data":{"product":{"name":"Kaas","allergenId":7}}}`, rec.Body.String())

	rec = serve(t, `{"query":"{ product(id: 99) { name } }"}`)
	assert.JSONEq(t, `{"data":{"product":null}}`, rec.Body.String())
}

func TestAllergensQuery(t *testing.T) {
	rec := serve(t, `{"query":"{ allergens { name } }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"name":"ei"}`)
}

func TestMissingQuery(t *testing.T) {
	rec := serve(t, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"The query field is required."}`, rec.Body.String())
}
