package validate_test

import (
	"testing"

	"github.com/freshchoice/storefront/pkg/validate"
	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Name        string  `json:"name"         validate:"required,max=100"`
	Email       string  `json:"email"        validate:"required,email,max=255"`
	Password    string  `json:"password"     validate:"required"`
	Phone       *string `json:"phone"        validate:"nullable,phone,max=30"`
	AllergenIDs []int   `json:"allergen_ids" validate:"dive,gte=1"`
}

type lineItem struct {
	ProductID int `json:"product_id" validate:"required,gte=1"`
	Qty       int `json:"qty"        validate:"required,gte=1,lte=99"`
}

func strPtr(s string) *string { return &s }

func TestValidRegisterInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:        "Anna",
		Email:       "anna@example.com",
		Password:    "geheim",
		Phone:       strPtr("+31 (0)6-12345678"),
		AllergenIDs: []int{2, 5},
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredTrimsWhitespace(t *testing.T) {
	errs := validate.Struct(registerInput{Name: "   ", Email: "a@b.nl", Password: "x"})
	assert.Contains(t, errs, "name")
	assert.Len(t, errs, 1)
}

func TestFirstFollowsDeclarationOrder(t *testing.T) {
	msg := validate.First(registerInput{})
	assert.Equal(t, "The name field is required.", msg)

	msg = validate.First(registerInput{Name: "Anna", Email: "nope", Password: "x"})
	assert.Equal(t, "The email must be a valid email address.", msg)

	assert.Empty(t, validate.First(registerInput{Name: "Anna", Email: "anna@example.com", Password: "x"}))
}

func TestNullableSkipsRulesWhenEmpty(t *testing.T) {
	in := registerInput{Name: "Anna", Email: "anna@example.com", Password: "x"}
	assert.Empty(t, validate.First(in))

	in.Phone = strPtr("")
	assert.Empty(t, validate.First(in))

	in.Phone = strPtr("call me")
	assert.Equal(t, "The phone must be a valid phone number.", validate.First(in))
}

func TestDiveAppliesToEveryElement(t *testing.T) {
	in := registerInput{Name: "Anna", Email: "anna@example.com", Password: "x", AllergenIDs: []int{3, 0}}
	assert.Equal(t, "The allergen_ids[1] must be greater than or equal to 1.", validate.First(in))
}

func TestNumericRange(t *testing.T) {
	assert.Empty(t, validate.First(lineItem{ProductID: 1, Qty: 99}))
	assert.Equal(t, "The qty must be less than or equal to 99.", validate.First(lineItem{ProductID: 1, Qty: 100}))
	assert.Equal(t, "The qty field is required.", validate.First(lineItem{ProductID: 1}))
	assert.Equal(t, "The product_id must be greater than or equal to 1.", validate.First(lineItem{ProductID: -2, Qty: 1}))
}

func TestMaxCountsRunes(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"max=3"`
	}
	assert.Empty(t, validate.First(in{Name: "éèê"}))
	assert.NotEmpty(t, validate.First(in{Name: "abcd"}))
}

func TestNonStructIsValid(t *testing.T) {
	assert.Empty(t, validate.Struct(42))
	assert.Empty(t, validate.First((*registerInput)(nil)))
}
