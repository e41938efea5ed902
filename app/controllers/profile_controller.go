package controllers

import (
	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/ctx"
)

type ProfileController struct {
	profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// Show handles GET /api/profile.
func (h *ProfileController) Show(c *ctx.Context) {
	uid, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	view, err := h.profiles.GetProfile(c.Context(), uid)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(view)
}

// Update handles PUT /api/profile.
func (h *ProfileController) Update(c *ctx.Context) {
	uid, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	var in services.ProfileInput
	if !c.BindJSON(&in) {
		return
	}

	view, err := h.profiles.SaveProfile(c.Context(), uid, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{
		"message": "Profile updated.",
		"name":    view.Name,
		"email":   view.Email,
	})
}

// Allergens handles GET /api/allergens.
func (h *ProfileController) Allergens(c *ctx.Context) {
	all, err := h.profiles.ListAllergens(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(all)
}

// MyAllergens handles GET /api/my-allergens.
func (h *ProfileController) MyAllergens(c *ctx.Context) {
	uid, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	ids, err := h.profiles.GetAllergens(c.Context(), uid)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(ids)
}

// UpdateMyAllergens handles PUT /api/my-allergens.
func (h *ProfileController) UpdateMyAllergens(c *ctx.Context) {
	uid, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	var in services.AllergensInput
	if !c.BindJSON(&in) {
		return
	}

	ids, err := h.profiles.SaveAllergens(c.Context(), uid, in.AllergenIDs)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"message": "Allergens saved.", "allergen_ids": ids})
}
