package controllers

import (
	"net/http"

	"github.com/freshchoice/storefront/app/services"
	"github.com/freshchoice/storefront/pkg/ctx"
	"github.com/freshchoice/storefront/pkg/session"
)

// LoginInput is the body of POST /api/login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResource is the public shape of a user.
type UserResource struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthController struct {
	auth     *services.AuthService
	sessions *session.Manager
}

func NewAuthController(auth *services.AuthService, sessions *session.Manager) *AuthController {
	return &AuthController{auth: auth, sessions: sessions}
}

// Register handles POST /api/register.
func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	id, err := h.auth.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(map[string]any{"id": id, "message": "Account created."})
}

// Login handles POST /api/login. A session the client already holds is
// replaced, never reused.
func (h *AuthController) Login(c *ctx.Context) {
	var in LoginInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := h.auth.Verify(c.Context(), in.Email, in.Password)
	if err != nil {
		c.Fail(err)
		return
	}

	if old := h.sessions.Token(c.R); old != "" {
		if err := h.sessions.Destroy(c.Context(), old); err != nil {
			c.Logger().Warn("login: drop previous session", "error", err)
		}
	}

	token, err := h.sessions.Create(c.Context(), user.ID)
	if err != nil {
		c.Fail(err)
		return
	}
	h.sessions.SetCookie(c.W, token)
	c.Success(UserResource{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Logout handles POST /api/logout.
func (h *AuthController) Logout(c *ctx.Context) {
	if err := h.sessions.Destroy(c.Context(), h.sessions.Token(c.R)); err != nil {
		c.Fail(err)
		return
	}
	h.sessions.ClearCookie(c.W)
	c.JSON(http.StatusOK, map[string]string{"message": "Logged out."})
}

// Me handles GET /api/me.
func (h *AuthController) Me(c *ctx.Context) {
	uid, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	user, err := h.auth.Me(c.Context(), uid)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(UserResource{ID: user.ID, Name: user.Name, Email: user.Email})
}
