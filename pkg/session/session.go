// Package session issues opaque server-side sessions. The client only ever
// holds a random token in the session cookie; the store keeps sha256(token)
// bound to a user id and an expiry.
//
// Usage (login handler):
//
//	token, err := sessions.Create(ctx, user.ID)
//	sessions.SetCookie(w, token)
//
// Usage (protected route):
//
//	api.Get("/me", "auth.me", h, middleware.RequireSession(sessions))
//	userID, _ := session.UserID(r.Context())
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/metrics"
)

const tokenBytes = 32

// ErrNotFound is returned by a Store when no record matches.
var ErrNotFound = errors.New("session: not found")

// Record is the server-side half of a session.
type Record struct {
	ID        string    `gorm:"column:session_id;primaryKey;size:64"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (Record) TableName() string { return "sessions" }

// Store persists session records keyed by the hashed token.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Find(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// ------------------- Options -------------------

// Options configures cookies and lifetime.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   http.SameSite
	Path       string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// DefaultOptions matches the storefront client: a 24h lax cookie.
func DefaultOptions() Options {
	return Options{
		CookieName: "freshchoice.sid",
		TTL:        24 * time.Hour,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Manager -------------------

type Manager struct {
	store Store
	opts  Options
}

func NewManager(store Store, opts Options) *Manager {
	def := DefaultOptions()
	if opts.CookieName == "" {
		opts.CookieName = def.CookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.SameSite == 0 {
		opts.SameSite = def.SameSite
	}
	if opts.Path == "" {
		opts.Path = def.Path
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{store: store, opts: opts}
}

// Create starts a session for userID and returns the token for the cookie.
func (m *Manager) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", apperr.Database(fmt.Errorf("session: token: %w", err))
	}

	rec := Record{
		ID:        hashToken(token),
		UserID:    userID,
		ExpiresAt: m.opts.Now().Add(m.opts.TTL).UTC(),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return "", apperr.Database(fmt.Errorf("session: save: %w", err))
	}
	return token, nil
}

// Resolve returns the user bound to token. Malformed, unknown and expired
// tokens are all Unauthenticated; an expired record is deleted on sight.
func (m *Manager) Resolve(ctx context.Context, token string) (uint, error) {
	if !wellFormed(token) {
		return 0, apperr.ErrUnauthenticated
	}

	id := hashToken(token)
	rec, err := m.store.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return 0, apperr.ErrUnauthenticated
	}
	if err != nil {
		return 0, apperr.Database(fmt.Errorf("session: find: %w", err))
	}

	if !m.opts.Now().Before(rec.ExpiresAt) {
		if err := m.store.Delete(ctx, id); err != nil {
			logger.WithCtx(ctx).Warn("session: delete expired", "error", err)
		}
		return 0, apperr.ErrUnauthenticated
	}
	return rec.UserID, nil
}

// Destroy removes the session. Unknown or malformed tokens are a no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if !wellFormed(token) {
		return nil
	}
	if err := m.store.Delete(ctx, hashToken(token)); err != nil {
		return apperr.Database(fmt.Errorf("session: delete: %w", err))
	}
	return nil
}

// Purge removes every expired record once.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	n, err := m.store.PurgeExpired(ctx, m.opts.Now())
	if err != nil {
		return 0, fmt.Errorf("session: purge: %w", err)
	}
	metrics.SessionsPurged.Add(float64(n))
	return n, nil
}

// ------------------- Cookies -------------------

// SetCookie writes the session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     m.opts.Path,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     m.opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}

// Token reads the session token from the request cookie, or "".
func (m *Manager) Token(r *http.Request) string {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ------------------- Context -------------------

type ctxKey struct{}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint)
	return id, ok && id != 0
}

// ------------------- Tokens -------------------

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func wellFormed(token string) bool {
	if len(token) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}
