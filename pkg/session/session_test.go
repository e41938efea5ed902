package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/session"
	"github.com/freshchoice/storefront/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newManager(t *testing.T) (*session.Manager, *session.DBStore, *clock) {
	t.Helper()
	db := testkit.EmptyDB(t)
	require.NoError(t, db.AutoMigrate(&session.Record{}))

	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := session.NewDBStore(db)
	m := session.NewManager(store, session.Options{TTL: time.Hour, Now: clk.Now})
	return m, store, clk
}

func TestCreateThenResolve(t *testing.T) {
	m, store, _ := newManager(t)
	ctx := context.Background()

	token, err := m.Create(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	uid, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)

	// Only the hash is stored.
	_, err = store.Find(ctx, token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	for _, token := range []string{"", "abc", strings.Repeat("z", 64), strings.Repeat("a", 64)} {
		_, err := m.Resolve(ctx, token)
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated), "token %q", token)
	}
}

func TestExpiredSessionIsDeletedOnSight(t *testing.T) {
	m, store, clk := newManager(t)
	ctx := context.Background()

	token, err := m.Create(ctx, 3)
	require.NoError(t, err)

	clk.now = clk.now.Add(time.Hour)
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	n, err := store.PurgeExpired(ctx, clk.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "expired record should already be gone")
}

func TestDestroyIsIdempotent(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	token, err := m.Create(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, "not-a-token"))

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestPurgeRemovesOnlyExpired(t *testing.T) {
	m, _, clk := newManager(t)
	ctx := context.Background()

	old, err := m.Create(ctx, 1)
	require.NoError(t, err)
	clk.now = clk.now.Add(30 * time.Minute)
	fresh, err := m.Create(ctx, 2)
	require.NoError(t, err)

	clk.now = clk.now.Add(45 * time.Minute)
	n, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = m.Resolve(ctx, old)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	uid, err := m.Resolve(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, uint(2), uid)
}

func TestCookies(t *testing.T) {
	m := session.NewManager(nil, session.Options{Secure: true})

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "tok")
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "freshchoice.sid", c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 24*60*60, c.MaxAge)

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, m.Token(req))
	req.AddCookie(&http.Cookie{Name: "freshchoice.sid", Value: "abc"})
	assert.Equal(t, "abc", m.Token(req))
}

func TestUserIDContext(t *testing.T) {
	_, ok := session.UserID(context.Background())
	assert.False(t, ok)

	uid, ok := session.UserID(session.WithUserID(context.Background(), 9))
	assert.True(t, ok)
	assert.Equal(t, uint(9), uid)
}
