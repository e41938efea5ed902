package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/freshchoice/storefront/pkg/metrics"
	"github.com/freshchoice/storefront/pkg/middleware"
	"github.com/freshchoice/storefront/pkg/session"
	"github.com/freshchoice/storefront/pkg/testkit"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessions(t *testing.T) *session.Manager {
	t.Helper()
	db := testkit.EmptyDB(t)
	require.NoError(t, db.AutoMigrate(&session.Record{}))
	return session.NewManager(session.NewDBStore(db), session.Options{TTL: time.Hour})
}

// whoami reports the user id the middleware attached, or 0.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	uid, _ := session.UserID(r.Context())
	w.Header().Set("X-User", string(rune('0'+uid)))
	w.WriteHeader(http.StatusOK)
})

func TestRequireSession(t *testing.T) {
	m := sessions(t)
	h := middleware.RequireSession(m)(whoami)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not logged in."}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "freshchoice.sid", Value: "forged"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := m.Create(context.Background(), 4)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "freshchoice.sid", Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("X-User"))
}

func TestOptionalSession(t *testing.T) {
	m := sessions(t)
	h := middleware.OptionalSession(m)(whoami)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-User"))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "freshchoice.sid", Value: "stale"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "a bad cookie falls back to guest")
	assert.Equal(t, "0", rec.Header().Get("X-User"))

	token, err := m.Create(context.Background(), 2)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "freshchoice.sid", Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "2", rec.Header().Get("X-User"))
}

func TestCORSEchoesAllowedOriginWithCredentials(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions([]string{"http://localhost:5173"}))(whoami)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	l := middleware.NewRateLimiter(2, time.Minute)
	h := l.Middleware(whoami)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"), "limits are per IP")
	assert.Zero(t, l.Evict(), "windows are still open")
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	before := panicsRecovered(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error."}`, rec.Body.String())
	assert.Equal(t, before+1, panicsRecovered(t))
}

func TestRecoveryReraisesAbortHandler(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	before := panicsRecovered(t)
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, before, panicsRecovered(t))
}

func panicsRecovered(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.PanicsRecovered.Write(&m))
	return m.GetCounter().GetValue()
}
