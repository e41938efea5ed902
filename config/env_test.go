package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs Load once (so it cannot overwrite later), clears the given
// keys from the process environment and restores the loaded values after t.
func isolate(t *testing.T, keys ...string) {
	t.Helper()
	_ = Load()

	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLayerPrecedence(t *testing.T) {
	isolate(t, "APP_PORT", "APP_ENV", "DB_DRIVER", "SESSION_TTL", "SESSION_COOKIE",
		"SESSION_SECURE", "CORS_ORIGINS", "MAX_BODY_BYTES", "REDIS_ADDR")

	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{
		"app_port": "4000",
		"APP_ENV": "staging",
		"SESSION_TTL": "2h",
		"CORS_ORIGINS": "http://a.test, http://b.test,",
		"REDIS_ADDR": 6379
	}`)
	envPath := writeFile(t, dir, ".env", "APP_ENV=production\nSESSION_COOKIE=fc.sid\n")
	t.Setenv("APP_PORT", "5000")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "5000", AppPort(), "process env beats app.json")
	assert.Equal(t, "production", AppEnv(), ".env beats app.json")
	assert.True(t, IsProduction())
	assert.Equal(t, "fc.sid", SessionCookieName(), ".env beats defaults")
	assert.Equal(t, 2*time.Hour, SessionTTL(), "app.json beats defaults")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, CORSOrigins())
	assert.Equal(t, "sqlite", DatabaseDriver(), "untouched keys keep their default")
	assert.Empty(t, RedisAddr(), "non-string JSON values are ignored")
}

func TestMissingFilesFallBackToDefaults(t *testing.T) {
	isolate(t, "APP_PORT", "SESSION_COOKIE", "SESSION_TTL")

	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))

	assert.Equal(t, defaultAppPort, AppPort())
	assert.Equal(t, defaultSessionCookie, SessionCookieName())
	assert.Equal(t, defaultSessionTTL, SessionTTL())
}

func TestMalformedJSONIsAnError(t *testing.T) {
	isolate(t)

	path := writeFile(t, t.TempDir(), "app.json", `{"APP_PORT": `)
	assert.Error(t, loadFromFiles(path, filepath.Join(t.TempDir(), ".env")))
}

func TestOnlyAppKeysAreTakenFromEnviron(t *testing.T) {
	isolate(t)
	t.Setenv("UNRELATED_SETTING", "x")
	t.Setenv("S3_BUCKET", "barcodes")

	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "a.json"), filepath.Join(dir, ".env")))

	assert.Empty(t, Get("UNRELATED_SETTING", ""))
	assert.Equal(t, "barcodes", StorageS3Bucket())
}

func TestTypedAccessorsRejectMalformedValues(t *testing.T) {
	isolate(t, "APP_ENV", "SESSION_TTL", "SESSION_PURGE_INTERVAL", "SESSION_SECURE", "MAX_BODY_BYTES", "SESSION_DRIVER")

	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "APP_ENV=local\n"+
		"SESSION_TTL=soon\n"+
		"SESSION_PURGE_INTERVAL=-5m\n"+
		"SESSION_SECURE=maybe\n"+
		"MAX_BODY_BYTES=-3\n"+
		"SESSION_DRIVER=memcached\n")
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), envPath))

	assert.Equal(t, defaultSessionTTL, SessionTTL())
	assert.Equal(t, defaultSessionPurge, SessionPurgeInterval())
	assert.False(t, SessionCookieSecure(), "falls back to IsProduction")
	assert.Equal(t, int64(1<<20), MaxBodyBytes())
	assert.Equal(t, "database", SessionDriver())

	Set("MAX_BODY_BYTES", "abc")
	assert.Equal(t, int64(1<<20), MaxBodyBytes())
	Set("MAX_BODY_BYTES", "2048")
	assert.Equal(t, int64(2048), MaxBodyBytes())

	Set("SESSION_SECURE", "true")
	assert.True(t, SessionCookieSecure())
	assert.True(t, getBool("SESSION_SECURE", false))
	assert.False(t, getBool("NOT_SET_ANYWHERE", false))
}
