package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPublic = `port: "8081"
api_origin: "http://api:8000"
media_path: "/media/"
access_cookie: "access_token"
read_timeout: 10s
write_timeout: 30s
api_timeout: 15s
feed_fetch_timeout: 10s
normalize_timeout: 20s
feed_view_ttl: 30m
max_feed_views: 100
submission_ttl: 15m
max_submissions: 10
auth_cache_ttl: 1m
max_auth_entries: 100
caption_max_len: 255
bio_max_len: 255
post_upload:
  max_size_bytes: 10485760
  target_side: 1080
  quality: 85
profile_picture_upload:
  max_size_bytes: 512000
  target_side: 400
  quality: 85
`

const validPrivate = "session_key: '0123456789abcdef0123456789abcdef'\n"

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfig(t, validPublic, validPrivate)

	cfg := MustLoad(dir)

	assert.Equal(t, "8081", cfg.Public.Port)
	assert.Equal(t, "http://api:8000", cfg.Public.APIOrigin)
	assert.Equal(t, 10*time.Second, cfg.Public.FeedFetchTimeout)
	assert.Equal(t, int64(10485760), cfg.Public.PostUpload.MaxSizeBytes)
	assert.Equal(t, 1080, cfg.Public.PostUpload.TargetSide)
	assert.Equal(t, int64(512000), cfg.Public.ProfilePictureUpload.MaxSizeBytes)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.SessionKey())
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, validPublic, validPrivate)
	t.Setenv("PIXORA_API_ORIGIN", "")
	t.Setenv("PIXORA_PORT", "9090")
	t.Setenv("PIXORA_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg := MustLoad(dir)

	assert.Equal(t, "9090", cfg.Public.Port)
	// an empty variable leaves the file value untouched
	assert.Equal(t, "http://api:8000", cfg.Public.APIOrigin)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Public.AllowedOrigins)
}

func TestMustLoad_RequiredFields(t *testing.T) {
	public := []byte("port: '8081'\n# media_path is intentionally missing\n")
	dir := writeConfig(t, string(public), validPrivate)

	assert.Panics(t, func() { _ = MustLoad(dir) })
}

func TestMustLoad_ShortSessionKey(t *testing.T) {
	dir := writeConfig(t, validPublic, "session_key: 'short'\n")

	assert.Panics(t, func() { _ = MustLoad(dir) })
}

func TestMustLoad_MissingFile(t *testing.T) {
	assert.Panics(t, func() { _ = MustLoad(t.TempDir()) })
}

func TestMediaBase(t *testing.T) {
	assert.Equal(t, "http://api:8000/media/", Public{APIOrigin: "http://api:8000/", MediaPath: "/media/"}.MediaBase())
	assert.Equal(t, "/media/", Public{MediaPath: "/media/"}.MediaBase())
	assert.Equal(t, "https://cdn.test/m/", Public{APIOrigin: "http://api:8000", MediaPath: "https://cdn.test/m/"}.MediaBase())
}
