package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("database url is required", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SIGNING_KEY", "secret")

		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("signing key is required without gateway trust", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/listings")
		t.Setenv("JWT_SIGNING_KEY", "")
		t.Setenv("AUTH_TRUST_GATEWAY", "false")

		_, err := FromEnv()
		require.Error(t, err)

		t.Setenv("AUTH_TRUST_GATEWAY", "true")
		cfg, err := FromEnv()
		require.NoError(t, err)
		require.True(t, cfg.Auth.TrustGateway)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/listings")
		t.Setenv("JWT_SIGNING_KEY", "secret")
		t.Setenv("GEOCODER_TIMEOUT", "not-a-duration")
		t.Setenv("RESUBMIT_ON_EDIT", "")

		cfg, err := FromEnv()
		require.NoError(t, err)
		require.Equal(t, "Campo Grande", cfg.Address.DefaultCity)
		require.Equal(t, "MS", cfg.Address.RegionCode)
		require.Equal(t, 10*time.Second, cfg.Geocoder.Timeout)
		require.True(t, cfg.Moderation.ResubmitOnEdit)
		require.False(t, cfg.FluentBit.Enabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/listings")
		t.Setenv("JWT_SIGNING_KEY", "secret")
		t.Setenv("GEOCODER_BASE_URL", "http://geo.local/")
		t.Setenv("GEOCODER_TIMEOUT", "750ms")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("RESUBMIT_ON_EDIT", "false")

		cfg, err := FromEnv()
		require.NoError(t, err)
		require.Equal(t, "http://geo.local", cfg.Geocoder.BaseURL)
		require.Equal(t, 750*time.Millisecond, cfg.Geocoder.Timeout)
		require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Rest.CORSAllowedOrigins)
		require.False(t, cfg.Moderation.ResubmitOnEdit)
	})
}

func TestLoadConfigFromFile(t *testing.T) {
	// godotenv не перезаписывает уже выставленные переменные.
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("JWT_SIGNING_KEY", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=postgres://file/listings\nJWT_SIGNING_KEY=from-file\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://file/listings", cfg.Database.URL)
	require.Equal(t, "from-env", cfg.Auth.SigningKey)
}
