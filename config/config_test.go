package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, SurfaceAll, cfg.AppSurface)
	assert.Equal(t, "homeserve", cfg.DatabaseName)
	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL())
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_SURFACE", SurfaceWorker)
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("TIMEZONE", "Africa/Nairobi")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, SurfaceWorker, cfg.AppSurface)
	assert.Equal(t, 3, cfg.OTPMaxAttempts)
	assert.Equal(t, "Africa/Nairobi", cfg.Location().String())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestTrustedProxyList(t *testing.T) {
	assert.Nil(t, Config{}.TrustedProxyList())
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, Config{TrustedProxies: " 10.0.0.1, ,172.16.0.0/12"}.TrustedProxyList())
}
