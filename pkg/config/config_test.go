package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/safezone-service/pkg/common"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, DBTypeFile, cfg.DB.Type)
	assert.Equal(t, ":1080", cfg.HTTP.HostPort)
	assert.Empty(t, cfg.GRPC.HostPort)
	assert.Equal(t, 15, cfg.Alert.FrequencyMinutes)
	assert.True(t, cfg.Alert.AdvanceThrottleOnFailure)
	assert.Equal(t, 30*time.Second, cfg.Alert.EvaluationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, DispatchModeInProcess, cfg.Dispatch.Mode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(common.EnvKeyDBType, DBTypeMemory)
	t.Setenv(common.EnvKeyDefaultRate, "2.5")
	t.Setenv(common.EnvKeyDefaultBurst, "3")
	t.Setenv(common.EnvKeyAdvanceThrottleOnFailure, "false")
	t.Setenv(common.EnvKeyTransportTimeout, "3s")
	t.Setenv(common.EnvKeyEmailAPIKey, "re_test")
	t.Setenv(common.EnvKeyWhatsAppPhoneID, "1234")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, DBTypeMemory, cfg.DB.Type)
	assert.Equal(t, 2.5, cfg.Limiter.Rate)
	assert.Equal(t, 3, cfg.Limiter.Burst)
	assert.False(t, cfg.Alert.AdvanceThrottleOnFailure)
	assert.Equal(t, 3*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, "re_test", cfg.Email.APIKey)
	assert.Equal(t, "1234", cfg.WhatsApp.PhoneNumberID)
}

func TestLoadOverride(t *testing.T) {
	t.Setenv(common.EnvKeyHttpHostPort, ":9000")

	v := New()
	v.Set("http.host_port", ":9100")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTP.HostPort)
}

func TestLoadRejectsInvalid(t *testing.T) {
	{
		t.Setenv(common.EnvKeyDBType, "mysql")
		_, err := Load(New())
		assert.Error(t, err)
	}

	{
		t.Setenv(common.EnvKeyDBType, DBTypePostgres)
		_, err := Load(New())
		assert.ErrorContains(t, err, common.EnvKeyPostgresDSN)
	}

	{
		t.Setenv(common.EnvKeyDBType, DBTypeMemory)
		t.Setenv(common.EnvKeyDispatchMode, "kafka")
		_, err := Load(New())
		assert.Error(t, err)
	}

	{
		t.Setenv(common.EnvKeyDispatchMode, DispatchModeInProcess)
		t.Setenv(common.EnvKeyAlertFrequencyMinutes, "1")
		_, err := Load(New())
		assert.Error(t, err)
	}

	{
		t.Setenv(common.EnvKeyAlertFrequencyMinutes, "15")
		t.Setenv(common.EnvKeyTransportTimeout, "30s")
		t.Setenv(common.EnvKeyEvaluationTimeout, "30s")
		_, err := Load(New())
		assert.ErrorContains(t, err, common.EnvKeyTransportTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(common.EnvKeyAMQPQueue+"=from-dotenv\n"), 0o600))

	// registered before loading so t.Setenv restores the empty state afterwards
	t.Setenv(common.EnvKeyAMQPQueue, "")
	require.NoError(t, os.Unsetenv(common.EnvKeyAMQPQueue))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AMQP.Queue)
}
