package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"policy": { "detectionRadius": 1500, "velocityAware": true },
		"recorder": { "enabled": true, "driver": "postgres", "dsn": "host=db" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	got, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, 1500.0, got.Policy.DetectionRadius)
	assert.True(t, got.Policy.VelocityAware)
	assert.Equal(t, 600.0, got.Policy.SweepStep)
	assert.True(t, got.Recorder.Enabled)
	assert.Equal(t, "postgres", got.Recorder.Driver)
	assert.Equal(t, "host=db", got.Recorder.DSN)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	got, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", got.LogLevel)
	assert.Equal(t, agentlogic.DefaultParams(), got.Policy)
	assert.False(t, got.Recorder.Enabled)
	assert.Equal(t, "sqlite", got.Recorder.Driver)
	assert.Equal(t, "drone_bot.db", got.Recorder.DSN)
	assert.False(t, got.Telemetry.Enabled)
	assert.Equal(t, 10*time.Second, got.Telemetry.Interval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("DRONEBOT_POLICY_SAFEMIN", "700")
	t.Setenv("DRONEBOT_TELEMETRY_ENABLED", "true")
	t.Setenv("DRONEBOT_TELEMETRY_INTERVAL", "30s")

	got, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 700.0, got.Policy.SafeMin)
	assert.True(t, got.Telemetry.Enabled)
	assert.Equal(t, 30*time.Second, got.Telemetry.Interval)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"logLevel": `), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_InvalidPolicy(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"policy": {"safeMin": 9000, "safeMax": 100}}`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy")
}
