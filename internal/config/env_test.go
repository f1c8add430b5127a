package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironment_Defaults(t *testing.T) {
	t.Setenv("PLAYPREP_ADB", "")
	os.Unsetenv("PLAYPREP_ADB")
	t.Setenv("PLAYPREP_TELEMETRY_ENABLED", "")
	os.Unsetenv("PLAYPREP_TELEMETRY_ENABLED")

	e, err := LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "adb", e.ADB)
	assert.Nil(t, e.TelemetryEnabled)
}

func TestLoadEnvironment_Overrides(t *testing.T) {
	t.Setenv("PLAYPREP_ROOT", "/work/soksol")
	t.Setenv("PLAYPREP_TELEMETRY_ENABLED", "1")
	t.Setenv("ANDROID_HOME", "/opt/android")

	e, err := LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "/work/soksol", e.Root)
	require.NotNil(t, e.TelemetryEnabled)
	assert.True(t, *e.TelemetryEnabled)
	assert.Equal(t, []string{"/opt/android"}, e.SDKCandidates()[:1])
}

func TestLoadEnvironment_InvalidBool(t *testing.T) {
	t.Setenv("PLAYPREP_TELEMETRY_ENABLED", "maybe")
	_, err := LoadEnvironment()
	assert.Error(t, err)
}

func TestSDKCandidates(t *testing.T) {
	e := Environment{AndroidHome: "/sdk", LocalAppData: "/appdata"}
	assert.Equal(t, []string{"/sdk", filepath.Join("/appdata", "Android", "Sdk")}, e.SDKCandidates())
	assert.Empty(t, Environment{}.SDKCandidates())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(dir), "missing .env must be ignored")

	os.Unsetenv("PLAYPREP_DOTENV_PROBE")
	t.Cleanup(func() { os.Unsetenv("PLAYPREP_DOTENV_PROBE") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLAYPREP_DOTENV_PROBE=loaded\n"), 0644))
	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "loaded", os.Getenv("PLAYPREP_DOTENV_PROBE"))
}
