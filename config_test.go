package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfileCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsarctl.yaml")

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	require.NotNil(t, profile.DPI)
	assert.Equal(t, 1600, *profile.DPI)
	require.NotNil(t, profile.Stage)
	assert.Equal(t, 1, *profile.Stage)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config file written on first run")
}

func TestLoadProfileParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsarctl.yaml")
	data := "dpi: 3200\nmotion_sync: false\nlift_off_distance: 2\ndebounce_ms: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	require.NotNil(t, profile.DPI)
	assert.Equal(t, 3200, *profile.DPI)
	require.NotNil(t, profile.MotionSync)
	assert.False(t, *profile.MotionSync)
	require.NotNil(t, profile.LiftOffMM)
	assert.Equal(t, 2.0, *profile.LiftOffMM)
	require.NotNil(t, profile.DebounceMs)
	assert.Equal(t, 8, *profile.DebounceMs)

	assert.Nil(t, profile.Stage, "unset fields stay nil")
	assert.Nil(t, profile.AngleSnap)
	assert.Nil(t, profile.RippleControl)
}

func TestSaveProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsarctl.yaml")

	dpi := 800
	stage := 4
	angleSnap := true
	lod := 0.7
	original := &Profile{
		DPI:       &dpi,
		Stage:     &stage,
		AngleSnap: &angleSnap,
		LiftOffMM: &lod,
	}
	require.NoError(t, SaveProfile(original, path))

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
