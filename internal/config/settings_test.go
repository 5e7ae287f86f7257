package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsHoldRange(t *testing.T) {
	s := Default()
	s.HoldMin = 5
	s.HoldMax = 1
	require.Error(t, s.Validate())
}

func TestValidateRejectsBaseScaleOutOfRange(t *testing.T) {
	s := Default()
	s.BaseScale = 10
	require.Error(t, s.Validate())
}

func TestNormalizedClickMergeDistance(t *testing.T) {
	s := Default()
	s.ClickMergeDistancePx = 120
	s.ReferenceSize = ReferenceSize{Width: 1920, Height: 1080}
	assert.InDelta(t, 120.0/1920.0, s.NormalizedClickMergeDistance(), 1e-9)
}

func TestSpringResolvePhysical(t *testing.T) {
	s := SpringSettings{Kind: SpringPhysical, Tension: 200, Friction: 20, Mass: 1}
	tension, friction, mass := s.Resolve()
	assert.Equal(t, 200.0, tension)
	assert.Equal(t, 20.0, friction)
	assert.Equal(t, 1.0, mass)
}

func TestSpringResolveDuration(t *testing.T) {
	s := SpringSettings{Kind: SpringDuration, Duration: 0.5, Bounce: 0}
	tension, friction, mass := s.Resolve()
	assert.Greater(t, tension, 0.0)
	assert.Greater(t, friction, 0.0)
	assert.Equal(t, 1.0, mass)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	s := Default()
	s.BaseScale = 3.5
	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, loaded.BaseScale, 1e-9)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
