package chromakey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadSettings_yaml(t *testing.T) {
	p := writeFile(t, "preset.yaml", `
key: "#0000ff"
tolerance: 25
policy: reverse
metric: redmean
foreground:
  contrast: 1.2
  gamma: 2.2
fit: cover
`)
	s, err := LoadSettings(p)
	require.NoError(t, err)

	assert.Equal(t, RGB{B: 255}, s.Key)
	assert.Equal(t, float32(25), s.Tolerance)
	assert.Equal(t, float32(defaultSoftness), s.Softness, "missing keys keep defaults")
	assert.Equal(t, PolicyReverse, s.Policy)
	assert.Equal(t, MetricRedmean, s.Metric)
	assert.Equal(t, ToneAdjustment{Contrast: 1.2, Gamma: 2.2}, s.Foreground)
	assert.Equal(t, IdentityTone(), s.Background)
	assert.Equal(t, "cover", s.Fit)
	assert.Equal(t, "bilinear", s.Interpolation)

	cfg, err := s.Config()
	require.NoError(t, err)
	assert.Equal(t, PolicyReverse, cfg.Policy)
	assert.Equal(t, RGB{B: 255}, cfg.Key)
}

func TestLoadSettings_json(t *testing.T) {
	p := writeFile(t, "preset.json", `{"key": "0,177,64", "spill": 0.5, "blend": "linear", "background": {"brightness": -15, "contrast": 0.8}}`)
	s, err := LoadSettings(p)
	require.NoError(t, err)

	assert.Equal(t, RGB{G: 177, B: 64}, s.Key)
	assert.Equal(t, float32(0.5), s.Spill)
	assert.Equal(t, BlendLinear, s.Blend)
	assert.Equal(t, ToneAdjustment{Brightness: -15, Contrast: 0.8}, s.Background)
	assert.Equal(t, float32(defaultTolerance), s.Tolerance)
}

func TestLoadSettings_errors(t *testing.T) {
	_, err := LoadSettings(writeFile(t, "preset.yaml", "tolerence: 3\n"))
	assert.Error(t, err, "unknown yaml field")

	_, err = LoadSettings(writeFile(t, "preset.json", `{"tolerence": 3}`))
	assert.Error(t, err, "unknown json field")

	_, err = LoadSettings(writeFile(t, "preset.yaml", "key: magenta\n"))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = LoadSettings(writeFile(t, "preset.toml", "tolerance = 3\n"))
	assert.ErrorContains(t, err, "unsupported settings format")

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	s := DefaultSettings()
	s.Tolerance = -3
	_, err = s.Config()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSaveSettings_roundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Key = RGB{R: 12, G: 240, B: 33}
	s.Softness = 7.5
	s.Spill = 0.25
	s.Feather = 1.5
	s.Foreground = ToneAdjustment{Brightness: 10, Contrast: 1.5, Gamma: 0.8}
	s.Policy = PolicyPingPong
	s.Blend = BlendLinear
	s.Interpolation = "lanczos3"

	for _, name := range []string{"preset.json", "preset.yml"} {
		p := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveSettings(p, s))

		got, err := LoadSettings(p)
		require.NoError(t, err, name)
		assert.Equal(t, s, got, name)
	}

	assert.Error(t, SaveSettings(filepath.Join(t.TempDir(), "preset.ini"), s))
}
