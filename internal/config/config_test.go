package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GEMINI_MODEL", "MATCH_THRESHOLD", "SMTP_HOST", "DEFAULT_LOCATION"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, 75, cfg.MatchThreshold)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 10080, cfg.TokenTTLMinutes)
	assert.Equal(t, "Remote", cfg.Search.Location)
	assert.Equal(t, []string{"indeed", "linkedin", "glassdoor", "zip_recruiter"}, cfg.Search.Platforms)
	assert.True(t, cfg.DefaultSecret())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("MATCH_THRESHOLD", "150") // clamped
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DEFAULT_LOCATION", "Berlin")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 100, cfg.MatchThreshold)
	assert.Equal(t, 587, cfg.SMTPPort, "unparseable int keeps the default")
	assert.Equal(t, "Berlin", cfg.Search.Location)
	assert.False(t, cfg.DefaultSecret())
}

func TestLoadYAMLSearchDefaults(t *testing.T) {
	t.Setenv("DEFAULT_LOCATION", "")
	t.Setenv("DEFAULT_RESULTS_EACH", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `search:
  location: "Amsterdam"
  platforms: ["linkedin"]
  results_per_site: 5
  hours_old: 24
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Amsterdam", cfg.Search.Location)
	assert.Equal(t, []string{"linkedin"}, cfg.Search.Platforms)
	assert.Equal(t, 5, cfg.Search.ResultsPerSite)
	assert.Equal(t, 24, cfg.Search.HoursOld)
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
