package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("MEDIA_MAX_DOCUMENT_BYTES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, int64(DefaultMediaMaxDocumentBytes), cfg.MediaMaxDocumentBytes)
	assert.Equal(t, 10, cfg.MaxUploadFiles)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 268402689, cfg.MaxImagePixels)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_DocumentCeilingAboveHardLimit(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("MEDIA_MAX_DOCUMENT_BYTES", "17000000")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_UploadLimitsMustBePositive(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("MEDIA_MAX_DOCUMENT_BYTES", "")

	t.Setenv("MAX_FILE_SIZE", "0")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "MAX_FILE_SIZE")

	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("MAX_IMAGE_PIXELS", "0")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "MAX_IMAGE_PIXELS")
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SOME_TTL", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("SOME_TTL", time.Minute))

	t.Setenv("SOME_TTL", "bogus")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_TTL", time.Minute))
}
