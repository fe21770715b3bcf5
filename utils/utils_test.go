package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pool Filter X1!":        "pool-filter-x1",
		"Pool Filter X1?":        "pool-filter-x1",
		"  --Hello,   World--  ": "hello-world",
		"Spa & Hot-Tub 2024":     "spa-hot-tub-2024",
		"Café Olé":               "caf-ol",
		"!!!":                    "",
		"already-a-slug":         "already-a-slug",
	}
	for in, want := range cases {
		got := Slugify(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, got, Slugify(got), "slugify must be idempotent for %q", in)
	}
}

func TestMetadataFromForm(t *testing.T) {
	form := map[string][]string{
		"title":                   {"ignored"},
		"metadata_key_0":          {"camera"},
		"metadata_value_0":        {"Nikon"},
		"metadata_key_1":          {"lens"},
		"metadata_value_1":        {""},
		"metadata_location":       {"1"},
		"metadata_location_value": {"Backyard"},
		"metadata_empty":          {"1"},
	}

	got, ok := MetadataFromForm(form)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"camera": "Nikon", "location": "Backyard"}, got)

	_, ok = MetadataFromForm(map[string][]string{"title": {"x"}})
	assert.False(t, ok)
}

func TestIsValidImageType(t *testing.T) {
	assert.True(t, IsValidImageType("image/png"))
	assert.True(t, IsValidImageType("IMAGE/JPEG; charset=binary"))
	assert.False(t, IsValidImageType("image/svg+xml"))
	assert.False(t, IsValidImageType("application/pdf"))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "pool-1", TitleFromFilename("pool-1.jpg"))
	assert.Equal(t, "archive.tar", TitleFromFilename("archive.tar.gz"))
	assert.Equal(t, ".env", TitleFromFilename(".env"))
	assert.Equal(t, "noext", TitleFromFilename("noext"))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	assert.NoError(t, err)
	assert.True(t, CheckPassword("admin123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
