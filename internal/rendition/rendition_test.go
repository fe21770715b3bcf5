package rendition

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppsg-cms/models"
)

func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDeriveProducesEveryTier(t *testing.T) {
	out, err := NewPipeline().Derive(gradientPNG(t, 1600, 900))
	require.NoError(t, err)

	require.Len(t, out, len(DefaultTiers))
	for _, tier := range DefaultTiers {
		r, ok := out[tier.Size]
		require.True(t, ok, "missing %s", tier.Size)
		assert.NotEmpty(t, r.Data)
		assert.Equal(t, tier.MaxWidth, r.Width)
		assert.LessOrEqual(t, r.Width, tier.MaxWidth)
	}

	// aspect ratio preserved
	assert.Equal(t, 169, out[models.SizeThumbnail].Height)
	assert.Equal(t, 450, out[models.SizeMedium].Height)
	assert.Equal(t, 675, out[models.SizeLarge].Height)

	_, hasSmall := out[models.SizeSmall]
	assert.False(t, hasSmall)
}

func TestDeriveNeverEnlarges(t *testing.T) {
	out, err := NewPipeline().Derive(gradientPNG(t, 200, 100))
	require.NoError(t, err)

	for _, r := range out {
		assert.Equal(t, 200, r.Width)
		assert.Equal(t, 100, r.Height)
	}
	// same dimensions, rising quality
	assert.LessOrEqual(t, len(out[models.SizeThumbnail].Data), len(out[models.SizeMedium].Data))
	assert.LessOrEqual(t, len(out[models.SizeMedium].Data), len(out[models.SizeLarge].Data))
}

func TestDeriveOutputIsJPEG(t *testing.T) {
	out, err := NewPipeline().Derive(gradientPNG(t, 640, 480))
	require.NoError(t, err)

	_, format, err := image.DecodeConfig(bytes.NewReader(out[models.SizeMedium].Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDeriveRejectsBadInput(t *testing.T) {
	_, err := NewPipeline().Derive(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = NewPipeline().Derive([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCustomTiers(t *testing.T) {
	p := NewPipeline(Tier{Size: models.SizeThumbnail, MaxWidth: 50, Quality: 70})
	out, err := p.Derive(gradientPNG(t, 400, 400))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 50, out[models.SizeThumbnail].Width)
	assert.Equal(t, 50, out[models.SizeThumbnail].Height)
}

// hugeHeaderPNG is a tiny PNG whose header claims w x h pixels.
func hugeHeaderPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	buf := gradientPNG(t, 1, 1)
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(buf[16:20], w)
	binary.BigEndian.PutUint32(buf[20:24], h)
	binary.BigEndian.PutUint32(buf[29:33], crc32.ChecksumIEEE(buf[12:29]))
	return buf
}

func TestDeriveRejectsOversizedDimensions(t *testing.T) {
	_, err := NewPipeline().Derive(hugeHeaderPNG(t, 40000, 40000))
	require.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "40000x40000")

	_, err = NewPipeline().WithMaxPixels(100 * 100).Derive(gradientPNG(t, 200, 100))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = NewPipeline().WithMaxPixels(200 * 100).Derive(gradientPNG(t, 200, 100))
	assert.NoError(t, err)
}
