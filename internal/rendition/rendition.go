// Package rendition turns an uploaded image into the fixed set of resized
// JPEG renditions stored with each media record.
package rendition

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ppsg-cms/models"
)

var (
	ErrEmptyInput = errors.New("empty image buffer")
	ErrDecode     = errors.New("unsupported or corrupt image")
	ErrEncode     = errors.New("rendition encoding failed")
)

// Tier describes one rendition: the maximum width and the JPEG quality.
type Tier struct {
	Size     models.SizeName
	MaxWidth int
	Quality  int
}

// DefaultTiers are the renditions produced for every upload.
var DefaultTiers = []Tier{
	{Size: models.SizeThumbnail, MaxWidth: 300, Quality: 80},
	{Size: models.SizeMedium, MaxWidth: 800, Quality: 85},
	{Size: models.SizeLarge, MaxWidth: 1200, Quality: 90},
}

// DefaultMaxPixels bounds the decoded size of a source image.
const DefaultMaxPixels = 0x3FFF * 0x3FFF

// Pipeline derives renditions for a set of tiers.
type Pipeline struct {
	tiers     []Tier
	maxPixels int
}

func NewPipeline(tiers ...Tier) *Pipeline {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	return &Pipeline{tiers: tiers, maxPixels: DefaultMaxPixels}
}

// WithMaxPixels sets the largest width*height accepted for decoding.
func (p *Pipeline) WithMaxPixels(n int) *Pipeline {
	if n > 0 {
		p.maxPixels = n
	}
	return p
}

// Derive decodes buf once and produces every tier. Any failure fails the
// whole derivation; a partial set is never returned.
func (p *Pipeline) Derive(buf []byte) (map[models.SizeName]models.Rendition, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}

	// The header is checked before the full decode allocates the bitmap.
	hdr, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if hdr.Width <= 0 || hdr.Height <= 0 || int64(hdr.Width)*int64(hdr.Height) > int64(p.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrDecode, hdr.Width, hdr.Height, p.maxPixels)
	}

	src, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out := make(map[models.SizeName]models.Rendition, len(p.tiers))
	for _, tier := range p.tiers {
		r, err := derive(src, tier)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tier.Size, err)
		}
		out[tier.Size] = r
	}
	return out, nil
}

func derive(src image.Image, tier Tier) (models.Rendition, error) {
	img := src
	// Fit inside the target width, never enlarging.
	if src.Bounds().Dx() > tier.MaxWidth {
		img = imaging.Resize(src, tier.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(tier.Quality)); err != nil {
		return models.Rendition{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return models.Rendition{}, fmt.Errorf("%w: no bytes produced", ErrEncode)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return models.Rendition{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return models.Rendition{
		Data:   buf.Bytes(),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
