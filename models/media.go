package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SizeName names one derived rendition of an uploaded image.
type SizeName string

const (
	SizeThumbnail SizeName = "thumbnail"
	SizeMedium    SizeName = "medium"
	SizeLarge     SizeName = "large"

	// SizeSmall is only present on records written before thumbnails existed.
	// Reads of a missing thumbnail fall back to it.
	SizeSmall SizeName = "small"
)

// DerivedSizes lists the renditions produced for every new upload, smallest first.
var DerivedSizes = []SizeName{SizeThumbnail, SizeMedium, SizeLarge}

// ParseSizeName accepts the four size names a rendition can be requested by.
func ParseSizeName(s string) (SizeName, bool) {
	switch SizeName(s) {
	case SizeThumbnail, SizeMedium, SizeLarge, SizeSmall:
		return SizeName(s), true
	}
	return "", false
}

// FallbackChain is the ordered list of stored sizes consulted when serving s.
func (s SizeName) FallbackChain() []SizeName {
	if s == SizeThumbnail {
		return []SizeName{SizeThumbnail, SizeSmall}
	}
	return []SizeName{s}
}

// Rendition is one derived JPEG. Data is stored as BSON binary.
type Rendition struct {
	Data   []byte `bson:"data" json:"-"`
	Width  int    `bson:"width" json:"width"`
	Height int    `bson:"height" json:"height"`
}

// Media is an uploaded image with its derived renditions stored inline.
type Media struct {
	ID               primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	OriginalFilename string                 `bson:"original_filename" json:"original_filename"`
	Title            string                 `bson:"title" json:"title"`
	AltText          string                 `bson:"alt_text" json:"alt_text"`
	Description      string                 `bson:"description" json:"description"`
	Metadata         map[string]string      `bson:"metadata" json:"metadata"`
	MimeType         string                 `bson:"mime_type" json:"mime_type"`
	Sizes            map[SizeName]Rendition `bson:"sizes" json:"sizes"`
	CreatedAt        time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time              `bson:"updated_at" json:"updated_at"`
}

// PayloadBytes is the total size of all rendition payloads.
func (m *Media) PayloadBytes() int {
	n := 0
	for _, r := range m.Sizes {
		n += len(r.Data)
	}
	return n
}

// ImagePath is the public URL path of the rendition with the given size.
func ImagePath(id primitive.ObjectID, size SizeName) string {
	return fmt.Sprintf("/media/image/%s/%s", id.Hex(), size)
}

// MediaView is the API shape of a media record: dimensions and URLs, no payloads.
type MediaView struct {
	ID               primitive.ObjectID        `json:"id"`
	OriginalFilename string                    `json:"original_filename"`
	Title            string                    `json:"title"`
	AltText          string                    `json:"alt_text"`
	Description      string                    `json:"description"`
	Metadata         map[string]string         `json:"metadata"`
	MimeType         string                    `json:"mime_type"`
	Sizes            map[SizeName]RenditionRef `json:"sizes"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// RenditionRef describes a stored rendition without its bytes.
type RenditionRef struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// View strips payloads and adds rendition URLs.
func (m *Media) View() MediaView {
	sizes := make(map[SizeName]RenditionRef, len(m.Sizes))
	for name, r := range m.Sizes {
		sizes[name] = RenditionRef{Width: r.Width, Height: r.Height, URL: ImagePath(m.ID, name)}
	}
	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return MediaView{
		ID:               m.ID,
		OriginalFilename: m.OriginalFilename,
		Title:            m.Title,
		AltText:          m.AltText,
		Description:      m.Description,
		Metadata:         metadata,
		MimeType:         m.MimeType,
		Sizes:            sizes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// MediaUpdate carries the editable text fields. Nil fields are left unchanged;
// a non-nil Metadata replaces the stored map wholesale.
type MediaUpdate struct {
	Title       *string           `json:"title"`
	AltText     *string           `json:"alt_text"`
	Description *string           `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// UploadFile is one file of a multipart batch, already read into memory.
type UploadFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// UploadResult reports the records created by a batch upload.
type UploadResult struct {
	IDs     []primitive.ObjectID `json:"ids"`
	Failed  []UploadFailure      `json:"failed,omitempty"`
	Message string               `json:"message"`
}

// UploadFailure names a file that could not be stored.
type UploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}
