package utils

import (
	"net/http"
	"strings"
)

var decodableImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// IsValidImageType checks if the content type is an image the rendition
// pipeline can decode
func IsValidImageType(contentType string) bool {
	contentType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, validType := range decodableImageTypes {
		if strings.EqualFold(contentType, validType) {
			return true
		}
	}
	return false
}

// SniffImageType returns the declared type when it names a decodable image,
// otherwise the type detected from the first bytes of data.
func SniffImageType(declared string, data []byte) string {
	if IsValidImageType(declared) {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	}
	return http.DetectContentType(data)
}

// TitleFromFilename drops the extension from a filename.
func TitleFromFilename(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
