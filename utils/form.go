package utils

import (
	"sort"
	"strings"
)

// MetadataFromForm assembles the media metadata map from paired form
// fields. Two encodings are accepted and may be mixed:
//
//	metadata_key_<n> / metadata_value_<n>   rows added in the editor
//	metadata_<key>   / metadata_<key>_value rows already stored
//
// Rows with an empty key or value are dropped. ok is false when the form
// carries no metadata fields at all.
func MetadataFromForm(form map[string][]string) (map[string]string, bool) {
	first := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	metadata := map[string]string{}
	seen := false
	for _, field := range keys {
		if !strings.HasPrefix(field, "metadata_") {
			continue
		}
		seen = true
		switch {
		case strings.HasPrefix(field, "metadata_key_"):
			index := strings.TrimPrefix(field, "metadata_key_")
			key, value := first(field), first("metadata_value_"+index)
			if key != "" && value != "" {
				metadata[key] = value
			}
		case strings.HasPrefix(field, "metadata_value_"), strings.HasSuffix(field, "_value"):
			// consumed with its key
		default:
			key := strings.TrimPrefix(field, "metadata_")
			if value := first(field + "_value"); key != "" && value != "" {
				metadata[key] = value
			}
		}
	}
	return metadata, seen
}
