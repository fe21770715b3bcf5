package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StringList accepts a JSON string (optionally comma-joined), an array of
// strings, or null, and always decodes to a trimmed list with empty entries
// removed. Order is preserved and repeated values are kept.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	case '[':
		var raw []string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("list entries must be strings: %w", err)
		}
		*l = SplitList(raw...)
		return nil
	default:
		return fmt.Errorf("list must be a string or an array of strings")
	}
}

// SplitList flattens values, splitting each on commas, trimming whitespace
// and dropping empty entries.
func SplitList(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UniqueList returns values with later repeats removed, keeping first positions.
func UniqueList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// OptionalFloat decodes a JSON number, a numeric string, an empty string or
// null. Blank and null values decode to "not set".
type OptionalFloat struct {
	Value *float64
}

func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	f.Value = nil
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}
	f.Value = &v
	return nil
}

func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Float builds a set OptionalFloat.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: &v}
}

// Flag decodes JSON booleans as well as HTML checkbox values ("on", "true", "1").
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false", "null", "":
		*f = false
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid flag value %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// sortedFormKeys orders keys of a form-encoded object ("0", "1", "10", "x")
// numerically first, then lexically.
func sortedFormKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
