package sqlite

import (
	"encoding/json"
	"fmt"
)

// encodeJSON stores a slice column; nil slices are written as []
func encodeJSON[T any](v []T) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	return string(b), nil
}

func decodeJSON[T any](raw string) ([]T, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var v []T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to decode column: %w", err)
	}
	return v, nil
}
