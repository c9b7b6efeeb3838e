package db

import "encoding/json"

// JSONB array columns scan as raw bytes; this keeps the []string decode in
// one place.
func decodeStringList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
