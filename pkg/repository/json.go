package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ScanJSON decodes a jsonb column value into dest.
// A NULL column leaves dest untouched.
func ScanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into json", src)
	}
}

// JSONValue encodes v for a jsonb parameter.
func JSONValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// JSONMap is a free-form JSON object column.
type JSONMap map[string]any

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	out := JSONMap{}
	if err := ScanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = JSONMap{}
	}
	*m = out
	return nil
}

// Value implements driver.Valuer. A nil map is stored as an empty object.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return JSONValue(map[string]any(m))
}
