// Package decode converts loosely typed JSON objects into typed values.
package decode

import "encoding/json"

// FromMap re-encodes data and decodes it into T. Unknown keys are ignored.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	if data == nil {
		return result, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}
