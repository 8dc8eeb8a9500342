package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NullableID decodes an optional foreign key that may be absent, null, blank or a value.
// Numbers and numeric strings are both accepted.
type NullableID struct {
	Set     bool
	Valid   bool
	Value   int64
	Invalid bool
}

// UnmarshalJSON is only invoked when the key is present.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	*n = NullableID{Set: true}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) || v <= 0 {
			n.Invalid = true
			return nil
		}
		n.Valid, n.Value = true, int64(v)
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			n.Invalid = true
			return nil
		}
		n.Valid, n.Value = true, id
	default:
		n.Invalid = true
	}
	return nil
}

// Ptr returns the id or nil when cleared.
func (n NullableID) Ptr() *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
