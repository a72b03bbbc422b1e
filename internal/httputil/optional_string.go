package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field from an explicit
// null, which a plain *string cannot. The nickname PATCH needs the
// distinction: null clears the label, absent is a client error.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON records presence; it only runs when the field occurs
// in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

		if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
