package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent PATCH field from an explicit null
// (RFC 7396):
//   - Present=false: leave unchanged
//   - Present=true, Value=nil: JSON null
//   - Present=true, Value set: JSON string, possibly empty
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only invoked for fields present in the payload.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
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

// OrDefault returns the string value, or def when the field was null.
func (o OptionalString) OrDefault(def string) string {
	if o.Value == nil {
		return def
	}
	return *o.Value
}
