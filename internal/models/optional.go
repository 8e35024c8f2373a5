package models

import (
	"encoding/json"
)

// OptionalString is a JSON string field that remembers whether it was present
// in the payload. Absent and null both decode to a zero, not-present value.
type OptionalString struct {
	Value   string
	Present bool
}

// Some returns a present OptionalString holding v.
func Some(v string) OptionalString {
	return OptionalString{Value: v, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalString{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalJSON implements json.Marshaler; a missing value is encoded as null.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Provided reports whether the field was sent with a non-empty value.
func (o OptionalString) Provided() bool {
	return o.Present && o.Value != ""
}

// Ptr returns a pointer to the value, or nil when the field was absent.
func (o OptionalString) Ptr() *string {
	if !o.Present {
		return nil
	}
	v := o.Value
	return &v
}
