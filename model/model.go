package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID of a resource in the remote API.
// The API uses both numeric and string identifiers, so both are accepted when decoding.
type ID string

// String satisfies [fmt.Stringer].
func (i ID) String() string {
	return string(i)
}

var _ fmt.Stringer = ID("")

// UnmarshalJSON satisfies [json.Unmarshaler].
func (i *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("error decoding id, got %s", data)
	}
	*i = ID(n.String())
	return nil
}

var _ json.Unmarshaler = (*ID)(nil)

type UserID ID

// String satisfies [fmt.Stringer].
func (i UserID) String() string {
	return string(i)
}

var _ fmt.Stringer = UserID("")

// UnmarshalJSON satisfies [json.Unmarshaler].
func (i *UserID) UnmarshalJSON(data []byte) error {
	return (*ID)(i).UnmarshalJSON(data)
}

type NotificationID ID

// UnmarshalJSON satisfies [json.Unmarshaler].
func (i *NotificationID) UnmarshalJSON(data []byte) error {
	return (*ID)(i).UnmarshalJSON(data)
}
