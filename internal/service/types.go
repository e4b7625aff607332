package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Task represents a single task item as the store reports it.
type Task struct {
	ID        ID     `json:"id"`
	Text      string `json:"task"`
	Completed Flag   `json:"completed"`
}

// ID is the opaque, store-assigned task identifier.
// Stores send either JSON numbers or strings; both decode into ID.
type ID string

// String returns the identifier as used in request paths.
func (id ID) String() string { return string(id) }

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON implements json.Marshaler. Integer IDs are written as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Flag is the completed flag. Stores encode it as 0/1; booleans and
// quoted digits are accepted as well.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(data)), `"`) {
	case "1", "true":
		*f = true
	case "0", "false", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid completed flag %s", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler using the store's 0/1 encoding.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// ValidateText trims text and reports ErrEmptyText if nothing is left.
// The returned text is the caller's original input, not the trimmed one.
func ValidateText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
