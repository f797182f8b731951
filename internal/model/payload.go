package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a tolerant text value for fields produced by a language model.
// It accepts a JSON string, number, boolean, list or object and renders it as text:
// lists are joined with ", " and objects keep their compact JSON form.
type Text string

// UnmarshalJSON implements json.Unmarshaler. It never fails on valid JSON.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if item != "" {
				parts = append(parts, string(item))
			}
		}
		*t = Text(strings.Join(parts, ", "))
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		// numbers and booleans keep their literal form
		*t = Text(data)
	}
	return nil
}

// String returns the text value.
func (t Text) String() string {
	return string(t)
}

// Or returns t, or fallback when t is empty.
func (t Text) Or(fallback Text) Text {
	if t == "" {
		return fallback
	}
	return t
}

// Int parses t as an integer. It returns false when t is not numeric.
func (t Text) Int() (int, bool) {
	s := strings.TrimSpace(string(t))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// Payload is an opaque JSON payload stored verbatim. A JSON null decodes to an
// empty Payload, which reports "not yet computed" through Present.
type Payload json.RawMessage

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}
	*p = append((*p)[:0], trimmed...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// Present reports whether the payload holds a value.
func (p Payload) Present() bool {
	return len(p) > 0
}

// Field decodes the top-level object key into v. It returns false when the
// payload is not an object, the key is absent, or the value does not fit v.
func (p Payload) Field(key string, v any) bool {
	if !p.Present() {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(p, &obj); err != nil {
		return false
	}
	raw, ok := obj[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// decodeFields decodes each listed key of a JSON object into its target.
// A key whose value does not fit its target leaves the target untouched, and a
// payload that is not an object decodes to nothing. Schema drift in one field
// therefore never discards the rest of the payload.
func decodeFields(data []byte, fields map[string]any) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return
	}
	for key, target := range fields {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		_ = json.Unmarshal(raw, target) //nolint:errcheck // drifted fields stay empty
	}
}

// verbatim returns a copy of data for use as a Raw field.
func verbatim(data []byte) json.RawMessage {
	return append(json.RawMessage(nil), bytes.TrimSpace(data)...)
}
