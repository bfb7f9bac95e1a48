package model

import (
	"bytes"
	"encoding/json"
)

// Record is one extracted table row. A positional record is an ordered list
// of values. A keyed record pairs every value with a header name; a keyed
// value may be null when the row had fewer cells than the header.
type Record struct {
	keys   []string
	values []string
	valid  []bool
}

// Positional creates a record without keys.
func Positional(values ...string) Record {
	r := Record{
		values: append([]string(nil), values...),
		valid:  make([]bool, len(values)),
	}
	for i := range r.valid {
		r.valid[i] = true
	}
	return r
}

// Keyed pairs keys with values by position. Keys without a value are null;
// values beyond the last key are dropped.
func Keyed(keys []string, values []string) Record {
	r := Record{
		keys:   append([]string{}, keys...),
		values: make([]string, len(keys)),
		valid:  make([]bool, len(keys)),
	}
	for i := range keys {
		if i < len(values) {
			r.values[i] = values[i]
			r.valid[i] = true
		}
	}
	return r
}

// IsKeyed reports whether the record carries keys.
func (r Record) IsKeyed() bool { return r.keys != nil }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// Keys returns a copy of the record's keys, nil for positional records.
func (r Record) Keys() []string {
	if r.keys == nil {
		return nil
	}
	return append([]string{}, r.keys...)
}

// Values returns a copy of the values in order. Null values are "".
func (r Record) Values() []string {
	return append([]string(nil), r.values...)
}

// At returns the value at position i. ok is false when i is out of range or
// the value is null.
func (r Record) At(i int) (value string, ok bool) {
	if i < 0 || i >= len(r.values) {
		return "", false
	}
	return r.values[i], r.valid[i]
}

// Get returns the value stored under key. ok is false when the key is absent
// or its value is null.
func (r Record) Get(key string) (value string, ok bool) {
	for i, k := range r.keys {
		if k == key {
			return r.values[i], r.valid[i]
		}
	}
	return "", false
}

// Set returns a copy of a keyed record with key set to value, appending the
// key if it is new. Positional records are returned unchanged.
func (r Record) Set(key, value string) Record {
	if !r.IsKeyed() {
		return r
	}
	out := r.clone()
	for i, k := range out.keys {
		if k == key {
			out.values[i] = value
			out.valid[i] = true
			return out
		}
	}
	out.keys = append(out.keys, key)
	out.values = append(out.values, value)
	out.valid = append(out.valid, true)
	return out
}

// Delete returns a copy of a keyed record without key.
func (r Record) Delete(key string) Record {
	if !r.IsKeyed() {
		return r
	}
	out := Record{keys: []string{}}
	for i, k := range r.keys {
		if k == key {
			continue
		}
		out.keys = append(out.keys, k)
		out.values = append(out.values, r.values[i])
		out.valid = append(out.valid, r.valid[i])
	}
	return out
}

// Equal reports whether two records have the same keys, values and nulls.
func (r Record) Equal(o Record) bool {
	if r.IsKeyed() != o.IsKeyed() || len(r.keys) != len(o.keys) || len(r.values) != len(o.values) {
		return false
	}
	for i := range r.keys {
		if r.keys[i] != o.keys[i] {
			return false
		}
	}
	for i := range r.values {
		if r.valid[i] != o.valid[i] || r.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func (r Record) clone() Record {
	out := Record{
		values: append([]string(nil), r.values...),
		valid:  append([]bool(nil), r.valid...),
	}
	if r.keys != nil {
		out.keys = append([]string{}, r.keys...)
	}
	return out
}

// MarshalJSON encodes keyed records as objects that keep the key order and
// positional records as arrays.
func (r Record) MarshalJSON() ([]byte, error) {
	if !r.IsKeyed() {
		if r.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.values)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if !r.valid[i] {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
