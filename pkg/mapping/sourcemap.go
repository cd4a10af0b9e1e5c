/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/valyala/bytebufferpool"
)

// SourceMap is an insertion-ordered map of field name to value: the form a
// document source takes between parsing and indexing, and the form source
// transforms rewrite. Nested JSON objects decode as nested *SourceMap.
type SourceMap struct {
	keys []string
	vals map[string]any
}

func NewSourceMap() *SourceMap {
	return &SourceMap{vals: make(map[string]any)}
}

// Put sets a value. A new key is appended; overwriting keeps the key's
// original position. Returns the map for chaining.
func (s *SourceMap) Put(name string, value any) *SourceMap {
	if _, ok := s.vals[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.vals[name] = value
	return s
}

// Value returns the value of a key and whether it is present.
func (s *SourceMap) Value(name string) (any, bool) {
	v, ok := s.vals[name]
	return v, ok
}

func (s *SourceMap) Has(name string) bool {
	_, ok := s.vals[name]
	return ok
}

// Delete removes a key, keeping the relative order of the rest.
func (s *SourceMap) Delete(name string) {
	if _, ok := s.vals[name]; !ok {
		return
	}
	delete(s.vals, name)
	for i, k := range s.keys {
		if k == name {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

func (s *SourceMap) Len() int { return len(s.keys) }

// Keys returns the keys in insertion order.
func (s *SourceMap) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Enum enumerates entries in insertion order.
func (s *SourceMap) Enum(cb func(name string, value any)) {
	for _, k := range s.keys {
		cb(k, s.vals[k])
	}
}

// Clone returns a shallow copy: keys are copied, values are shared.
func (s *SourceMap) Clone() *SourceMap {
	c := NewSourceMap()
	c.keys = append(c.keys, s.keys...)
	for k, v := range s.vals {
		c.vals[k] = v
	}
	return c
}

// AsString returns the value of a key as a string.
func (s *SourceMap) AsString(name string) (string, bool) {
	v, ok := s.vals[name].(string)
	return v, ok
}

// AsMap returns the value of a key as a nested SourceMap.
func (s *SourceMap) AsMap(name string) (*SourceMap, bool) {
	v, ok := s.vals[name].(*SourceMap)
	return v, ok
}

// MarshalJSON encodes the map as a JSON object with keys in insertion
// order.
func (s *SourceMap) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(kb)
		_ = buf.WriteByte(':')
		vb, err := json.Marshal(s.vals[k])
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(vb)
	}
	_ = buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Nested objects
// decode as *SourceMap, arrays as []any, numbers as float64.
func (s *SourceMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("source map must be a JSON object, got %v", tok)
	}
	m, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*s = *m
	return nil
}

// decodeObject reads the members of an object whose '{' is consumed.
func decodeObject(dec *json.Decoder) (*SourceMap, error) {
	m := NewSourceMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m.Put(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	var arr []any
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return tok, nil
	}
}
