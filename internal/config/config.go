package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Document is a flat key/value configuration document. It is read-only
// once built, so concurrent lookups need no locking.
type Document struct {
	values map[string]any
}

// Parse decodes a YAML mapping of scalar keys. Nested mappings and
// sequences are rejected.
func Parse(data []byte) (*Document, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config: key %q is not a scalar", k)
		}
	}
	return &Document{values: raw}, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document back as YAML.
func Save(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalYAML writes the document as a flat mapping.
func (d *Document) MarshalYAML() (any, error) {
	return d.values, nil
}

// FromMap copies values into a new document.
func FromMap(values map[string]any) *Document {
	c := make(map[string]any, len(values))
	for k, v := range values {
		c[k] = v
	}
	return &Document{values: c}
}

func (d *Document) Exists(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.values[key]
	return ok
}

// Float returns the value of key as a float. Integers are widened; any
// other type is a mismatch.
func (d *Document) Float(key string) (float64, bool) {
	if d == nil {
		return 0, false
	}
	switch v := d.values[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// Uint returns the value of key as a non-negative integer. Floats are
// accepted only when integral.
func (d *Document) Uint(key string) (uint, bool) {
	if d == nil {
		return 0, false
	}
	switch v := d.values[key].(type) {
	case int:
		if v >= 0 {
			return uint(v), true
		}
	case int64:
		if v >= 0 {
			return uint(v), true
		}
	case uint64:
		return uint(v), true
	case float64:
		if v >= 0 && v == math.Trunc(v) && v <= math.MaxUint32 {
			return uint(v), true
		}
	}
	return 0, false
}

func (d *Document) String(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	s, ok := d.values[key].(string)
	return s, ok
}

// With returns a copy of the document with key set to value.
func (d *Document) With(key string, value any) *Document {
	c := FromMap(d.values)
	c.values[key] = value
	return c
}

// Without returns a copy of the document with key removed.
func (d *Document) Without(key string) *Document {
	c := FromMap(d.values)
	delete(c.values, key)
	return c
}

func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
