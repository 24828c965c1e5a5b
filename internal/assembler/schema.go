package assembler

import (
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
)

type fieldKind int

const (
	number fieldKind = iota
	// angle is a number given in degrees and stored in radians.
	angle
	count
	text
)

type field struct {
	key  string
	kind fieldKind
}

func num(key string) field { return field{key, number} }
func deg(key string) field { return field{key, angle} }
func cnt(key string) field { return field{key, count} }
func str(key string) field { return field{key, text} }

// values holds a fully validated schema read. Lookups of keys outside the
// schema return zero values.
type values map[string]any

func (v values) f(key string) float64 {
	x, _ := v[key].(float64)
	return x
}

func (v values) u(key string) uint {
	x, _ := v[key].(uint)
	return x
}

func (v values) s(key string) string {
	x, _ := v[key].(string)
	return x
}

// read validates every field before returning anything: either all values
// come back or none do, together with the full list of missing keys.
func read(doc *config.Document, fields []field) (values, []string) {
	out := make(values, len(fields))
	var absent []string
	for _, fd := range fields {
		var (
			val any
			ok  bool
		)
		switch fd.kind {
		case number:
			val, ok = doc.Float(fd.key)
		case angle:
			var d float64
			d, ok = doc.Float(fd.key)
			val = d * dynamo.ToRad
		case count:
			val, ok = doc.Uint(fd.key)
		case text:
			val, ok = doc.String(fd.key)
		}
		if !ok {
			absent = append(absent, fd.key)
			continue
		}
		out[fd.key] = val
	}
	if len(absent) > 0 {
		return nil, absent
	}
	return out, nil
}

func keys(fields []field) []string {
	ks := make([]string, len(fields))
	for i, fd := range fields {
		ks[i] = fd.key
	}
	return ks
}
