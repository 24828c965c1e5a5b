// Package zone provides the flight zones an aircraft can be flown in.
package zone

import "github.com/san-kum/soarsim/internal/dynamo"

// Flat is an unbounded flat zone with a constant horizontal wind.
// Wx is positive east, Wy positive north, both in m/s.
type Flat struct {
	Wx float64
	Wy float64
}

func NewFlat(wx, wy float64) *Flat {
	return &Flat{Wx: wx, Wy: wy}
}

func (f *Flat) Name() string { return "flat_zone" }

func (f *Flat) Wind(x, y, z, t float64) dynamo.Wind {
	return dynamo.Wind{X: f.Wx, Y: f.Wy}
}
