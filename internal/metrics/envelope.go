package metrics

import (
	"math"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/dynamo"
)

// Envelope is the fraction of observed states whose attitude angles stay
// within the aircraft's angle limit.
type Envelope struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewEnvelope(limit float64) *Envelope {
	return &Envelope{name: "envelope", limit: limit}
}

func (e *Envelope) Name() string { return e.name }

func (e *Envelope) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < aircraft.StateDim {
		return
	}
	e.samples++
	for _, i := range []int{aircraft.IAlpha, aircraft.IBeta, aircraft.ISigma} {
		if math.Abs(x[i]) > e.limit+1e-9 {
			e.violations++
			break
		}
	}
}

func (e *Envelope) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Envelope) Reset() {
	e.violations = 0
	e.samples = 0
}
