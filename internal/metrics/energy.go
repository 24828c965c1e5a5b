package metrics

import (
	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/dynamo"
)

// SpecificEnergy averages z + V^2/2g over the observed states.
type SpecificEnergy struct {
	name    string
	total   float64
	samples int
}

func NewSpecificEnergy() *SpecificEnergy {
	return &SpecificEnergy{name: "specific_energy"}
}

func (e *SpecificEnergy) Name() string { return e.name }

func (e *SpecificEnergy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < aircraft.StateDim {
		return
	}
	e.total += aircraft.SpecificEnergy(x)
	e.samples++
}

func (e *SpecificEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *SpecificEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// ClimbRate is the net altitude gained per second between the first and
// the last observed state.
type ClimbRate struct {
	name         string
	z0, t0       float64
	zLast, tLast float64
	samples      int
}

func NewClimbRate() *ClimbRate {
	return &ClimbRate{name: "climb_rate"}
}

func (c *ClimbRate) Name() string { return c.name }

func (c *ClimbRate) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) <= aircraft.IZ {
		return
	}
	if c.samples == 0 {
		c.z0, c.t0 = x[aircraft.IZ], t
	}
	c.zLast, c.tLast = x[aircraft.IZ], t
	c.samples++
}

func (c *ClimbRate) Value() float64 {
	if c.samples < 2 || c.tLast == c.t0 {
		return 0
	}
	return (c.zLast - c.z0) / (c.tLast - c.t0)
}

func (c *ClimbRate) Reset() {
	*c = ClimbRate{name: c.name}
}
