package pilot

import "github.com/san-kum/soarsim/internal/dynamo"

// Passive never moves the controls.
type Passive struct {
	AngleRate float64
}

func NewPassive(angleRate float64) *Passive {
	return &Passive{AngleRate: angleRate}
}

func (p *Passive) Name() string { return "passive_pilot" }

func (p *Passive) Compute(x dynamo.State, t float64) dynamo.Control {
	return make(dynamo.Control, 3)
}
