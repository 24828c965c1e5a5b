package metrics

import (
	"math"

	"github.com/san-kum/soarsim/internal/dynamo"
)

// ControlEffort is the mean over decisions of the summed absolute command
// rates, rad/s. Peak keeps the largest single decision.
type ControlEffort struct {
	name    string
	sum     float64
	peak    float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	effort := 0.0
	for _, rate := range u {
		effort += math.Abs(rate)
	}
	c.sum += effort
	c.peak = math.Max(c.peak, effort)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Peak() float64 { return c.peak }

func (c *ControlEffort) Reset() {
	c.sum, c.peak, c.samples = 0, 0, 0
}
