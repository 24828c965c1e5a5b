package pilot

import (
	"fmt"

	"github.com/san-kum/soarsim/internal/dynamo"
)

// Heuristic damps the phugoid on the alpha channel, keeps sideslip at
// zero, and banks to ThermalBank whenever the last decision gained height.
type Heuristic struct {
	AngleRate float64
	Kd        float64
	d         damper
}

func NewHeuristic(angleRate, kd float64) *Heuristic {
	return &Heuristic{AngleRate: angleRate, Kd: kd, d: newDamper(angleRate, kd)}
}

func (h *Heuristic) Name() string { return "heuristic_pilot" }

func (h *Heuristic) Compute(x dynamo.State, t float64) dynamo.Control {
	gammaRate, climb := h.d.observe(x, t)
	da, db := h.d.alphaBeta(x, gammaRate)

	target := 0.0
	if climb > 0 {
		target = ThermalBank
	}
	return dynamo.Control{da, db, h.d.bankToward(x, target)}
}

func (h *Heuristic) Reset() { h.d.reset() }

func (h *Heuristic) GetParams() map[string]float64 {
	return map[string]float64{"angle_rate": h.AngleRate, "kd": h.Kd}
}

func (h *Heuristic) SetParam(name string, value float64) error {
	switch name {
	case "angle_rate":
		if value < 0 {
			return fmt.Errorf("angle_rate %v: %w", value, dynamo.ErrParameterBounds)
		}
		h.AngleRate = value
		h.d.rate = value
	case "kd":
		h.Kd = value
		h.d.kd = value
	default:
		return fmt.Errorf("heuristic pilot has no parameter %q", name)
	}
	return nil
}
