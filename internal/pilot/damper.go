package pilot

import (
	"github.com/samber/lo"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/dynamo"
)

const (
	// ThermalBank is the bank angle held while climbing.
	ThermalBank = 30 * dynamo.ToRad
	// attitudeTau is the time constant used to pull beta and sigma back to
	// their targets, s.
	attitudeTau = 1.0
)

// damper tracks the flight path between calls so the alpha and beta
// channels can be derived from finite differences.
type damper struct {
	rate float64
	kd   float64

	first     bool
	prevT     float64
	prevGamma float64
	prevZ     float64
}

func newDamper(rate, kd float64) damper {
	return damper{rate: rate, kd: kd, first: true}
}

func (d *damper) reset() {
	d.first = true
}

// observe returns the flight-path rate and the climb rate since the
// previous call, then remembers x. Both are zero on the first call.
func (d *damper) observe(x dynamo.State, t float64) (gammaRate, climb float64) {
	if !d.first {
		if dt := t - d.prevT; dt > 0 {
			gammaRate = (x[aircraft.IGamma] - d.prevGamma) / dt
			climb = (x[aircraft.IZ] - d.prevZ) / dt
		}
	}
	d.first = false
	d.prevT = t
	d.prevGamma = x[aircraft.IGamma]
	d.prevZ = x[aircraft.IZ]
	return gammaRate, climb
}

// alphaBeta returns the incidence rate opposing flight-path oscillation,
// with the gain applied to the rate in deg/s, and the sideslip rate
// returning beta to zero.
func (d *damper) alphaBeta(x dynamo.State, gammaRate float64) (float64, float64) {
	da := d.clamp(-d.kd * gammaRate * dynamo.ToDeg)
	db := d.clamp(-x[aircraft.IBeta] / attitudeTau)
	return da, db
}

func (d *damper) bankToward(x dynamo.State, target float64) float64 {
	return d.clamp((target - x[aircraft.ISigma]) / attitudeTau)
}

func (d *damper) clamp(v float64) float64 {
	return lo.Clamp(v, -d.rate, d.rate)
}
