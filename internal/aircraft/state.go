// Package aircraft holds the dynamics models the assembler can build.
package aircraft

import "github.com/san-kum/soarsim/internal/dynamo"

// Indices into the dynamic state vector of a glider.
const (
	IX = iota
	IY
	IZ
	IV
	IGamma
	IKhi
	IAlpha
	IBeta
	ISigma
	StateDim
)

// State is the initial kinematic state of a glider. Position is in m,
// speed in m/s and every angle in radians. MaxAngle bounds alpha, beta
// and sigma; it is a limit, not an integrated quantity.
type State struct {
	X, Y, Z  float64
	V        float64
	Gamma    float64
	Khi      float64
	Alpha    float64
	Beta     float64
	Sigma    float64
	MaxAngle float64
}

// Vector returns the integrated part of the state.
func (s State) Vector() dynamo.State {
	return dynamo.State{s.X, s.Y, s.Z, s.V, s.Gamma, s.Khi, s.Alpha, s.Beta, s.Sigma}
}

// WithVector returns a copy of s whose integrated fields come from x.
func (s State) WithVector(x dynamo.State) State {
	s.X, s.Y, s.Z = x[IX], x[IY], x[IZ]
	s.V, s.Gamma, s.Khi = x[IV], x[IGamma], x[IKhi]
	s.Alpha, s.Beta, s.Sigma = x[IAlpha], x[IBeta], x[ISigma]
	return s
}

// Command holds the angle rates applied to the glider, rad/s.
type Command struct {
	DAlpha float64
	DBeta  float64
	DSigma float64
}

func (c Command) Control() dynamo.Control {
	return dynamo.Control{c.DAlpha, c.DBeta, c.DSigma}
}

func CommandFrom(u dynamo.Control) Command {
	var c Command
	if len(u) > 0 {
		c.DAlpha = u[0]
	}
	if len(u) > 1 {
		c.DBeta = u[1]
	}
	if len(u) > 2 {
		c.DSigma = u[2]
	}
	return c
}
