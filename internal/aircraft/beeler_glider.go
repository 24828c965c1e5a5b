package aircraft

import (
	"math"

	"github.com/san-kum/soarsim/internal/dynamo"
)

const Gravity = 9.81

// GliderParams describes the airframe of a Beeler glider.
type GliderParams struct {
	Mass        float64 // kg
	WingArea    float64 // m^2
	AspectRatio float64
	Oswald      float64
	CD0         float64
	CYBeta      float64 // side force slope, per rad
	AirDensity  float64 // kg/m^3
}

func DefaultGliderParams() GliderParams {
	return GliderParams{
		Mass:        1.35,
		WingArea:    0.14,
		AspectRatio: 16,
		Oswald:      0.95,
		CD0:         0.01,
		CYBeta:      -0.2,
		AirDensity:  1.225,
	}
}

// LiftSlope is the finite-wing lift curve slope, per rad.
func (p GliderParams) LiftSlope() float64 {
	ar := p.AspectRatio
	return 2 * math.Pi * ar / (2 + math.Sqrt(ar*ar+4))
}

// BeelerGlider is a point-mass glider whose controls are the rates of
// incidence, sideslip and bank.
type BeelerGlider struct {
	params   GliderParams
	state    dynamo.State
	maxAngle float64
	cmd      Command
	wind     dynamo.Wind
}

func NewBeelerGlider(s State, c Command) *BeelerGlider {
	return &BeelerGlider{
		params:   DefaultGliderParams(),
		state:    s.Vector(),
		maxAngle: s.MaxAngle,
		cmd:      c,
	}
}

func (g *BeelerGlider) Name() string            { return "beeler_glider" }
func (g *BeelerGlider) StateDim() int           { return StateDim }
func (g *BeelerGlider) ControlDim() int         { return 3 }
func (g *BeelerGlider) Params() GliderParams    { return g.params }
func (g *BeelerGlider) MaxAngle() float64       { return g.maxAngle }
func (g *BeelerGlider) Command() Command        { return g.cmd }
func (g *BeelerGlider) SetCommand(c Command)    { g.cmd = c }
func (g *BeelerGlider) State() dynamo.State     { return g.state.Clone() }
func (g *BeelerGlider) SetState(x dynamo.State) { g.state = x.Clone() }
func (g *BeelerGlider) SetWind(w dynamo.Wind)   { g.wind = w }
func (g *BeelerGlider) Wind() dynamo.Wind       { return g.wind }

// Snapshot returns the full glider state, limits included.
func (g *BeelerGlider) Snapshot() State {
	return State{MaxAngle: g.maxAngle}.WithVector(g.state)
}

// Clone returns an independent glider with the same airframe, state,
// command and wind.
func (g *BeelerGlider) Clone() *BeelerGlider {
	c := *g
	c.state = g.state.Clone()
	return &c
}

// Aero returns lift, drag and side force in N.
func (g *BeelerGlider) Aero(x dynamo.State) (lift, drag, side float64) {
	p := g.params
	cl := p.LiftSlope() * x[IAlpha]
	cd := p.CD0 + cl*cl/(math.Pi*p.Oswald*p.AspectRatio)
	cy := p.CYBeta * x[IBeta]
	q := 0.5 * p.AirDensity * x[IV] * x[IV] * p.WingArea
	return q * cl, q * cd, q * cy
}

func (g *BeelerGlider) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	p := g.params
	m := p.Mass
	v := math.Max(x[IV], 1e-3)
	gamma, khi, sigma := x[IGamma], x[IKhi], x[ISigma]
	cg := math.Cos(gamma)
	if math.Abs(cg) < 1e-6 {
		cg = math.Copysign(1e-6, cg)
	}

	lift, drag, side := g.Aero(x)
	cmd := CommandFrom(u)

	dx := make(dynamo.State, StateDim)
	dx[IX] = v*cg*math.Cos(khi) + g.wind.X
	dx[IY] = v*cg*math.Sin(khi) + g.wind.Y
	dx[IZ] = v*math.Sin(gamma) + g.wind.Z
	dx[IV] = -drag/m - Gravity*math.Sin(gamma)
	dx[IGamma] = (lift*math.Cos(sigma) - side*math.Sin(sigma) - m*Gravity*cg) / (m * v)
	dx[IKhi] = (lift*math.Sin(sigma) + side*math.Cos(sigma)) / (m * v * cg)
	dx[IAlpha] = g.limitRate(x[IAlpha], cmd.DAlpha)
	dx[IBeta] = g.limitRate(x[IBeta], cmd.DBeta)
	dx[ISigma] = g.limitRate(x[ISigma], cmd.DSigma)
	return dx
}

// limitRate stops an angle from being driven past the maximum magnitude.
func (g *BeelerGlider) limitRate(angle, rate float64) float64 {
	if g.maxAngle <= 0 {
		return rate
	}
	if (angle >= g.maxAngle && rate > 0) || (angle <= -g.maxAngle && rate < 0) {
		return 0
	}
	return rate
}

// SpecificEnergy is the total energy per unit weight, m.
func SpecificEnergy(x dynamo.State) float64 {
	return x[IZ] + x[IV]*x[IV]/(2*Gravity)
}
