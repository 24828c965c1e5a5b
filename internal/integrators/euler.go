package integrators

import "github.com/san-kum/soarsim/internal/dynamo"

// Euler is the explicit first-order integrator.
type Euler struct {
	subDt float64
}

func NewEuler(subDt float64) *Euler {
	return &Euler{subDt: subDt}
}

func (e *Euler) Name() string     { return "euler" }
func (e *Euler) SubStep() float64 { return e.subDt }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// Transition advances x over dt with sub-steps of width subDt. Planning
// pilots use it as their rollout model.
func Transition(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, subDt float64) dynamo.State {
	return dynamo.Advance(NewEuler(subDt), dyn, x, u, t, dt)
}
