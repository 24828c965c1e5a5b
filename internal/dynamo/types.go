package dynamo

import "math"

const (
	ToRad = math.Pi / 180
	ToDeg = 180 / math.Pi
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type Control []float64

// Wind is an air-mass velocity in the zone frame, m/s. Z is positive up.
type Wind struct {
	X, Y, Z float64
}

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Stepper is a fixed-step integrator. SubStep is the width it was built
// with; Step integrates exactly one step of width dt.
type Stepper interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
	SubStep() float64
	Name() string
}

// Pilot decides the control command for the current state.
type Pilot interface {
	Compute(x State, t float64) Control
	Name() string
}

// Learner is implemented by pilots that update from the reward of the
// transition they just commanded.
type Learner interface {
	Observe(x State, u Control, reward float64, next State)
}

// Resetter is implemented by pilots holding per-episode memory.
type Resetter interface {
	Reset()
}

// FlightZone is the atmosphere the aircraft flies in.
type FlightZone interface {
	Wind(x, y, z, t float64) Wind
	Name() string
}

// Aircraft is a dynamics model carrying its own state and the wind it
// currently sees.
type Aircraft interface {
	System
	State() State
	SetState(x State)
	SetWind(w Wind)
	Name() string
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Advance covers dt with sub-steps of the stepper's own width. The last
// sub-step is shortened so the total is exactly dt.
func Advance(st Stepper, dyn System, x State, u Control, t, dt float64) State {
	h := st.SubStep()
	if h <= 0 || h >= dt {
		return st.Step(dyn, x, u, t, dt)
	}
	elapsed := 0.0
	for elapsed < dt-1e-12 {
		w := math.Min(h, dt-elapsed)
		x = st.Step(dyn, x, u, t+elapsed, w)
		elapsed += w
	}
	return x
}
