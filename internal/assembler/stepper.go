package assembler

import (
	"fmt"
	"math"

	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/integrators"
)

const opStepper = "read_stepper"

// Stepper selectors.
const (
	EulerIntegrator uint = iota
	RK4Integrator
)

func stepperVariants(subDt float64) map[uint]variant[dynamo.Stepper] {
	guard := func(mk func(float64) dynamo.Stepper) func(*Assembler, *config.Document, values) (dynamo.Stepper, error) {
		return func(*Assembler, *config.Document, values) (dynamo.Stepper, error) {
			if !(subDt > 0) || math.IsInf(subDt, 0) {
				return nil, fmt.Errorf("sub-step width %v: %w", subDt, dynamo.ErrParameterBounds)
			}
			return mk(subDt), nil
		}
	}
	return map[uint]variant[dynamo.Stepper]{
		EulerIntegrator: {
			name:  "euler_integrator",
			build: guard(func(h float64) dynamo.Stepper { return integrators.NewEuler(h) }),
		},
		RK4Integrator: {
			name:  "rk4_integrator",
			build: guard(func(h float64) dynamo.Stepper { return integrators.NewRK4(h) }),
		},
	}
}

// ReadStepper builds the integrator named by stepper_selector with the
// given sub-step width.
func (a *Assembler) ReadStepper(doc *config.Document, subDt float64) (dynamo.Stepper, error) {
	st, err := dispatch(a, doc, opStepper, "stepper_selector", stepperVariants(subDt))
	if err != nil {
		return nil, a.report(err)
	}
	return st, nil
}
