package pilot

import (
	"errors"
	"fmt"

	"github.com/san-kum/soarsim/internal/dynamo"
)

// ErrNotAvailable is returned by constructors of pilots whose planner is
// declared but not built yet.
var ErrNotAvailable = errors.New("pilot: variant not available")

// UCTParams is the parameter set of the tree-search planning pilot.
type UCTParams struct {
	ScenarioPath  string
	ZoneCfgPath   string
	NoiseStd      float64
	AngleRate     float64
	Kd            float64
	Exploration   float64
	Dt            float64
	SubDt         float64
	Discount      float64
	Horizon       uint
	Budget        uint
	DefaultPolicy uint
}

func (p UCTParams) Validate() error {
	if !(p.Dt > 0) || !(p.SubDt > 0) {
		return fmt.Errorf("uct time steps %v/%v: %w", p.Dt, p.SubDt, dynamo.ErrParameterBounds)
	}
	if !(p.Discount > 0) || p.Discount > 1 {
		return fmt.Errorf("uct discount %v: %w", p.Discount, dynamo.ErrParameterBounds)
	}
	return nil
}

// NewUCT validates p and then always fails with ErrNotAvailable. The
// rollout planner needs its own glider and zone, built the way
// NewOptimistic builds them, and a default rollout policy for each
// DefaultPolicy selector; neither exists yet. Out-of-range parameters are
// reported before availability.
func NewUCT(p UCTParams) (dynamo.Pilot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("uct pilot (horizon %d, budget %d): %w", p.Horizon, p.Budget, ErrNotAvailable)
}
