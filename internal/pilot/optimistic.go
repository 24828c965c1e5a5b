package pilot

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/integrators"
)

// RewardClimbScale is the climb rate mapped to the top of the [0, 1]
// reward range, m/s.
const RewardClimbScale = 5.0

// OptimisticConfig carries the parameters of an optimistic planning pilot.
// Model and Zone are owned by the pilot once it is built.
type OptimisticConfig struct {
	Model     *aircraft.BeelerGlider
	Zone      dynamo.FlightZone
	AngleRate float64
	Kd        float64
	Dt        float64
	SubDt     float64
	Discount  float64
	Budget    uint
}

func (c OptimisticConfig) Validate() error {
	var errs []error
	if c.Model == nil {
		errs = append(errs, errors.New("model is required"))
	}
	if c.Zone == nil {
		errs = append(errs, errors.New("zone is required"))
	}
	if c.Dt <= 0 || c.SubDt <= 0 {
		errs = append(errs, fmt.Errorf("time steps must be positive, got %v and %v", c.Dt, c.SubDt))
	}
	if c.Discount <= 0 || c.Discount >= 1 {
		errs = append(errs, fmt.Errorf("discount factor must lie in (0, 1), got %v", c.Discount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", dynamo.ErrParameterBounds, errors.Join(errs...))
	}
	return nil
}

// Optimistic plans the bank channel with optimistic planning for
// deterministic systems: it repeatedly expands the leaf with the highest
// upper bound on its discounted return, and plays the first action on the
// path to the best leaf. The alpha and beta channels come from the
// heuristic damper and are held during look-ahead.
type Optimistic struct {
	cfg OptimisticConfig
	d   damper

	lastExpansions int
}

type planNode struct {
	state    dynamo.State
	depth    int
	value    float64
	first    int
	terminal bool
}

func NewOptimistic(cfg OptimisticConfig) (*Optimistic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Optimistic{cfg: cfg, d: newDamper(cfg.AngleRate, cfg.Kd)}, nil
}

func (p *Optimistic) Name() string { return "optimistic_pilot" }

func (p *Optimistic) Config() OptimisticConfig { return p.cfg }

// Expansions reports how many nodes the last decision expanded.
func (p *Optimistic) Expansions() int { return p.lastExpansions }

func (p *Optimistic) Reset() { p.d.reset() }

func (p *Optimistic) Compute(x dynamo.State, t float64) dynamo.Control {
	gammaRate, _ := p.d.observe(x, t)
	da, db := p.d.alphaBeta(x, gammaRate)

	bank := p.plan(x, t, da, db)
	return dynamo.Control{da, db, bank}
}

func (p *Optimistic) actions() []float64 {
	return []float64{-p.cfg.AngleRate, 0, p.cfg.AngleRate}
}

func (p *Optimistic) plan(x dynamo.State, t, da, db float64) float64 {
	p.lastExpansions = 0
	df := p.cfg.Discount
	tail := 1 / (1 - df)

	leaves := []*planNode{{state: x.Clone(), first: -1}}
	for i := uint(0); i < p.cfg.Budget; i++ {
		open := lo.Filter(leaves, func(n *planNode, _ int) bool { return !n.terminal })
		if len(open) == 0 {
			break
		}
		best := lo.MaxBy(open, func(a, b *planNode) bool {
			return a.value+math.Pow(df, float64(a.depth))*tail > b.value+math.Pow(df, float64(b.depth))*tail
		})
		leaves = lo.Without(leaves, best)
		leaves = append(leaves, p.expand(best, t, da, db)...)
		p.lastExpansions++
	}

	if p.lastExpansions == 0 {
		return 0
	}
	best := lo.MaxBy(leaves, func(a, b *planNode) bool { return a.value > b.value })
	return p.actions()[best.first]
}

func (p *Optimistic) expand(n *planNode, t, da, db float64) []*planNode {
	model := p.cfg.Model
	start := t + float64(n.depth)*p.cfg.Dt
	s := n.state
	model.SetWind(p.cfg.Zone.Wind(s[aircraft.IX], s[aircraft.IY], s[aircraft.IZ], start))

	children := make([]*planNode, 0, 3)
	for i, bank := range p.actions() {
		u := dynamo.Control{da, db, bank}
		next := integrators.Transition(model, s, u, start, p.cfg.Dt, p.cfg.SubDt)

		child := &planNode{state: next, depth: n.depth + 1, first: n.first}
		if n.depth == 0 {
			child.first = i
		}
		if next[aircraft.IZ] <= 0 || !next.IsValid() {
			child.terminal = true
			child.value = n.value
		} else {
			climb := (next[aircraft.IZ] - s[aircraft.IZ]) / p.cfg.Dt
			child.value = n.value + math.Pow(p.cfg.Discount, float64(n.depth))*reward(climb)
		}
		children = append(children, child)
	}
	return children
}

// reward maps a climb rate onto [0, 1].
func reward(climb float64) float64 {
	return lo.Clamp(0.5+climb/(2*RewardClimbScale), 0, 1)
}
