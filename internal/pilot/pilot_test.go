package pilot

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/zone"
)

var rate = 15 * dynamo.ToRad

func cruise() dynamo.State {
	return aircraft.State{Z: 400, V: 15, Alpha: 5 * dynamo.ToRad, MaxAngle: 45 * dynamo.ToRad}.Vector()
}

func withinRate(t *testing.T, u dynamo.Control, limit float64) {
	t.Helper()
	require.Len(t, u, 3)
	for i, v := range u {
		assert.LessOrEqual(t, math.Abs(v), limit+1e-12, "channel %d", i)
	}
}

func TestPassive(t *testing.T) {
	p := NewPassive(rate)
	u := p.Compute(cruise(), 0)

	assert.Equal(t, dynamo.Control{0, 0, 0}, u)
	assert.Equal(t, "passive_pilot", p.Name())
	assert.InDelta(t, 0.2617993877991494, p.AngleRate, 1e-12)
}

func TestHeuristicBanksInLift(t *testing.T) {
	p := NewHeuristic(rate, 0.02)
	x := cruise()

	u := p.Compute(x, 0)
	withinRate(t, u, rate)
	assert.Equal(t, 0.0, u[2], "first call has no climb estimate")

	x[aircraft.IZ] += 1
	u = p.Compute(x, 0.1)
	withinRate(t, u, rate)
	assert.Greater(t, u[2], 0.0, "climbing rolls toward the thermal bank")

	x[aircraft.IZ] -= 2
	x[aircraft.ISigma] = ThermalBank
	u = p.Compute(x, 0.2)
	assert.Less(t, u[2], 0.0, "sinking rolls back to wings level")
}

func TestHeuristicDampsFlightPath(t *testing.T) {
	p := NewHeuristic(rate, 0.02)
	x := cruise()
	p.Compute(x, 0)

	x[aircraft.IGamma] = -0.05
	u := p.Compute(x, 0.1)
	assert.Greater(t, u[0], 0.0, "a falling flight path raises alpha")

	p.Reset()
	u = p.Compute(x, 0.2)
	assert.Equal(t, 0.0, u[0], "reset forgets the previous flight path")
}

func TestHeuristicSideslip(t *testing.T) {
	p := NewHeuristic(rate, 0.02)
	x := cruise()
	x[aircraft.IBeta] = 0.1

	u := p.Compute(x, 0)
	assert.Less(t, u[1], 0.0)
}

func TestHeuristicParams(t *testing.T) {
	p := NewHeuristic(rate, 0.02)
	assert.Equal(t, map[string]float64{"angle_rate": rate, "kd": 0.02}, p.GetParams())

	require.NoError(t, p.SetParam("kd", 0.05))
	assert.Equal(t, 0.05, p.Kd)
	assert.ErrorIs(t, p.SetParam("angle_rate", -1), dynamo.ErrParameterBounds)
	assert.Error(t, p.SetParam("nope", 1))
}

func TestQLearningActionsWithinRate(t *testing.T) {
	p := NewQLearning(rate, 0.02, 0.5, 0.1, 0.9, 1)
	x := cruise()

	for i := 0; i < 50; i++ {
		u := p.Compute(x, float64(i)*0.1)
		withinRate(t, u, rate)
		assert.Contains(t, []float64{-rate, 0, rate}, u[2])
	}
}

func TestQLearningUpdate(t *testing.T) {
	p := NewQLearning(rate, 0.02, 0, 0.5, 0.9, 1)
	x := cruise()

	u := p.Compute(x, 0)
	key, act := p.lastKey, p.lastAct

	next := x.Clone()
	next[aircraft.IZ] += 2
	p.Observe(x, u, 2, next)

	table := p.Table()
	assert.InDelta(t, 1.0, table[key][act], 1e-12, "0 + 0.5*(2 + 0.9*0 - 0)")

	// Table hands out a copy
	table[key][act] = 100
	assert.InDelta(t, 1.0, p.Table()[key][act], 1e-12)
}

func TestQLearningNextKeyMatchesCompute(t *testing.T) {
	p := NewQLearning(rate, 0.02, 0, 0.5, 0.9, 1)
	const dt = 0.1
	x0 := cruise()
	u := p.Compute(x0, 0)

	// 3 cm over 0.1 s is a 0.3 m/s climb
	x1 := x0.Clone()
	x1[aircraft.IZ] += 0.03
	reward := (x1[aircraft.IZ] - x0[aircraft.IZ]) / dt
	p.Observe(x0, u, reward, x1)
	observed := stateKey(reward, x1[aircraft.ISigma])

	p.Compute(x1, dt)
	assert.Equal(t, observed, p.lastKey)
	assert.Equal(t, 2*bankBuckets+2, p.lastKey, "climbing bucket")
}

func TestQLearningObserveBeforeCompute(t *testing.T) {
	p := NewQLearning(rate, 0.02, 0, 0.5, 0.9, 1)
	p.Observe(cruise(), nil, 5, cruise())

	for _, row := range p.Table() {
		for _, v := range row {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestQLearningGreedyAfterLearning(t *testing.T) {
	p := NewQLearning(rate, 0.02, 0, 1, 0.5, 1)
	x := cruise()
	key := stateKey(0, x[aircraft.ISigma])
	p.q[key][2] = 10

	u := p.Compute(x, 0)
	assert.Equal(t, rate, u[2])
}

func TestQLearningSeeded(t *testing.T) {
	a := NewQLearning(rate, 0.02, 0.9, 0.1, 0.9, 3)
	b := NewQLearning(rate, 0.02, 0.9, 0.1, 0.9, 3)
	x := cruise()
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Compute(x, float64(i)), b.Compute(x, float64(i)))
	}
}

func TestStateKey(t *testing.T) {
	assert.Equal(t, 1*bankBuckets+2, stateKey(0, 0))
	assert.Equal(t, 2*bankBuckets+2, stateKey(1, 0))
	assert.Equal(t, 0*bankBuckets+2, stateKey(-1, 0))
	assert.Equal(t, 1*bankBuckets+bankBuckets-1, stateKey(0, math.Pi))
	assert.Equal(t, 1*bankBuckets, stateKey(0, -math.Pi))
}

func thermalZone(t *testing.T) dynamo.FlightZone {
	t.Helper()
	z, err := zone.NewFlatThermal("../../config/fz_scenario.csv", "../../config/fz_cfg.csv", 0, 1)
	require.NoError(t, err)
	return z
}

func optimisticConfig(t *testing.T, budget uint) OptimisticConfig {
	return OptimisticConfig{
		Model:     aircraft.NewBeelerGlider(aircraft.State{Z: 400, V: 15, Alpha: 5 * dynamo.ToRad, MaxAngle: 45 * dynamo.ToRad}, aircraft.Command{}),
		Zone:      thermalZone(t),
		AngleRate: rate,
		Kd:        0.02,
		Dt:        1.0,
		SubDt:     0.1,
		Discount:  0.9,
		Budget:    budget,
	}
}

func TestOptimisticPlans(t *testing.T) {
	p, err := NewOptimistic(optimisticConfig(t, 20))
	require.NoError(t, err)

	u := p.Compute(cruise(), 0)
	withinRate(t, u, rate)
	assert.Contains(t, []float64{-rate, 0, rate}, u[2])
	assert.Equal(t, 20, p.Expansions())
	assert.Equal(t, "optimistic_pilot", p.Name())
}

func TestOptimisticZeroBudget(t *testing.T) {
	p, err := NewOptimistic(optimisticConfig(t, 0))
	require.NoError(t, err)

	u := p.Compute(cruise(), 0)
	assert.Equal(t, 0.0, u[2])
	assert.Equal(t, 0, p.Expansions())
}

func TestOptimisticDoesNotMoveCaller(t *testing.T) {
	p, err := NewOptimistic(optimisticConfig(t, 10))
	require.NoError(t, err)

	x := cruise()
	before := x.Clone()
	p.Compute(x, 0)
	assert.Equal(t, before, x)
}

func TestOptimisticValidate(t *testing.T) {
	cfg := optimisticConfig(t, 10)
	cfg.Discount = 1
	_, err := NewOptimistic(cfg)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	cfg = optimisticConfig(t, 10)
	cfg.Model = nil
	cfg.SubDt = 0
	_, err = NewOptimistic(cfg)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
	assert.Contains(t, err.Error(), "model is required")
}

func TestReward(t *testing.T) {
	assert.Equal(t, 0.5, reward(0))
	assert.Equal(t, 1.0, reward(100))
	assert.Equal(t, 0.0, reward(-100))
}

func TestUCTNotAvailable(t *testing.T) {
	params := UCTParams{Dt: 0.1, SubDt: 0.1, Discount: 0.9, Horizon: 100, Budget: 1000}
	require.NoError(t, params.Validate())

	for i := 0; i < 3; i++ {
		p, err := NewUCT(params)
		assert.Nil(t, p)
		assert.True(t, errors.Is(err, ErrNotAvailable))
	}

	_, err := NewUCT(UCTParams{})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}
