package pilot

import (
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/dynamo"
)

const (
	climbBuckets = 3
	bankBuckets  = 5
	// climbDeadband is the climb rate treated as level, m/s.
	climbDeadband = 0.1
)

// QLearning learns the bank channel with tabular Q-learning. States are
// the sign of the last climb rate crossed with a bucketed bank
// angle; actions are roll left, hold, roll right at the full rate. The
// alpha and beta channels come from the heuristic damper.
type QLearning struct {
	AngleRate    float64
	Kd           float64
	Epsilon      float64
	LearningRate float64
	Discount     float64

	d       damper
	q       [][]float64
	rng     *rand.Rand
	lastKey int
	lastAct int
	acted   bool
}

func NewQLearning(angleRate, kd, epsilon, learningRate, discount float64, seed uint64) *QLearning {
	q := make([][]float64, climbBuckets*bankBuckets)
	for i := range q {
		q[i] = make([]float64, 3)
	}
	return &QLearning{
		AngleRate:    angleRate,
		Kd:           kd,
		Epsilon:      epsilon,
		LearningRate: learningRate,
		Discount:     discount,
		d:            newDamper(angleRate, kd),
		q:            q,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (p *QLearning) Name() string { return "q_learning_pilot" }

func (p *QLearning) Compute(x dynamo.State, t float64) dynamo.Control {
	gammaRate, climb := p.d.observe(x, t)
	da, db := p.d.alphaBeta(x, gammaRate)

	key := stateKey(climb, x[aircraft.ISigma])
	act := p.greedy(key)
	if p.rng.Float64() < p.Epsilon {
		act = p.rng.Intn(3)
	}
	p.lastKey, p.lastAct, p.acted = key, act, true

	return dynamo.Control{da, db, float64(act-1) * p.AngleRate}
}

// Observe applies the Q update for the last decision. reward is the
// climb rate over the transition, m/s, so it buckets next the same way the
// following Compute will.
func (p *QLearning) Observe(x dynamo.State, u dynamo.Control, reward float64, next dynamo.State) {
	if !p.acted {
		return
	}
	nextKey := stateKey(reward, next[aircraft.ISigma])
	target := reward + p.Discount*lo.Max(p.q[nextKey])
	q := p.q[p.lastKey]
	q[p.lastAct] += p.LearningRate * (target - q[p.lastAct])
}

func (p *QLearning) Reset() {
	p.d.reset()
	p.acted = false
}

// Table returns a copy of the Q-table, one row per state.
func (p *QLearning) Table() [][]float64 {
	return lo.Map(p.q, func(row []float64, _ int) []float64 {
		return append([]float64(nil), row...)
	})
}

func (p *QLearning) greedy(key int) int {
	best := 0
	for a, v := range p.q[key] {
		if v > p.q[key][best] {
			best = a
		}
	}
	return best
}

func stateKey(climb, sigma float64) int {
	c := 1
	switch {
	case climb > climbDeadband:
		c = 2
	case climb < -climbDeadband:
		c = 0
	}
	// banks beyond +-90 deg share the edge buckets
	b := int(math.Floor((sigma + math.Pi/2) / math.Pi * bankBuckets))
	b = lo.Clamp(b, 0, bankBuckets-1)
	return c*bankBuckets + b
}
