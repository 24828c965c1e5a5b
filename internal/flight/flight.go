// Package flight runs an assembled simulation: the pilot decides, the zone
// supplies the wind and the stepper advances the aircraft.
package flight

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/dynamo"
)

var log = logrus.WithField("module", "flight")

// Termination reasons.
const (
	TimeLimit     = "time_limit"
	GroundContact = "ground_contact"
	InvalidState  = "invalid_state"
	Cancelled     = "cancelled"
)

// MaxSteps bounds the number of decisions in one run.
const MaxSteps = 1 << 24

type Result struct {
	States     []dynamo.State
	Controls   []dynamo.Control
	Winds      []dynamo.Wind
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Reason     string
	Errors     []error
}

// Final returns the last recorded state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type Flight struct {
	zone     dynamo.FlightZone
	aircraft dynamo.Aircraft
	stepper  dynamo.Stepper
	pilot    dynamo.Pilot

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(s *assembler.Setup) *Flight {
	return &Flight{
		zone:     s.Zone,
		aircraft: s.Aircraft,
		stepper:  s.Stepper,
		pilot:    s.Pilot,
	}
}

func (f *Flight) AddMetric(m dynamo.Metric)     { f.metrics = append(f.metrics, m) }
func (f *Flight) AddObserver(o dynamo.Observer) { f.observers = append(f.observers, o) }

func (f *Flight) validate(tc assembler.TimeControl) error {
	if !(tc.Step > 0) || math.IsInf(tc.Step, 0) {
		return fmt.Errorf("time step must be positive and finite, got %v: %w", tc.Step, dynamo.ErrParameterBounds)
	}
	if !(tc.Limit > 0) || math.IsInf(tc.Limit, 0) {
		return fmt.Errorf("time limit must be positive and finite, got %v: %w", tc.Limit, dynamo.ErrParameterBounds)
	}
	if tc.Limit/tc.Step > MaxSteps {
		return fmt.Errorf("%v s at %v s per step exceeds %d steps: %w", tc.Limit, tc.Step, MaxSteps, dynamo.ErrParameterBounds)
	}
	if f.aircraft.StateDim() != len(f.aircraft.State()) {
		return dynamo.ErrDimensionMismatch
	}
	return nil
}

// Run flies from the aircraft's current state until tc.Limit, ground
// contact, an invalid state or cancellation. A cancelled run returns the
// partial result with ctx.Err().
func (f *Flight) Run(ctx context.Context, tc assembler.TimeControl) (*Result, error) {
	s, err := f.Start(tc)
	if err != nil {
		return nil, err
	}
	for !s.Done() {
		select {
		case <-ctx.Done():
			return s.Cancel(), ctx.Err()
		default:
		}
		s.Step()
	}
	return s.Result(), nil
}

func (f *Flight) collect(res *Result) {
	for _, m := range f.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}
