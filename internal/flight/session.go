package flight

import (
	"github.com/sirupsen/logrus"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/dynamo"
)

// Session is a flight in progress, advanced one decision at a time.
// Run drives a session to the end; the live view steps it on a timer.
type Session struct {
	f       *Flight
	tc      assembler.TimeControl
	steps   int
	learner dynamo.Learner
	entry   *logrus.Entry

	x    dynamo.State
	t    float64
	res  *Result
	done bool
}

// Start resets the metrics and the pilot and records the aircraft's
// current state as the first sample.
func (f *Flight) Start(tc assembler.TimeControl) (*Session, error) {
	if err := f.validate(tc); err != nil {
		return nil, err
	}

	steps := int(tc.Limit/tc.Step + 1e-9)
	res := &Result{
		States:   make([]dynamo.State, 0, steps+1),
		Controls: make([]dynamo.Control, 0, steps),
		Winds:    make([]dynamo.Wind, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Reason:   TimeLimit,
	}

	for _, m := range f.metrics {
		m.Reset()
	}
	if r, ok := f.pilot.(dynamo.Resetter); ok {
		r.Reset()
	}
	learner, _ := f.pilot.(dynamo.Learner)

	x := f.aircraft.State()
	res.States = append(res.States, x.Clone())
	res.Times = append(res.Times, 0)

	entry := log.WithFields(logrus.Fields{"pilot": f.pilot.Name(), "zone": f.zone.Name()})
	entry.WithField("steps", steps).Debug("flight started")

	return &Session{
		f:       f,
		tc:      tc,
		steps:   steps,
		learner: learner,
		entry:   entry,
		x:       x,
		res:     res,
		done:    steps == 0,
	}, nil
}

func (s *Session) Done() bool { return s.done }

func (s *Session) State() dynamo.State { return s.x }

func (s *Session) Time() float64 { return s.t }

// Reason is the termination reason, TimeLimit until the flight stops
// early.
func (s *Session) Reason() string { return s.res.Reason }

// Step runs one decision: the pilot acts, the zone supplies the wind and
// the stepper advances the aircraft by tc.Step. It reports whether the
// flight can continue.
func (s *Session) Step() bool {
	if s.done {
		return false
	}
	f, res, x, t := s.f, s.res, s.x, s.t
	i := res.StepsTaken

	u := f.pilot.Compute(x, t)
	w := f.zone.Wind(x[aircraft.IX], x[aircraft.IY], x[aircraft.IZ], t)
	f.aircraft.SetWind(w)

	for _, m := range f.metrics {
		m.Observe(x, u, t)
	}
	for _, o := range f.observers {
		o.OnStep(x, u, t)
	}

	next := dynamo.Advance(f.stepper, f.aircraft, x, u, t, s.tc.Step)
	if !next.IsValid() {
		s.stop(InvalidState, &dynamo.SimulationError{
			Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState,
		})
		return false
	}

	if s.learner != nil {
		climb := (next[aircraft.IZ] - x[aircraft.IZ]) / s.tc.Step
		s.learner.Observe(x, u, climb, next)
	}

	f.aircraft.SetState(next)
	s.x = next
	s.t += s.tc.Step
	res.StepsTaken++

	res.States = append(res.States, next.Clone())
	res.Controls = append(res.Controls, u)
	res.Winds = append(res.Winds, w)
	res.Times = append(res.Times, s.t)

	if next[aircraft.IZ] <= 0 {
		s.stop(GroundContact, &dynamo.SimulationError{
			Step: i, Time: s.t, State: next.Clone(), Wrapped: dynamo.ErrGroundContact,
		})
		return false
	}
	if res.StepsTaken >= s.steps {
		s.done = true
	}
	return !s.done
}

func (s *Session) stop(reason string, err error) {
	s.res.Errors = append(s.res.Errors, err)
	s.res.Reason = reason
	s.done = true
}

// Cancel ends the session early and returns the partial result.
func (s *Session) Cancel() *Result {
	s.res.Reason = Cancelled
	s.done = true
	s.f.collect(s.res)
	return s.res
}

// Result collects the metrics and returns the result recorded so far.
func (s *Session) Result() *Result {
	s.f.collect(s.res)
	if s.done && s.res.Reason != Cancelled {
		s.entry.WithFields(logrus.Fields{
			"steps":  s.res.StepsTaken,
			"reason": s.res.Reason,
		}).Info("flight finished")
	}
	return s.res
}
