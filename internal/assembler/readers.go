package assembler

import (
	"fmt"
	"math"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
)

const (
	opStateLogPath = "read_st_log_path"
	opZoneLogPath  = "read_fz_log_path"
	opTime         = "read_time_variables"
	opState        = "read_state"
)

// TimeControl drives the outer loop: run until Limit, deciding every Step
// seconds and integrating each step in SubSteps pieces.
type TimeControl struct {
	Limit    float64
	Step     float64
	SubSteps uint
}

func (tc TimeControl) SubStepWidth() float64 {
	return tc.Step / float64(tc.SubSteps)
}

var timeFields = []field{
	num("limit_time"),
	num("time_step_width"),
	cnt("nb_sub_time_step"),
}

var stateFields = []field{
	num("x0"),
	num("y0"),
	num("z0"),
	num("V0"),
	deg("gamma0"),
	deg("khi0"),
	deg("alpha0"),
	deg("beta0"),
	deg("sigma0"),
	deg("maximum_angle_magnitude"),
}

// StateKeys lists the document keys of the initial state, in order.
func StateKeys() []string { return keys(stateFields) }

func (a *Assembler) ReadStateLogPath(doc *config.Document) (string, error) {
	return a.readPath(doc, opStateLogPath, "st_log_path")
}

func (a *Assembler) ReadZoneLogPath(doc *config.Document) (string, error) {
	return a.readPath(doc, opZoneLogPath, "fz_log_path")
}

func (a *Assembler) readPath(doc *config.Document, op, key string) (string, error) {
	s, ok := doc.String(key)
	if !ok {
		return "", a.report(missing(op, key))
	}
	return s, nil
}

// ReadTimeVariables reads the three time-control fields as one unit.
func (a *Assembler) ReadTimeVariables(doc *config.Document) (TimeControl, error) {
	tc, err := readTime(doc)
	return tc, a.report(err)
}

func readTime(doc *config.Document) (TimeControl, error) {
	v, absent := read(doc, timeFields)
	if absent != nil {
		return TimeControl{}, missing(opTime, absent...)
	}
	tc := TimeControl{
		Limit:    v.f("limit_time"),
		Step:     v.f("time_step_width"),
		SubSteps: v.u("nb_sub_time_step"),
	}
	if !(tc.Limit >= 0) || math.IsInf(tc.Limit, 0) || !(tc.Step > 0) || math.IsInf(tc.Step, 0) || tc.SubSteps == 0 {
		return TimeControl{}, construction(opTime,
			fmt.Errorf("limit %v, step %v, sub-steps %d: %w", tc.Limit, tc.Step, tc.SubSteps, dynamo.ErrParameterBounds))
	}
	return tc, nil
}

// ReadState reads the initial glider state. Nothing is returned unless
// all ten fields are present; angles come back in radians.
func (a *Assembler) ReadState(doc *config.Document) (aircraft.State, error) {
	s, err := readState(doc)
	return s, a.report(err)
}

func readState(doc *config.Document) (aircraft.State, error) {
	v, absent := read(doc, stateFields)
	if absent != nil {
		return aircraft.State{}, missing(opState, absent...)
	}
	return aircraft.State{
		X:        v.f("x0"),
		Y:        v.f("y0"),
		Z:        v.f("z0"),
		V:        v.f("V0"),
		Gamma:    v.f("gamma0"),
		Khi:      v.f("khi0"),
		Alpha:    v.f("alpha0"),
		Beta:     v.f("beta0"),
		Sigma:    v.f("sigma0"),
		MaxAngle: v.f("maximum_angle_magnitude"),
	}, nil
}
