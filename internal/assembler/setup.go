package assembler

import (
	"github.com/sirupsen/logrus"

	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
)

// Setup is everything the flight loop needs, each component owned by the
// caller alone.
type Setup struct {
	Time     TimeControl
	Zone     dynamo.FlightZone
	Aircraft dynamo.Aircraft
	Stepper  dynamo.Stepper
	Pilot    dynamo.Pilot

	// Log paths are optional; empty when absent.
	StateLogPath string
	ZoneLogPath  string
}

// Assemble runs every factory against doc and stops at the first failure.
// The stepper's sub-step width comes from the time control.
func (a *Assembler) Assemble(doc *config.Document) (*Setup, error) {
	tc, err := a.ReadTimeVariables(doc)
	if err != nil {
		return nil, err
	}
	z, err := a.ReadEnvironment(doc)
	if err != nil {
		return nil, err
	}
	ac, err := a.ReadAircraft(doc)
	if err != nil {
		return nil, err
	}
	st, err := a.ReadStepper(doc, tc.SubStepWidth())
	if err != nil {
		return nil, err
	}
	p, err := a.ReadPilot(doc)
	if err != nil {
		return nil, err
	}

	s := &Setup{Time: tc, Zone: z, Aircraft: ac, Stepper: st, Pilot: p}
	s.StateLogPath, _ = doc.String("st_log_path")
	s.ZoneLogPath, _ = doc.String("fz_log_path")

	a.log.WithFields(logrus.Fields{
		"zone":     z.Name(),
		"aircraft": ac.Name(),
		"stepper":  st.Name(),
		"pilot":    p.Name(),
	}).Info("simulation assembled")
	return s, nil
}
