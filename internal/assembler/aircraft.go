package assembler

import (
	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
)

const opAircraft = "read_aircraft"

// Aircraft selectors.
const (
	BeelerGlider uint = iota
)

var aircraftModels = map[uint]variant[dynamo.Aircraft]{
	BeelerGlider: {
		name: "beeler_glider",
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.Aircraft, error) {
			s, err := readState(doc)
			if err != nil {
				return nil, err
			}
			return aircraft.NewBeelerGlider(s, aircraft.Command{}), nil
		},
	},
}

// ReadAircraft builds the dynamics model named by aircraft_selector from
// the initial state in the document.
func (a *Assembler) ReadAircraft(doc *config.Document) (dynamo.Aircraft, error) {
	ac, err := dispatch(a, doc, opAircraft, "aircraft_selector", aircraftModels)
	if err != nil {
		return nil, a.report(err)
	}
	return ac, nil
}
