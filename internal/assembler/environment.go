package assembler

import (
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/zone"
)

const opEnvironment = "read_environment"

// Environment selectors.
const (
	FlatZone uint = iota
	FlatThermalSoaringZone
)

var thermalZoneFields = []field{
	str("th_scenario_path"),
	str("envt_cfg_path"),
	num("noise_stddev"),
}

var environments = map[uint]variant[dynamo.FlightZone]{
	FlatZone: {
		name:   "flat_zone",
		fields: []field{num("wx"), num("wy")},
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.FlightZone, error) {
			return zone.NewFlat(v.f("wx"), v.f("wy")), nil
		},
	},
	FlatThermalSoaringZone: {
		name:   "flat_thermal_soaring_zone",
		fields: thermalZoneFields,
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.FlightZone, error) {
			z, err := buildThermalZone(doc, v, opEnvironment)
			if err != nil {
				return nil, err
			}
			return z, nil
		},
	},
}

func buildThermalZone(doc *config.Document, v values, op string) (*zone.FlatThermal, error) {
	s, err := seed(doc, op)
	if err != nil {
		return nil, err
	}
	return zone.NewFlatThermal(v.s("th_scenario_path"), v.s("envt_cfg_path"), v.f("noise_stddev"), s)
}

// ReadEnvironment builds the flight zone named by envt_selector.
func (a *Assembler) ReadEnvironment(doc *config.Document) (dynamo.FlightZone, error) {
	z, err := dispatch(a, doc, opEnvironment, "envt_selector", environments)
	if err != nil {
		return nil, a.report(err)
	}
	return z, nil
}
