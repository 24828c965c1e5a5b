package assembler

import (
	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/pilot"
)

const opPilot = "read_pilot"

// Pilot selectors.
const (
	PassivePilot uint = iota
	HeuristicPilot
	QLearningPilot
	UCTPilot
	OptimisticPilot
)

var (
	rateField = deg("angle_rate_magnitude")
	kdField   = num("kdalpha")
)

var pilots = map[uint]variant[dynamo.Pilot]{
	PassivePilot: {
		name:   "passive_pilot",
		fields: []field{rateField},
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.Pilot, error) {
			return pilot.NewPassive(v.f(rateField.key)), nil
		},
	},
	HeuristicPilot: {
		name:   "heuristic_pilot",
		fields: []field{rateField, kdField},
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.Pilot, error) {
			return pilot.NewHeuristic(v.f(rateField.key), v.f(kdField.key)), nil
		},
	},
	QLearningPilot: {
		name: "q_learning_pilot",
		fields: []field{
			rateField,
			kdField,
			num("q_epsilon"),
			num("q_learning_rate"),
			num("q_discount_factor"),
		},
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.Pilot, error) {
			s, err := seed(doc, opPilot)
			if err != nil {
				return nil, err
			}
			return pilot.NewQLearning(
				v.f(rateField.key), v.f(kdField.key),
				v.f("q_epsilon"), v.f("q_learning_rate"), v.f("q_discount_factor"),
				s,
			), nil
		},
	},
	UCTPilot: {
		name: "uct_pilot",
		fields: append(append([]field(nil), thermalZoneFields...),
			rateField,
			kdField,
			num("uct_parameter"),
			num("uct_time_step_width"),
			num("uct_sub_time_step_width"),
			num("uct_discount_factor"),
			cnt("uct_horizon"),
			cnt("uct_budget"),
			cnt("uct_default_policy_selector"),
		),
		build: func(a *Assembler, doc *config.Document, v values) (dynamo.Pilot, error) {
			_, err := pilot.NewUCT(pilot.UCTParams{
				ScenarioPath:  v.s("th_scenario_path"),
				ZoneCfgPath:   v.s("envt_cfg_path"),
				NoiseStd:      v.f("noise_stddev"),
				AngleRate:     v.f(rateField.key),
				Kd:            v.f(kdField.key),
				Exploration:   v.f("uct_parameter"),
				Dt:            v.f("uct_time_step_width"),
				SubDt:         v.f("uct_sub_time_step_width"),
				Discount:      v.f("uct_discount_factor"),
				Horizon:       v.u("uct_horizon"),
				Budget:        v.u("uct_budget"),
				DefaultPolicy: v.u("uct_default_policy_selector"),
			})
			return nil, disabled(err)
		},
	},
	OptimisticPilot: {
		name: "optimistic_pilot",
		fields: append(append([]field(nil), thermalZoneFields...),
			rateField,
			kdField,
			num("opt_time_step_width"),
			num("opt_sub_time_step_width"),
			num("opt_discount_factor"),
			cnt("opt_budget"),
		),
		build: buildOptimistic,
	},
}

// buildOptimistic gives the planner its own glider and zone; neither is
// shared with the components handed to the caller.
func buildOptimistic(a *Assembler, doc *config.Document, v values) (dynamo.Pilot, error) {
	s, err := readState(doc)
	if err != nil {
		return nil, err
	}
	model := aircraft.NewBeelerGlider(s, aircraft.Command{})

	z, err := buildThermalZone(doc, v, opPilot)
	if err != nil {
		return nil, err
	}

	p, err := pilot.NewOptimistic(pilot.OptimisticConfig{
		Model:     model,
		Zone:      z,
		AngleRate: v.f(rateField.key),
		Kd:        v.f(kdField.key),
		Dt:        v.f("opt_time_step_width"),
		SubDt:     v.f("opt_sub_time_step_width"),
		Discount:  v.f("opt_discount_factor"),
		Budget:    v.u("opt_budget"),
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PilotKeys lists the schema of a pilot selector, or nil when the selector
// is not supported.
func PilotKeys(selector uint) []string {
	vr, ok := pilots[selector]
	if !ok {
		return nil
	}
	return keys(vr.fields)
}

// ReadPilot builds the pilot named by pilot_selector.
func (a *Assembler) ReadPilot(doc *config.Document) (dynamo.Pilot, error) {
	p, err := dispatch(a, doc, opPilot, "pilot_selector", pilots)
	if err != nil {
		return nil, a.report(err)
	}
	return p, nil
}
