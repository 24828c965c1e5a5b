package config

import (
	"sort"

	"github.com/samber/lo"
)

const (
	DefaultScenarioPath = "config/fz_scenario.csv"
	DefaultZoneCfgPath  = "config/fz_cfg.csv"
)

var baseDocument = map[string]any{
	"st_log_path":             "data/state.csv",
	"fz_log_path":             "data/zone.csv",
	"limit_time":              60.0,
	"time_step_width":         0.1,
	"nb_sub_time_step":        10,
	"x0":                      0.0,
	"y0":                      0.0,
	"z0":                      400.0,
	"V0":                      15.0,
	"gamma0":                  0.0,
	"khi0":                    0.0,
	"alpha0":                  5.0,
	"beta0":                   0.0,
	"sigma0":                  0.0,
	"maximum_angle_magnitude": 45.0,
	"aircraft_selector":       0,
	"angle_rate_magnitude":    15.0,
	"kdalpha":                 0.02,
}

var thermalZone = map[string]any{
	"envt_selector":    1,
	"th_scenario_path": DefaultScenarioPath,
	"envt_cfg_path":    DefaultZoneCfgPath,
	"noise_stddev":     0.1,
}

var Presets = map[string]map[string]any{
	"flat-euler-passive": merge(baseDocument, map[string]any{
		"envt_selector": 0, "wx": 3.0, "wy": -1.5,
		"stepper_selector": 0,
		"pilot_selector":   0,
	}),
	"thermal-rk4-heuristic": merge(baseDocument, thermalZone, map[string]any{
		"stepper_selector": 1,
		"pilot_selector":   1,
	}),
	"thermal-euler-qlearning": merge(baseDocument, thermalZone, map[string]any{
		"stepper_selector":  0,
		"pilot_selector":    2,
		"q_epsilon":         0.1,
		"q_learning_rate":   0.01,
		"q_discount_factor": 0.9,
		"seed":              42,
	}),
	"thermal-rk4-optimistic": merge(baseDocument, thermalZone, map[string]any{
		"stepper_selector":        1,
		"pilot_selector":          4,
		"opt_time_step_width":     1.0,
		"opt_sub_time_step_width": 0.1,
		"opt_discount_factor":     0.9,
		"opt_budget":              200,
	}),
	"thermal-uct": merge(baseDocument, thermalZone, map[string]any{
		"stepper_selector":            0,
		"pilot_selector":              3,
		"uct_parameter":               0.7,
		"uct_time_step_width":         0.1,
		"uct_sub_time_step_width":     0.1,
		"uct_discount_factor":         0.9,
		"uct_horizon":                 100,
		"uct_budget":                  1000,
		"uct_default_policy_selector": 0,
	}),
}

func merge(parts ...map[string]any) map[string]any {
	return lo.Assign(parts...)
}

// GetPreset returns a fresh document for the named preset, or nil.
func GetPreset(name string) *Document {
	values, ok := Presets[name]
	if !ok {
		return nil
	}
	return FromMap(values)
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}
