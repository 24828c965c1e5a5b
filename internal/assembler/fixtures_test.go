package assembler_test

import (
	"github.com/samber/lo"

	"github.com/san-kum/soarsim/internal/config"
)

const (
	scenarioPath = "../../config/fz_scenario.csv"
	zoneCfgPath  = "../../config/fz_cfg.csv"
)

var stateDoc = map[string]any{
	"x0":                      10.0,
	"y0":                      -20.0,
	"z0":                      400.0,
	"V0":                      15,
	"gamma0":                  -2.0,
	"khi0":                    90.0,
	"alpha0":                  5.0,
	"beta0":                   0.0,
	"sigma0":                  10.0,
	"maximum_angle_magnitude": 45.0,
}

var thermalDoc = map[string]any{
	"th_scenario_path": scenarioPath,
	"envt_cfg_path":    zoneCfgPath,
	"noise_stddev":     0.0,
}

var pilotDocs = map[uint]map[string]any{
	0: {"pilot_selector": 0, "angle_rate_magnitude": 15.0},
	1: {"pilot_selector": 1, "angle_rate_magnitude": 15, "kdalpha": 0.02},
	2: {
		"pilot_selector":       2,
		"angle_rate_magnitude": 15.0,
		"kdalpha":              0.02,
		"q_epsilon":            0.1,
		"q_learning_rate":      0.01,
		"q_discount_factor":    0.9,
	},
	3: lo.Assign(thermalDoc, map[string]any{
		"pilot_selector":              3,
		"angle_rate_magnitude":        15.0,
		"kdalpha":                     0.02,
		"uct_parameter":               0.7,
		"uct_time_step_width":         0.1,
		"uct_sub_time_step_width":     0.1,
		"uct_discount_factor":         0.9,
		"uct_horizon":                 100,
		"uct_budget":                  1000,
		"uct_default_policy_selector": 0,
	}),
	4: lo.Assign(thermalDoc, stateDoc, map[string]any{
		"pilot_selector":          4,
		"angle_rate_magnitude":    15.0,
		"kdalpha":                 0.02,
		"opt_time_step_width":     1.0,
		"opt_sub_time_step_width": 0.1,
		"opt_discount_factor":     0.9,
		"opt_budget":              10,
	}),
}

func doc(parts ...map[string]any) *config.Document {
	return config.FromMap(lo.Assign(parts...))
}
