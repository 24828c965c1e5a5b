package assembler_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/integrators"
	"github.com/san-kum/soarsim/internal/pilot"
	"github.com/san-kum/soarsim/internal/zone"
)

func assemblyError(err error) *assembler.AssemblyError {
	var ae *assembler.AssemblyError
	Expect(errors.As(err, &ae)).To(BeTrue(), "expected *AssemblyError, got %v", err)
	return ae
}

var _ = Describe("Assembler", func() {
	var (
		a    *assembler.Assembler
		hook *test.Hook
	)

	BeforeEach(func() {
		var logger *logrus.Logger
		logger, hook = test.NewNullLogger()
		a = assembler.New(logrus.NewEntry(logger))
	})

	warnings := func() int {
		n := 0
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.WarnLevel {
				n++
			}
		}
		return n
	}

	Describe("ReadEnvironment", func() {
		It("builds a flat zone with the exact wind components", func() {
			z, err := a.ReadEnvironment(doc(map[string]any{"envt_selector": 0, "wx": 3.0, "wy": -1.5}))
			Expect(err).NotTo(HaveOccurred())
			flat, ok := z.(*zone.Flat)
			Expect(ok).To(BeTrue())
			Expect(flat.Wx).To(Equal(3.0))
			Expect(flat.Wy).To(Equal(-1.5))
			Expect(z.Wind(0, 0, 100, 0)).To(Equal(dynamo.Wind{X: 3.0, Y: -1.5}))
			Expect(warnings()).To(Equal(0))
		})

		It("builds a thermal zone from the scenario files", func() {
			z, err := a.ReadEnvironment(doc(thermalDoc, map[string]any{"envt_selector": 1}))
			Expect(err).NotTo(HaveOccurred())
			th, ok := z.(*zone.FlatThermal)
			Expect(ok).To(BeTrue())
			Expect(th.Thermals()).NotTo(BeEmpty())
		})

		It("reports an unreadable scenario as a construction failure", func() {
			d := doc(thermalDoc, map[string]any{"envt_selector": 1, "th_scenario_path": "no/such/file.csv"})
			z, err := a.ReadEnvironment(d)
			Expect(z).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrConstruction))
			Expect(warnings()).To(Equal(1))
		})

		It("names every missing wind component", func() {
			z, err := a.ReadEnvironment(doc(map[string]any{"envt_selector": 0}))
			Expect(z).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrMissingField))
			Expect(assemblyError(err).Keys).To(Equal([]string{"wx", "wy"}))
		})

		It("rejects a missing selector", func() {
			_, err := a.ReadEnvironment(doc(map[string]any{"wx": 1.0, "wy": 1.0}))
			Expect(err).To(MatchError(assembler.ErrMissingField))
			Expect(assemblyError(err).Keys).To(ConsistOf("envt_selector"))
		})

		It("rejects selectors outside the implemented set", func() {
			_, err := a.ReadEnvironment(doc(map[string]any{"envt_selector": 2, "wx": 1.0, "wy": 1.0}))
			Expect(err).To(MatchError(assembler.ErrUnsupportedSelector))
			Expect(assemblyError(err).Selector).To(Equal(2))
		})

		It("treats a wrongly typed value as missing", func() {
			_, err := a.ReadEnvironment(doc(map[string]any{"envt_selector": 0, "wx": "three", "wy": 1.0}))
			Expect(err).To(MatchError(assembler.ErrMissingField))
			Expect(assemblyError(err).Keys).To(ConsistOf("wx"))
		})
	})

	Describe("ReadAircraft", func() {
		It("builds a glider whose state is in radians", func() {
			ac, err := a.ReadAircraft(doc(stateDoc, map[string]any{"aircraft_selector": 0}))
			Expect(err).NotTo(HaveOccurred())
			g, ok := ac.(*aircraft.BeelerGlider)
			Expect(ok).To(BeTrue())
			s := g.Snapshot()
			Expect(s.X).To(Equal(10.0))
			Expect(s.Z).To(Equal(400.0))
			Expect(s.V).To(Equal(15.0))
			Expect(s.Alpha).To(BeNumerically("~", 5*math.Pi/180, 1e-12))
			Expect(s.Khi).To(BeNumerically("~", math.Pi/2, 1e-12))
			Expect(g.MaxAngle()).To(BeNumerically("~", math.Pi/4, 1e-12))
		})

		It("rejects selector 7", func() {
			ac, err := a.ReadAircraft(doc(stateDoc, map[string]any{"aircraft_selector": 7}))
			Expect(ac).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrUnsupportedSelector))
			Expect(warnings()).To(Equal(1))
		})

		It("reports a missing state field under its own op", func() {
			d := doc(stateDoc, map[string]any{"aircraft_selector": 0}).Without("khi0")
			ac, err := a.ReadAircraft(d)
			Expect(ac).To(BeNil())
			ae := assemblyError(err)
			Expect(ae.Kind).To(Equal(assembler.ErrMissingField))
			Expect(ae.Op).To(Equal("read_aircraft"))
			Expect(ae.Keys).To(ConsistOf("khi0"))
		})
	})

	Describe("ReadStepper", func() {
		It("maps selector 0 to Euler and 1 to RK4", func() {
			st, err := a.ReadStepper(doc(map[string]any{"stepper_selector": 0}), 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(st).To(BeAssignableToTypeOf(&integrators.Euler{}))
			Expect(st.SubStep()).To(Equal(0.01))

			st, err = a.ReadStepper(doc(map[string]any{"stepper_selector": 1}), 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(st).To(BeAssignableToTypeOf(&integrators.RK4{}))
		})

		It("rejects an unknown selector", func() {
			st, err := a.ReadStepper(doc(map[string]any{"stepper_selector": 2}), 0.01)
			Expect(st).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrUnsupportedSelector))
		})

		It("rejects a non-positive sub-step width", func() {
			st, err := a.ReadStepper(doc(map[string]any{"stepper_selector": 0}), 0)
			Expect(st).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrConstruction))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects a non-finite sub-step width", func() {
			for _, w := range []float64{math.NaN(), math.Inf(1)} {
				st, err := a.ReadStepper(doc(map[string]any{"stepper_selector": 1}), w)
				Expect(st).To(BeNil())
				Expect(err).To(MatchError(assembler.ErrConstruction))
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			}
			Expect(warnings()).To(Equal(2))
		})
	})

	Describe("ReadPilot", func() {
		It("converts the heuristic pilot's rate to radians", func() {
			p, err := a.ReadPilot(doc(pilotDocs[1]))
			Expect(err).NotTo(HaveOccurred())
			h, ok := p.(*pilot.Heuristic)
			Expect(ok).To(BeTrue())
			Expect(h.AngleRate).To(BeNumerically("~", 0.2618, 1e-4))
			Expect(h.Kd).To(Equal(0.02))
		})

		It("builds a passive pilot", func() {
			p, err := a.ReadPilot(doc(pilotDocs[0]))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.(*pilot.Passive).AngleRate).To(BeNumerically("~", 15*math.Pi/180, 1e-12))
		})

		It("builds a Q-learning pilot with all its hyper-parameters", func() {
			p, err := a.ReadPilot(doc(pilotDocs[2]))
			Expect(err).NotTo(HaveOccurred())
			q := p.(*pilot.QLearning)
			Expect(q.Epsilon).To(Equal(0.1))
			Expect(q.LearningRate).To(Equal(0.01))
			Expect(q.Discount).To(Equal(0.9))
		})

		It("fails a Q-learning pilot without q_epsilon", func() {
			p, err := a.ReadPilot(doc(pilotDocs[2]).Without("q_epsilon"))
			Expect(p).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrMissingField))
			Expect(assemblyError(err).Keys).To(ConsistOf("q_epsilon"))
			Expect(warnings()).To(Equal(1))
		})

		It("gives the optimistic pilot its own model and zone", func() {
			d := doc(pilotDocs[4], map[string]any{"aircraft_selector": 0})
			p, err := a.ReadPilot(d)
			Expect(err).NotTo(HaveOccurred())
			cfg := p.(*pilot.Optimistic).Config()
			Expect(cfg.Budget).To(Equal(uint(10)))
			Expect(cfg.Dt).To(Equal(1.0))

			ac, err := a.ReadAircraft(d)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Model).NotTo(BeIdenticalTo(ac))
			Expect(cfg.Model.Snapshot()).To(Equal(ac.(*aircraft.BeelerGlider).Snapshot()))

			z, err := a.ReadEnvironment(d.With("envt_selector", 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Zone).NotTo(BeIdenticalTo(z))
		})

		It("fails the optimistic pilot when its initial state is incomplete", func() {
			p, err := a.ReadPilot(doc(pilotDocs[4]).Without("sigma0"))
			Expect(p).To(BeNil())
			ae := assemblyError(err)
			Expect(ae.Kind).To(Equal(assembler.ErrMissingField))
			Expect(ae.Op).To(Equal("read_pilot"))
			Expect(ae.Keys).To(ConsistOf("sigma0"))
		})

		It("reports the UCT pilot as disabled every time", func() {
			d := doc(pilotDocs[3])
			for i := 0; i < 3; i++ {
				p, err := a.ReadPilot(d)
				Expect(p).To(BeNil())
				Expect(err).To(MatchError(assembler.ErrDisabledVariant))
				Expect(err).To(MatchError(pilot.ErrNotAvailable))
			}
			Expect(warnings()).To(Equal(3))
		})

		It("reports a missing field before the UCT pilot is disabled", func() {
			_, err := a.ReadPilot(doc(pilotDocs[3]).Without("uct_budget"))
			Expect(err).To(MatchError(assembler.ErrMissingField))
			Expect(err).NotTo(MatchError(assembler.ErrDisabledVariant))
		})

		It("reports out-of-range UCT parameters through the disabled variant", func() {
			p, err := a.ReadPilot(doc(pilotDocs[3], map[string]any{"uct_time_step_width": 0.0}))
			Expect(p).To(BeNil())
			Expect(err).To(MatchError(assembler.ErrDisabledVariant))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(err).NotTo(MatchError(pilot.ErrNotAvailable))
			Expect(assemblyError(err).Selector).To(Equal(int(assembler.UCTPilot)))
			Expect(warnings()).To(Equal(1))
		})

		It("rejects selector 5", func() {
			_, err := a.ReadPilot(doc(map[string]any{"pilot_selector": 5}))
			Expect(err).To(MatchError(assembler.ErrUnsupportedSelector))
		})

		Context("with one schema key removed", func() {
			for sel := assembler.PassivePilot; sel <= assembler.OptimisticPilot; sel++ {
				for _, key := range assembler.PilotKeys(sel) {
					sel, key := sel, key
					It("fails pilot "+pilotName(sel)+" without "+key, func() {
						p, err := a.ReadPilot(doc(pilotDocs[sel]).Without(key))
						Expect(p).To(BeNil())
						Expect(err).To(MatchError(assembler.ErrMissingField))
						Expect(assemblyError(err).Keys).To(ConsistOf(key))
						Expect(warnings()).To(Equal(1))
					})
				}
			}
		})
	})

	Describe("missing selectors", func() {
		DescribeTable("fail before any variant is chosen",
			func(selector string, read func() (any, error)) {
				h, err := read()
				Expect(h).To(BeNil())
				Expect(err).To(MatchError(assembler.ErrMissingField))
				ae := assemblyError(err)
				Expect(ae.Keys).To(ConsistOf(selector))
				Expect(ae.Selector).To(Equal(-1))
				Expect(warnings()).To(Equal(1))
			},
			Entry("environment", "envt_selector", func() (any, error) {
				return a.ReadEnvironment(doc(map[string]any{"wx": 1.0, "wy": 1.0}))
			}),
			Entry("aircraft", "aircraft_selector", func() (any, error) {
				return a.ReadAircraft(doc(stateDoc))
			}),
			Entry("stepper", "stepper_selector", func() (any, error) {
				return a.ReadStepper(doc(map[string]any{}), 0.01)
			}),
			Entry("pilot", "pilot_selector", func() (any, error) {
				return a.ReadPilot(doc(pilotDocs[1]).Without("pilot_selector"))
			}),
		)
	})

	Context("thermal environment with one key removed", func() {
		for _, key := range []string{"th_scenario_path", "envt_cfg_path", "noise_stddev"} {
			key := key
			It("fails without "+key, func() {
				z, err := a.ReadEnvironment(doc(thermalDoc, map[string]any{"envt_selector": 1}).Without(key))
				Expect(z).To(BeNil())
				Expect(err).To(MatchError(assembler.ErrMissingField))
				Expect(assemblyError(err).Keys).To(ConsistOf(key))
				Expect(warnings()).To(Equal(1))
			})
		}
	})

	Describe("ReadState", func() {
		It("returns nothing when any field is absent", func() {
			for _, key := range assembler.StateKeys() {
				s, err := a.ReadState(doc(stateDoc).Without(key))
				Expect(err).To(MatchError(assembler.ErrMissingField), key)
				Expect(s).To(Equal(aircraft.State{}), key)
			}
		})

		It("lists every absent field at once", func() {
			_, err := a.ReadState(doc(stateDoc).Without("x0").Without("beta0"))
			Expect(assemblyError(err).Keys).To(Equal([]string{"x0", "beta0"}))
		})

		It("round-trips angles through degrees", func() {
			s, err := a.ReadState(doc(stateDoc))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Gamma * dynamo.ToDeg).To(BeNumerically("~", -2.0, 1e-12))
			Expect(s.Sigma * dynamo.ToDeg).To(BeNumerically("~", 10.0, 1e-12))
			Expect(s.MaxAngle * dynamo.ToDeg).To(BeNumerically("~", 45.0, 1e-12))
		})
	})

	Describe("ReadTimeVariables", func() {
		time := map[string]any{"limit_time": 60.0, "time_step_width": 0.1, "nb_sub_time_step": 10}

		It("reads the three fields together", func() {
			tc, err := a.ReadTimeVariables(doc(time))
			Expect(err).NotTo(HaveOccurred())
			Expect(tc).To(Equal(assembler.TimeControl{Limit: 60, Step: 0.1, SubSteps: 10}))
			Expect(tc.SubStepWidth()).To(BeNumerically("~", 0.01, 1e-15))
		})

		It("accepts an integral float sub-step count", func() {
			tc, err := a.ReadTimeVariables(doc(time, map[string]any{"nb_sub_time_step": 4.0}))
			Expect(err).NotTo(HaveOccurred())
			Expect(tc.SubSteps).To(Equal(uint(4)))
		})

		It("rejects a fractional sub-step count as missing", func() {
			_, err := a.ReadTimeVariables(doc(time, map[string]any{"nb_sub_time_step": 2.5}))
			Expect(err).To(MatchError(assembler.ErrMissingField))
		})

		It("rejects a zero step width", func() {
			tc, err := a.ReadTimeVariables(doc(time, map[string]any{"time_step_width": 0.0}))
			Expect(err).To(MatchError(assembler.ErrConstruction))
			Expect(tc).To(Equal(assembler.TimeControl{}))
		})

		DescribeTable("rejects non-finite values",
			func(key string, v float64) {
				tc, err := a.ReadTimeVariables(doc(time, map[string]any{key: v}))
				Expect(tc).To(Equal(assembler.TimeControl{}))
				Expect(err).To(MatchError(assembler.ErrConstruction))
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
				Expect(warnings()).To(Equal(1))
			},
			Entry("infinite limit", "limit_time", math.Inf(1)),
			Entry("nan limit", "limit_time", math.NaN()),
			Entry("infinite step", "time_step_width", math.Inf(1)),
			Entry("nan step", "time_step_width", math.NaN()),
		)
	})

	Describe("log paths", func() {
		It("reads both paths", func() {
			d := doc(map[string]any{"st_log_path": "s.csv", "fz_log_path": "z.csv"})
			s, err := a.ReadStateLogPath(d)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("s.csv"))
			z, err := a.ReadZoneLogPath(d)
			Expect(err).NotTo(HaveOccurred())
			Expect(z).To(Equal("z.csv"))
		})

		It("fails when the path is absent", func() {
			_, err := a.ReadZoneLogPath(doc(map[string]any{}))
			Expect(err).To(MatchError(assembler.ErrMissingField))
			Expect(warnings()).To(Equal(1))
		})
	})

	Describe("Assemble", func() {
		localPaths := map[string]any{
			"th_scenario_path": scenarioPath,
			"envt_cfg_path":    zoneCfgPath,
		}

		It("builds every preset except the disabled one", func() {
			for _, name := range config.ListPresets() {
				d := doc(config.Presets[name])
				if d.Exists("th_scenario_path") {
					d = doc(config.Presets[name], localPaths)
				}
				s, err := a.Assemble(d)
				if name == "thermal-uct" {
					Expect(err).To(MatchError(assembler.ErrDisabledVariant))
					Expect(s).To(BeNil())
					continue
				}
				Expect(err).NotTo(HaveOccurred(), name)
				Expect(s.Zone).NotTo(BeNil())
				Expect(s.Aircraft).NotTo(BeNil())
				Expect(s.Stepper).NotTo(BeNil())
				Expect(s.Pilot).NotTo(BeNil())
				Expect(s.StateLogPath).To(Equal("data/state.csv"))
			}
		})

		It("stops at the first failing family", func() {
			d := doc(config.Presets["flat-euler-passive"]).Without("wx")
			s, err := a.Assemble(d)
			Expect(s).To(BeNil())
			Expect(assemblyError(err).Op).To(Equal("read_environment"))
			Expect(warnings()).To(Equal(1))
		})
	})
})

func pilotName(sel uint) string {
	return [...]string{"passive", "heuristic", "q-learning", "uct", "optimistic"}[sel]
}
