package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/soarsim/internal/aircraft"
	"github.com/san-kum/soarsim/internal/assembler"
	"github.com/san-kum/soarsim/internal/config"
	"github.com/san-kum/soarsim/internal/dynamo"
	"github.com/san-kum/soarsim/internal/flight"
	"github.com/san-kum/soarsim/internal/metrics"
	"github.com/san-kum/soarsim/internal/optim"
	"github.com/san-kum/soarsim/internal/storage"
	"github.com/san-kum/soarsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	logLevel    string
	catalogKind string
	runs        int
	seed        uint64
	gridFlags   []string
	frameRate   int

	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}

	log = logrus.WithField("module", "soarsim")
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "soarsim",
		Short:        "glider soaring simulation assembled from a configuration document",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logrus.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05.0000",
			})
			level, ok := logLevels[logLevel]
			if !ok {
				return fmt.Errorf("log.level must be one of %v", lo.Keys(logLevels))
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".soarsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log.level", "info", "log level (trace debug info warn error critical off)")
	rootCmd.PersistentFlags().StringVar(&catalogKind, "catalog", "sqlite", "run catalog backend (memory, sqlite)")

	assembleCmd := &cobra.Command{
		Use:   "assemble",
		Short: "build the simulation components and report what was built",
		Args:  cobra.NoArgs,
		RunE:  assembleOnly,
	}
	addDocumentFlags(assembleCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "assemble and fly the simulation",
		Args:  cobra.NoArgs,
		RunE:  runFlight,
	}
	addDocumentFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of independent runs, seeded consecutively")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "seed of the first run (overrides the document)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot altitude and airspeed of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search numeric keys for the best mean climb rate",
		Args:  cobra.NoArgs,
		RunE:  tunePilot,
	}
	addDocumentFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridFlags, "grid", nil, "key=v1,v2,... (repeatable)")
	tuneCmd.Flags().IntVar(&runs, "runs", 1, "runs per grid point")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly the simulation interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addDocumentFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "decisions shown per second")

	rootCmd.AddCommand(assembleCmd, runCmd, liveCmd, listCmd, plotCmd, presetsCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadDocument picks the preset or config file; a config file wins when
// both are given.
func loadDocument() (*config.Document, error) {
	switch {
	case configFile != "":
		return config.Load(configFile)
	case preset != "":
		doc := config.GetPreset(preset)
		if doc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("one of --config or --preset is required")
	}
}

func assembleDocument(doc *config.Document) (*assembler.Setup, error) {
	s, err := assembler.New(nil).Assemble(doc)
	if err != nil {
		fmt.Println(viz.FailurePanel(err))
		return nil, err
	}
	return s, nil
}

func assembleOnly(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	s, err := assembleDocument(doc)
	if err != nil {
		return err
	}
	fmt.Println(viz.SetupPanel(s))
	return nil
}

func flightMetrics(limit float64) func() []dynamo.Metric {
	return func() []dynamo.Metric {
		return []dynamo.Metric{
			metrics.NewSpecificEnergy(),
			metrics.NewClimbRate(),
			metrics.NewControlEffort(),
			metrics.NewEnvelope(limit),
		}
	}
}

func runFlight(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		doc = doc.With("seed", seed)
	}
	first, _ := doc.Uint("seed")

	if err := checkRuns(); err != nil {
		return err
	}

	// Assemble once up front so configuration errors surface before any
	// run starts.
	checked, err := assembleDocument(doc)
	if err != nil {
		return err
	}
	fmt.Println(viz.SetupPanel(checked))

	maxAngle := 0.0
	if g, ok := checked.Aircraft.(*aircraft.BeelerGlider); ok {
		maxAngle = g.MaxAngle()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	catalog, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer catalog.Close()

	asm := assembler.New(log.WithField("stage", "batch"))
	var mu sync.Mutex
	setups := make(map[uint64]*assembler.Setup)
	build := func(s uint64) (*assembler.Setup, error) {
		built, err := asm.Assemble(doc.With("seed", s))
		if err == nil {
			mu.Lock()
			setups[s] = built
			mu.Unlock()
		}
		return built, err
	}

	start := time.Now()
	results, err := flight.NewBatch(build, runs, uint64(first)).
		WithMetrics(flightMetrics(maxAngle)).
		Run(ctx)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"runs": runs, "elapsed": time.Since(start)}).Info("flights complete")

	for i, res := range results {
		runSeed := uint64(first) + uint64(i)
		s := setups[runSeed]
		if err := writeLogs(s, res, runs > 1, i); err != nil {
			return err
		}

		meta := storage.RunMetadata{
			Preset:   preset,
			Seed:     runSeed,
			Step:     s.Time.Step,
			Limit:    s.Time.Limit,
			SubSteps: s.Time.SubSteps,
			Zone:     s.Zone.Name(),
			Aircraft: s.Aircraft.Name(),
			Stepper:  s.Stepper.Name(),
			Pilot:    s.Pilot.Name(),
		}
		runID, err := st.Save(meta, res)
		if err != nil {
			return err
		}
		saved, err := st.Load(runID)
		if err != nil {
			return err
		}
		if err := catalog.Record(ctx, *saved); err != nil {
			return err
		}

		printSummary(runID, res)
	}
	return nil
}

// writeLogs writes the state and zone logs named in the document. With
// several runs each file gets the run index as a suffix.
func writeLogs(s *assembler.Setup, res *flight.Result, indexed bool, i int) error {
	name := func(path string) string {
		if !indexed {
			return path
		}
		ext := filepath.Ext(path)
		return fmt.Sprintf("%s_%d%s", path[:len(path)-len(ext)], i, ext)
	}
	if s.StateLogPath != "" {
		if err := storage.WriteStateLog(name(s.StateLogPath), res); err != nil {
			return err
		}
	}
	if s.ZoneLogPath != "" {
		t := res.Times[len(res.Times)-1]
		if _, err := storage.WriteZoneLog(name(s.ZoneLogPath), s.Zone, t); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(runID string, res *flight.Result) {
	alt := lo.Map(res.States, func(x dynamo.State, _ int) float64 { return x[aircraft.IZ] })

	fmt.Printf("\nrun id: %s\n", runID)
	fmt.Printf("steps: %d (%s)\n", res.StepsTaken, res.Reason)
	fmt.Printf("altitude: %s\n", viz.Sparkline(alt, 60))

	names := lo.Keys(res.Metrics)
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, res.Metrics[name])
	}
}

func openCatalog(ctx context.Context) (storage.Catalog, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	c, err := storage.NewCatalog(catalogKind, filepath.Join(dataDir, "runs.db"))
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	s, err := assembleDocument(doc)
	if err != nil {
		return err
	}

	// log lines would tear the terminal view
	if logrus.GetLevel() > logrus.ErrorLevel {
		logrus.SetLevel(logrus.ErrorLevel)
	}

	m, err := viz.NewLive(s, frameRate)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	var (
		found []storage.RunMetadata
		err   error
	)
	if catalogKind == "sqlite" {
		c, cerr := openCatalog(cmd.Context())
		if cerr != nil {
			return cerr
		}
		defer c.Close()
		found, err = c.Runs(cmd.Context())
	} else {
		found, err = storage.New(dataDir).List()
	}
	if err != nil {
		return err
	}

	if len(found) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tZONE\tPILOT\tSTEPPER\tSTEPS\tREASON\tCLIMB")
	for _, run := range found {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Zone,
			run.Pilot,
			run.Stepper,
			run.Steps,
			run.Reason,
			run.Metrics["climb_rate"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("pilot: %s in %s\n", meta.Pilot, meta.Zone)
	fmt.Printf("samples: %d\n\n", len(states))

	for _, series := range []struct {
		idx     int
		caption string
	}{
		{aircraft.IZ, "altitude (m)"},
		{aircraft.IV, "airspeed (m/s)"},
	} {
		data := lo.Map(states, func(x []float64, _ int) float64 { return x[series.idx] })
		fmt.Println(viz.Plot(data, series.caption))
		fmt.Println()
	}
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("presets:")
		for _, p := range config.ListPresets() {
			fmt.Printf("  %s\n", p)
		}
		return nil
	}
	doc := config.GetPreset(args[0])
	if doc == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func checkRuns() error {
	if runs < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", runs)
	}
	return nil
}

func parseGrid(flags []string) (map[string][]float64, error) {
	grid := make(map[string][]float64, len(flags))
	for _, f := range flags {
		key, list, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("grid %q: want key=v1,v2,...", f)
		}
		for _, part := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("grid %q: %w", f, err)
			}
			grid[key] = append(grid[key], v)
		}
	}
	return grid, nil
}

func tunePilot(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	if err := checkRuns(); err != nil {
		return err
	}
	grid, err := parseGrid(gridFlags)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	if _, err := assembleDocument(doc); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	first, _ := doc.Uint("seed")
	asm := assembler.New(log.WithField("stage", "tune"))
	search := optim.NewGridSearch(grid)
	log.WithField("points", search.Size()).Info("grid search started")

	best, score, err := search.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		d := doc
		for k, v := range params {
			d = d.With(k, v)
		}
		results, err := flight.NewBatch(func(s uint64) (*assembler.Setup, error) {
			return asm.Assemble(d.With("seed", s))
		}, runs, uint64(first)).
			WithMetrics(func() []dynamo.Metric { return []dynamo.Metric{metrics.NewClimbRate()} }).
			Run(ctx)
		if err != nil {
			return 0, err
		}
		climb := lo.SumBy(results, func(r *flight.Result) float64 { return r.Metrics["climb_rate"] }) / float64(len(results))
		log.WithFields(logrus.Fields{"params": params, "climb_rate": climb}).Debug("grid point")
		return climb, nil
	})
	if err != nil {
		return err
	}

	names := lo.Keys(best)
	sort.Strings(names)
	fmt.Println(viz.Title.Render("best grid point"))
	for _, n := range names {
		fmt.Printf("  %s: %g\n", n, best[n])
	}
	fmt.Printf("  mean climb rate: %.4f m/s\n", score)
	return nil
}
