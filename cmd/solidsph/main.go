package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/erik-sundell/solidsph/internal/analysis"
	"github.com/erik-sundell/solidsph/internal/config"
	"github.com/erik-sundell/solidsph/internal/engine"
	"github.com/erik-sundell/solidsph/internal/metrics"
	"github.com/erik-sundell/solidsph/internal/output"
	"github.com/erik-sundell/solidsph/internal/viz"
)

const defaultRelaxSweeps = 40

var (
	configFile string
	preset     string
	outDir     string
	workers    int
	reload     bool
	restart    int
	quiet      bool
	iterations int
	svgOut     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solidsph",
		Short: "coupled SPH solid-contact and rigid-body simulation",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the interactive preset menu when no command given
			p := tea.NewProgram(viz.NewApp())
			if _, err := p.Run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a full simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "square-impact", "preset configuration")
	runCmd.Flags().StringVar(&outDir, "out", "", "output base directory (overrides config)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cores)")
	runCmd.Flags().BoolVar(&reload, "reload", false, "start from relaxed particle files")
	runCmd.Flags().IntVar(&restart, "restart", -1, "restart the latest run of this config from checkpoint N")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress lines")

	relaxCmd := &cobra.Command{
		Use:   "relax",
		Short: "relax particle lattices and write them for reload",
		RunE:  runRelax,
	}
	relaxCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	relaxCmd.Flags().StringVar(&preset, "preset", "square-impact", "preset configuration")
	relaxCmd.Flags().IntVar(&iterations, "iterations", defaultRelaxSweeps, "relaxation sweeps")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "preset configuration (empty opens the menu)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE:  listPresets,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-dir]",
		Short: "impact and frequency analysis of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run-dir]",
		Short: "export a run as JSON, or a snapshot as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&svgOut, "svg", false, "write an SVG scatter of the last snapshot")

	rootCmd.AddCommand(runCmd, relaxCmd, liveCmd, presetsCmd, analyzeCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves --config / --preset, the config file taking
// priority.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = outDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if reload {
		cfg.Modes.Reload = true
	}
	if cfg.Modes.Relax {
		return relaxAndStore(cfg, defaultRelaxSweeps)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	if !quiet {
		eng.Progress = os.Stdout
	}

	// The flag wins over the config; restart_step 0 means a fresh start.
	restartFrom := restart
	if restartFrom < 0 && cfg.Modes.RestartStep > 0 {
		restartFrom = cfg.Modes.RestartStep
	}

	st := output.New(cfg.Output.Dir)
	if restartFrom >= 0 {
		dir, err := st.FindLatestRun(cfg.Name)
		if err != nil {
			return err
		}
		cp, err := output.LoadCheckpoint(dir, restartFrom)
		if err != nil {
			return err
		}
		if err := eng.RestoreCheckpoint(cp, restartFrom); err != nil {
			return err
		}
		st.OpenRun(dir)
		fmt.Printf("restarting from %s at checkpoint %d (t=%.6f)\n", dir, restartFrom, eng.Clock().Time)
	} else {
		dir, err := st.CreateRun(cfg.Name)
		if err != nil {
			return err
		}
		fmt.Printf("run directory: %s\n", dir)
	}
	eng.AttachStore(st)

	for _, b := range eng.Bodies() {
		fmt.Printf("  %s: %d particles\n", b.Name, b.N())
	}
	fmt.Printf("running %s to t=%gs...\n", cfg.Name, cfg.EndTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := eng.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Printf("interrupted at t=%.6f after %d sub-steps\n", eng.Clock().Time, eng.Clock().Step)
			return nil
		}
		return err
	}
	elapsed := time.Since(start)

	ck := eng.Clock()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("sub-steps: %d\n", ck.Step)
	fmt.Printf("simulated: %.6fs\n", ck.Time)
	return nil
}

func runRelax(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return relaxAndStore(cfg, iterations)
}

func relaxAndStore(cfg *config.Config, sweeps int) error {
	fmt.Printf("relaxing %s lattices, %d sweeps...\n", cfg.Name, sweeps)
	start := time.Now()
	bodies, err := engine.Relax(cfg, sweeps)
	if err != nil {
		return err
	}

	dir := output.RelaxedDir(cfg.Output.Dir, cfg.Name)
	for _, b := range bodies {
		if err := output.WriteRelaxed(dir, b); err != nil {
			return err
		}
		fmt.Printf("  %s: %d particles\n", b.Name, b.N())
	}
	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("relaxed files: %s\n", dir)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	var m tea.Model
	if configFile == "" && preset == "" {
		m = viz.NewApp()
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		live, err := viz.NewModel(cfg)
		if err != nil {
			return err
		}
		m = live
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOMAIN\tRESOLUTION\tBODIES\tEND\tOUTPUT EVERY")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gx%g\t%g\t%d\t%gs\t%gs\n",
			name,
			cfg.Domain.Width, cfg.Domain.Height,
			cfg.Resolution,
			len(cfg.Bodies),
			cfg.EndTime,
			cfg.Output.Interval,
		)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runDir := args[0]

	meta, err := output.LoadMetadata(runDir)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.Name)
	fmt.Printf("sub-steps: %d, snapshots: %d\n", meta.Steps, meta.Snapshots)
	fmt.Printf("solver: %.3fs, io: %.3fs\n", meta.SolverSeconds, meta.IOSeconds)

	if meta.Config == nil {
		return fmt.Errorf("metadata has no config echo")
	}

	for _, bc := range meta.Config.Bodies {
		if bc.Dynamics != "rigid" || bc.Rigid == nil {
			continue
		}
		samples, err := output.LoadRigid(runDir, bc.Name)
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			continue
		}
		fmt.Println()
		analyzeRigid(bc.Name, bc.Rigid.Gravity, samples)
	}
	return nil
}

func analyzeRigid(name string, gravity [2]float64, samples []output.RigidSample) {
	times := make([]float64, len(samples))
	comX := make([]float64, len(samples))
	velX := make([]float64, len(samples))
	force := make([]float64, len(samples))

	speed := metrics.NewSeries("speed")
	peak := metrics.NewPeak("force")
	meanForce := metrics.NewMeanAbs("force")
	freeFlight := metrics.NewStability("force", 0)
	energy := metrics.NewDrift("energy")
	for i, s := range samples {
		times[i] = s.T
		comX[i] = s.COM[0]
		velX[i] = s.Vel[0]
		force[i] = math.Hypot(s.Force[0], s.Force[1])
		peak.Observe(force[i], s.T)
		meanForce.Observe(force[i], s.T)
		freeFlight.Observe(force[i], s.T)
		speed.Observe(math.Hypot(s.Vel[0], s.Vel[1]), s.T)
		// e = v^2/2 - g.x, per unit mass
		e := 0.5*(s.Vel[0]*s.Vel[0]+s.Vel[1]*s.Vel[1]) - (gravity[0]*s.COM[0] + gravity[1]*s.COM[1])
		energy.Observe(e, s.T)
	}

	fmt.Printf("rigid body %s: %d samples over %gs\n", name, len(samples), times[len(times)-1]-times[0])
	fmt.Printf("  peak contact force: %.4g at t=%.4f, mean %.4g\n", peak.Value(), peak.Time(), meanForce.Value())
	fmt.Printf("  mean speed: %.4g, max speed: %.4g\n", speed.Mean(), speed.Max())
	fmt.Printf("  free flight: %.0f%% of samples, energy drift: %.1f%% of initial\n",
		100*freeFlight.Value(), 100*energy.Value())

	eps := analysis.Episodes(times, force, 0)
	ratios := analysis.Restitution(times, velX, eps)
	for i, ep := range eps {
		fmt.Printf("  impact %d: t=[%.4f, %.4f], peak force %.4g", i+1, ep.Start, ep.End, ep.Peak)
		if ratios[i] != 0 {
			fmt.Printf(", restitution %.3f", ratios[i])
		}
		fmt.Println()
	}

	if f := analysis.DominantFrequency(times, comX); f > 0 {
		fmt.Printf("  dominant com frequency: %.3f hz (period %.3fs)\n", f, 1/f)
	}

	graph := asciigraph.Plot(comX,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s com x vs sample", name)),
	)
	fmt.Println()
	fmt.Println(graph)

	fmt.Println()
	fmt.Println(analysis.PhaseToASCII(comX, velX, 70, 20))
	fmt.Println("phase portrait: com x vs vel x")
}

func exportRun(cmd *cobra.Command, args []string) error {
	runDir := args[0]

	if svgOut {
		return exportSVG(runDir)
	}
	data, err := output.CollectExport(runDir)
	if err != nil {
		return err
	}
	return output.ExportJSONStdout(data)
}

// exportSVG renders the last snapshot index every body has into a
// scatter plot next to the run data.
func exportSVG(runDir string) error {
	meta, err := output.LoadMetadata(runDir)
	if err != nil {
		return err
	}
	if meta.Config == nil {
		return fmt.Errorf("metadata has no config echo")
	}

	colors := []string{"#00ccff", "#ff0080", "#00ff88", "#ffaa00"}

	last := -1
	for _, bc := range meta.Config.Bodies {
		indices, err := output.SnapshotIndices(runDir, bc.Name)
		if err != nil {
			return err
		}
		if len(indices) == 0 {
			continue
		}
		if hi := indices[len(indices)-1]; last < 0 || hi < last {
			last = hi
		}
	}
	if last < 0 {
		return fmt.Errorf("no snapshots in %s", runDir)
	}

	var layers []output.ScatterLayer
	for i, bc := range meta.Config.Bodies {
		pts, err := output.LoadSnapshotPositions(runDir, bc.Name, last)
		if err != nil {
			return err
		}
		layers = append(layers, output.ScatterLayer{
			Name:   bc.Name,
			Color:  colors[i%len(colors)],
			Points: pts,
		})
	}

	path := filepath.Join(runDir, fmt.Sprintf("scatter_%04d.svg", last))
	if err := os.WriteFile(path, []byte(output.ScatterSVG(layers, 800, 800)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
