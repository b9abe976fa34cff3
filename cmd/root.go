package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/soc-sim/sandpile/sim"
)

var (
	// CLI flags for the lattice and toppling rule
	size      int    // Lattice size M
	threshold int    // Height above which a site topples
	topology  string // Neighbour topology
	maxChain  int    // Max topplings per chain (0 = unlimited)

	// CLI flags for drops
	iterations   int     // Number of grains dropped
	centerWeight float64 // Center-weighted sampling factor (0 = uniform)
	seed         int64   // Seed for the drop sampler

	// CLI flags for reporting
	reportThreshold int    // Avalanche sizes <= this are left out of the histogram
	video           bool   // Render the snapshot sequence
	plotTotals      bool   // Plot the histogram
	plotLogs        bool   // Plot the log transform
	traceLevel      string // Per-drop trace verbosity
	outputDir       string // Directory for video and plots
	archiveDB       string // SQLite archive path (empty = no archive)

	// CLI flags for grid persistence
	loadSeed bool
	saveSeed bool
	seedFile string

	configPath string // Optional YAML run config
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sandpile",
	Short: "Abelian sandpile avalanche simulator",
}

// runCmd drops grains on a sandpile and reports avalanche statistics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drop grains on a sandpile and report avalanche statistics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		cfg, err := runConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}

		var grid *sim.Grid
		if cfg.LoadSeed {
			grid, err = sim.LoadSeedFile(cfg.SeedFile, cfg.Size)
			if err != nil {
				logrus.Fatalf("Could not load seed grid: %v", err)
			}
			logrus.Infof("Loaded %dx%d seed grid from %s (%d grains)", grid.Size(), grid.Size(), cfg.SeedFile, grid.Total())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err := sim.Run(ctx, cfg, grid)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		out := outputs{Dir: outputDir, ArchiveDB: archiveDB}
		if err := out.write(ctx, cfg, res, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// registerRunFlags binds the run flags on cmd, defaulting to DefaultConfig.
func registerRunFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()
	cmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration; explicitly set flags override it")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Lattice and toppling rule
	cmd.Flags().IntVarP(&size, "size", "s", def.Size, "Number of sites, M, in the MxM lattice")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", def.Threshold, "Height above which a site topples")
	cmd.Flags().StringVar(&topology, "topology", string(def.Topology), "Neighbour topology (orthogonal, diagonal, all)")
	cmd.Flags().IntVar(&maxChain, "max-chain", def.MaxChainLength, "Max topplings in one cascade chain (0 = unlimited)")

	// Drops
	cmd.Flags().IntVarP(&iterations, "iters", "i", def.Iterations, "Number of iterations")
	cmd.Flags().Float64VarP(&centerWeight, "center-weight", "w", def.CenterWeight, "Center-weighted sampling factor (0 = uniform)")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for the drop coordinate sampler")

	// Reporting
	cmd.Flags().IntVarP(&reportThreshold, "counter-threshold", "c", def.ReportThreshold, "Threshold above which the cascade counter should apply")
	cmd.Flags().BoolVarP(&video, "video", "v", def.Video, "Record a video of the simulation progression")
	cmd.Flags().BoolVar(&plotTotals, "plot-totals", def.PlotTotals, "Make a plot of the totals")
	cmd.Flags().BoolVarP(&plotLogs, "plot-logs", "l", def.PlotLogs, "Make a plot of the logarithmic reduction")
	cmd.Flags().StringVar(&traceLevel, "trace-level", def.TraceLevel, "Per-drop trace level (none, drops)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for the video and plots")
	cmd.Flags().StringVar(&archiveDB, "archive", "", "SQLite database to archive the run in")

	// Grid persistence
	cmd.Flags().BoolVar(&loadSeed, "load-seed", def.LoadSeed, "Start from the grid stored in the seed file")
	cmd.Flags().BoolVar(&saveSeed, "save-seed", def.SaveSeed, "Save the final grid to the seed file")
	cmd.Flags().StringVar(&seedFile, "seed-file", def.SeedFile, "Seed grid file path")
}

// runConfig starts from the --config file (or the defaults) and applies
// every flag the user set explicitly.
func runConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("topology") {
		cfg.Topology = sim.Topology(topology)
	}
	if flags.Changed("max-chain") {
		cfg.MaxChainLength = maxChain
	}
	if flags.Changed("iters") {
		cfg.Iterations = iterations
	}
	if flags.Changed("center-weight") {
		cfg.CenterWeight = centerWeight
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("counter-threshold") {
		cfg.ReportThreshold = reportThreshold
	}
	if flags.Changed("video") {
		cfg.Video = video
	}
	if flags.Changed("plot-totals") {
		cfg.PlotTotals = plotTotals
	}
	if flags.Changed("plot-logs") {
		cfg.PlotLogs = plotLogs
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = traceLevel
	}
	if flags.Changed("load-seed") {
		cfg.LoadSeed = loadSeed
	}
	if flags.Changed("save-seed") {
		cfg.SaveSeed = saveSeed
	}
	if flags.Changed("seed-file") {
		cfg.SeedFile = seedFile
	}
	return cfg, nil
}

func setupLogging(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init registers flags and attaches subcommands to the root command
func init() {
	registerRunFlags(runCmd)
	registerRunsFlags(runsCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
}
