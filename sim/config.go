package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soc-sim/sandpile/sim/trace"
)

// Config is the complete set of run options. The CLI fills it from flags
// and an optional YAML file; the core does no parsing of its own.
type Config struct {
	// Lattice and toppling rule
	Size      int      `yaml:"size"`      // M for the M×M lattice (>= 1)
	Threshold int      `yaml:"threshold"` // a site topples when height > Threshold (>= 0)
	Topology  Topology `yaml:"topology"`  // orthogonal, diagonal or all

	// Drops
	Iterations   int     `yaml:"iterations"`    // number of grains dropped (>= 0)
	CenterWeight float64 `yaml:"center_weight"` // 0 = uniform sampling
	Seed         int64   `yaml:"seed"`          // RNG seed for the sampler

	// Safety bound on a single chain; 0 = unlimited.
	MaxChainLength int `yaml:"max_chain_length"`

	// Reporting
	ReportThreshold int    `yaml:"report_threshold"` // histogram keeps sizes > ReportThreshold
	Video           bool   `yaml:"video"`            // record snapshots and render them
	PlotTotals      bool   `yaml:"plot_totals"`
	PlotLogs        bool   `yaml:"plot_logs"`
	TraceLevel      string `yaml:"trace_level"` // "none" or "drops"

	// Grid persistence
	LoadSeed bool   `yaml:"load_seed"`
	SaveSeed bool   `yaml:"save_seed"`
	SeedFile string `yaml:"seed_file"`
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Size:       10,
		Threshold:  4,
		Topology:   TopologyOrthogonal,
		Iterations: 1000,
		Seed:       42,
		TraceLevel: string(trace.TraceLevelNone),
		SeedFile:   "grid.seed",
	}
}

// RecordSnapshots reports whether the run keeps a snapshot sequence.
func (c Config) RecordSnapshots() bool {
	return c.Video
}

// Validate reports the first problem that prevents a run from starting.
func (c Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w: lattice size must be >= 1, got %d", ErrInvalidConfiguration, c.Size)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidConfiguration, c.Iterations)
	}
	if !IsValidTopology(string(c.Topology)) {
		return fmt.Errorf("%w: unknown topology %q; valid: orthogonal, diagonal, all", ErrInvalidConfiguration, c.Topology)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("%w: toppling threshold must be non-negative, got %d", ErrInvalidConfiguration, c.Threshold)
	}
	// A toppling removes Arity grains from a site holding Threshold+1, so
	// anything lower would leave negative heights behind.
	if floor := c.Topology.Arity() - 1; c.Threshold < floor {
		return fmt.Errorf("%w: %s topology sheds %d grains per toppling, threshold must be >= %d, got %d",
			ErrInvalidConfiguration, c.Topology, c.Topology.Arity(), floor, c.Threshold)
	}
	if math.IsNaN(c.CenterWeight) || math.IsInf(c.CenterWeight, 0) || c.CenterWeight < 0 {
		return fmt.Errorf("%w: center weight must be a finite non-negative number, got %f", ErrInvalidConfiguration, c.CenterWeight)
	}
	if c.MaxChainLength < 0 {
		return fmt.Errorf("%w: max chain length must be non-negative, got %d", ErrInvalidConfiguration, c.MaxChainLength)
	}
	if c.ReportThreshold < 0 {
		return fmt.Errorf("%w: report threshold must be non-negative, got %d", ErrInvalidConfiguration, c.ReportThreshold)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("%w: unknown trace level %q; valid: none, drops", ErrInvalidConfiguration, c.TraceLevel)
	}
	if (c.LoadSeed || c.SaveSeed) && c.SeedFile == "" {
		return fmt.Errorf("%w: seed file path required when loading or saving a seed", ErrInvalidConfiguration)
	}
	return nil
}

// LoadConfig reads a YAML run configuration on top of DefaultConfig.
// Unknown keys are rejected so typos surface as errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing run config: %w", err)
	}
	return cfg, nil
}
