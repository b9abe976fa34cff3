package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soc-sim/sandpile/sim/stats"
	"github.com/soc-sim/sandpile/sim/trace"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = 8
	cfg.Threshold = 3
	cfg.Iterations = 3000
	return cfg
}

func TestNewSimulator_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Size = 0
	_, err := NewSimulator(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewSimulator_SeedGridSizeMismatch(t *testing.T) {
	g, _ := NewGrid(5)
	_, err := NewSimulator(testConfig(), g)
	assert.ErrorIs(t, err, ErrDeserialization)
}

func TestRun_RecordHasOneEntryPerStep(t *testing.T) {
	res, err := Run(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Record, 3000)
	assert.Equal(t, int64(3000), res.GrainsDropped)
	assert.Nil(t, res.Snapshots)
	assert.Nil(t, res.Trace)
}

func TestRun_ZeroIterations(t *testing.T) {
	cfg := testConfig()
	cfg.Iterations = 0
	res, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Record)
	assert.Equal(t, int64(0), res.Grid.Total())
}

// TestRun_GrainConservation checks initial + dropped == on-grid + lost for
// every topology and for both samplers, starting from a non-empty seed.
func TestRun_GrainConservation(t *testing.T) {
	for _, tc := range []struct {
		topology  Topology
		threshold int
		weight    float64
	}{
		{TopologyOrthogonal, 3, 0},
		{TopologyDiagonal, 3, 0},
		{TopologyAll, 7, 0},
		{TopologyOrthogonal, 5, 2},
		{TopologyAll, 9, 1},
	} {
		t.Run(string(tc.topology), func(t *testing.T) {
			cfg := testConfig()
			cfg.Topology = tc.topology
			cfg.Threshold = tc.threshold
			cfg.CenterWeight = tc.weight
			cfg.TraceLevel = string(trace.TraceLevelDrops)

			seed, _ := NewGrid(cfg.Size)
			seed.SetHeight(Coord{2, 2}, 2)
			seed.SetHeight(Coord{5, 1}, 1)

			res, err := Run(context.Background(), cfg, seed)
			require.NoError(t, err)

			assert.Equal(t, int64(3), res.InitialGrains)
			assert.Equal(t, res.InitialGrains+res.GrainsDropped, res.Grid.Total()+res.GrainsLost)
			// every toppling removed exactly arity grains: those not lost landed on the grid
			placed := int64(tc.topology.Arity()*res.Record.Total()) - res.GrainsLost
			assert.GreaterOrEqual(t, placed, int64(0))

			// the trace agrees with the result
			summary := trace.Summarize(res.Trace)
			assert.Equal(t, int(res.GrainsLost), summary.GrainsLost)
			assert.Equal(t, res.Record.Total(), summary.TotalTopplings)
			assert.Equal(t, 3000, summary.TotalDrops)
		})
	}
}

func TestRun_HeightsNeverNegative(t *testing.T) {
	for _, tc := range []struct {
		topology  Topology
		threshold int
	}{
		{TopologyOrthogonal, 3},
		{TopologyDiagonal, 3},
		{TopologyAll, 7},
	} {
		cfg := testConfig()
		cfg.Topology = tc.topology
		cfg.Threshold = tc.threshold
		res, err := Run(context.Background(), cfg, nil)
		require.NoError(t, err)
		for _, row := range res.Grid.Rows() {
			for _, h := range row {
				require.GreaterOrEqual(t, h, 0, "%s: negative height", tc.topology)
			}
		}
	}
}

func TestRun_OneByOneGrid_AccumulatesWithoutAvalanches(t *testing.T) {
	cfg := testConfig()
	cfg.Size = 1
	cfg.Iterations = 500
	for _, weight := range []float64{0, 1} {
		cfg.CenterWeight = weight
		res, err := Run(context.Background(), cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 500, res.Grid.Height(Coord{0, 0}))
		assert.Zero(t, res.Record.Total())
		assert.Empty(t, stats.Histogram(res.Record, 0))
	}
}

func TestRun_SameSeedIdenticalResults(t *testing.T) {
	cfg := testConfig()
	cfg.CenterWeight = 1

	r1, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	r2, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, r1.Record, r2.Record)
	assert.True(t, r1.Grid.Equal(r2.Grid))
}

func TestRun_DifferentSeedsDiffer(t *testing.T) {
	cfg := testConfig()
	r1, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	cfg.Seed = 4242
	r2, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.False(t, r1.Grid.Equal(r2.Grid), "different seeds produced identical grids")
}

func TestRun_SnapshotsOnePerDropPlusOnePerToppling(t *testing.T) {
	// GIVEN snapshot recording enabled
	cfg := testConfig()
	cfg.Iterations = 400
	cfg.Video = true

	// WHEN the run completes
	res, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	// THEN there is a snapshot after each drop and after each toppling
	require.Len(t, res.Snapshots, cfg.Iterations+res.Record.Total())
	last := res.Snapshots[len(res.Snapshots)-1]
	assert.True(t, last.Grid.Equal(res.Grid))
	assert.Equal(t, cfg.Iterations-1, last.Step)
	// steps appear in non-decreasing order
	for i := 1; i < len(res.Snapshots); i++ {
		require.LessOrEqual(t, res.Snapshots[i-1].Step, res.Snapshots[i].Step)
	}
	// the first snapshot holds exactly one grain: the first drop
	assert.Equal(t, int64(1), res.Snapshots[0].Grid.Total())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig(), nil)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestRun_HistogramCountsMatchAvalancheSteps(t *testing.T) {
	res, err := Run(context.Background(), testConfig(), nil)
	require.NoError(t, err)

	hist := stats.Histogram(res.Record, 0)
	avalanches := 0
	for _, n := range res.Record {
		if n > 0 {
			avalanches++
		}
	}
	total := 0
	for _, b := range hist {
		total += b.Count
	}
	assert.Equal(t, avalanches, total)
	assert.Greater(t, avalanches, 0, "3000 drops on an 8x8 pile should topple at least once")
}

func TestRun_DropsFollowOneSeededStream(t *testing.T) {
	// GIVEN a traced run with uniform sampling
	cfg := testConfig()
	cfg.Iterations = 500
	cfg.Seed = 1234
	cfg.TraceLevel = string(trace.TraceLevelDrops)

	// WHEN it runs
	res, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	// THEN every drop is the next draw of a single source seeded from cfg.Seed
	rng := NewSimulationKey(cfg.Seed).Rand()
	var s UniformSampler
	require.Len(t, res.Trace.Drops, cfg.Iterations)
	for _, d := range res.Trace.Drops {
		want := s.Sample(rng, cfg.Size)
		require.Equal(t, want, Coord{d.X, d.Y}, "step %d", d.Step)
	}
}
