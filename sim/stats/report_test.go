package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Totals(t *testing.T) {
	record := []int{0, 1, 1, 3, 0, 2, 8}

	r := Summarize(record, 0, DefaultPowerLawExponent)

	assert.Equal(t, 7, r.Steps)
	assert.Equal(t, 15, r.TotalTopplings)
	assert.Equal(t, 5, r.AvalancheDrops)
	assert.Equal(t, 8, r.MaxAvalanche)
	assert.InDelta(t, 15.0/7, r.MeanAvalanche, 1e-12)
	assert.Len(t, r.Histogram, 4)
	assert.Len(t, r.LogTransform, 4)
	assert.Len(t, r.PowerLawCurve, 4)
	require.NotNil(t, r.Fit)
	assert.Equal(t, 4, r.Fit.Points)
}

func TestSummarize_NoFitForSingleBin(t *testing.T) {
	r := Summarize([]int{0, 2, 2}, 0, DefaultPowerLawExponent)
	assert.Nil(t, r.Fit)
	assert.Len(t, r.Histogram, 1)
}

func TestSummarize_EmptyRecord(t *testing.T) {
	r := Summarize(nil, 0, DefaultPowerLawExponent)
	assert.Zero(t, r.Steps)
	assert.Zero(t, r.MeanAvalanche)
	assert.Empty(t, r.Histogram)
	assert.Nil(t, r.Fit)
}

func TestReport_PrintWritesHeaderAndJSON(t *testing.T) {
	var buf bytes.Buffer
	r := Summarize([]int{1, 2, 2, 4}, 0, DefaultPowerLawExponent)

	require.NoError(t, r.Print(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== Avalanche Statistics ===\n"))
	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(out, "=== Avalanche Statistics ===\n")), &decoded))
	assert.Equal(t, r.Histogram, decoded.Histogram)
	assert.Equal(t, 9, decoded.TotalTopplings)
}
