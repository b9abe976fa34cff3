package render

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPyPlotter_Paths(t *testing.T) {
	p := &PyPlotter{Dir: "out"}
	assert.Equal(t, filepath.Join("out", "totals.png"), p.TotalsPath())
	assert.Equal(t, filepath.Join("out", "logs.png"), p.LogsPath())
}

func TestPyPlotter_EmptyInputsAreErrors(t *testing.T) {
	p := &PyPlotter{Dir: t.TempDir()}
	assert.Error(t, p.PlotTotals(nil))
	assert.Error(t, p.PlotLogs(nil, []float64{1}))
}
