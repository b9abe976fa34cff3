package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultPowerLawExponent is the exponent of the reference curve printed
// with every report.
const DefaultPowerLawExponent = 1.0 / 3.0

// Report is the end-of-run summary printed by the CLI and stored in the archive.
type Report struct {
	Steps           int          `json:"steps"`
	TotalTopplings  int          `json:"total_topplings"`
	AvalancheDrops  int          `json:"avalanche_drops"`
	MaxAvalanche    int          `json:"max_avalanche"`
	MeanAvalanche   float64      `json:"mean_avalanche"`
	ReportThreshold int          `json:"report_threshold"`
	Histogram       []Bin        `json:"histogram"`
	LogTransform    []LogBin     `json:"log_transform"`
	PowerLawCurve   []float64    `json:"power_law_curve"`
	Fit             *PowerLawFit `json:"power_law_fit,omitempty"`
}

// Summarize builds a Report from a toppling record. The reference curve has
// one point per log-transform entry. The fit is omitted when the histogram
// has fewer than two bins.
func Summarize(record []int, threshold int, exponent float64) Report {
	hist := Histogram(record, threshold)
	logs := LogTransform(hist)
	r := Report{
		Steps:           len(record),
		ReportThreshold: threshold,
		Histogram:       hist,
		LogTransform:    logs,
		PowerLawCurve:   PowerLawCurve(len(logs), exponent),
	}
	for _, n := range record {
		r.TotalTopplings += n
		if n > 0 {
			r.AvalancheDrops++
		}
		if n > r.MaxAvalanche {
			r.MaxAvalanche = n
		}
	}
	if len(record) > 0 {
		r.MeanAvalanche = float64(r.TotalTopplings) / float64(len(record))
	}
	fit, err := FitPowerLaw(hist)
	switch {
	case err == nil:
		r.Fit = &fit
	case errors.Is(err, ErrInsufficientData):
		logrus.Debugf("skipping power-law fit: %v", err)
	default:
		logrus.Warnf("power-law fit failed: %v", err)
	}
	return r
}

// Print writes the report as indented JSON under a header.
func (r Report) Print(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	if _, err := fmt.Fprintln(w, "=== Avalanche Statistics ==="); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
