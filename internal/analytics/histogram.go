// Package analytics turns histogram responses into chart-ready series.
package analytics

import (
	"fmt"

	"github.com/abelbrown/collidoscope/internal/api"
)

// variableLabels maps the known physics variable keys to display labels.
// Unknown keys fall back to the raw key string.
var variableLabels = map[string]string{
	"invariant_mass": "Invariant Mass (GeV)",
	"missing_et":     "Missing ET (GeV)",
	"leading_jet_pt": "Leading Jet pT (GeV)",
	"scalar_ht":      "Scalar HT (GeV)",
}

// VariableLabel returns the human-readable label for a variable key.
func VariableLabel(key string) string {
	if label, ok := variableLabels[key]; ok {
		return label
	}
	return key
}

// Variables lists the known variable keys in display order.
func Variables() []string {
	return []string{"invariant_mass", "missing_et", "leading_jet_pt", "scalar_ht"}
}

// BinCenters computes the midpoint of each pair of consecutive bin edges.
// For N+1 edges it returns N centers, matching the response's values.
func BinCenters(bins []float64) []float64 {
	if len(bins) < 2 {
		return nil
	}
	centers := make([]float64, len(bins)-1)
	for k := 0; k+1 < len(bins); k++ {
		centers[k] = (bins[k] + bins[k+1]) / 2
	}
	return centers
}

// Chart is one bar chart built from a histogram response. A chart owns its
// series slices until Dispose.
type Chart struct {
	Variable  string
	Title     string
	XLabel    string
	Centers   []float64
	Values    []int
	NumEvents int

	disposed bool
}

// NewChart builds a chart from a histogram result. The caller must Dispose
// the previous chart first; building is cheap, leaking series is not.
func NewChart(res *api.HistogramResult) *Chart {
	if res == nil {
		return nil
	}
	label := VariableLabel(res.Variable)
	return &Chart{
		Variable:  res.Variable,
		Title:     fmt.Sprintf("%s (%d events)", label, res.NumEvents),
		XLabel:    label,
		Centers:   BinCenters(res.Bins),
		Values:    append([]int(nil), res.Values...),
		NumEvents: res.NumEvents,
	}
}

// MaxValue returns the tallest bar, zero for an empty chart.
func (c *Chart) MaxValue() int {
	max := 0
	for _, v := range c.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// Dispose releases the chart's series. Safe to call more than once.
func (c *Chart) Dispose() {
	if c == nil {
		return
	}
	c.disposed = true
	c.Centers = nil
	c.Values = nil
}

// Disposed reports whether the chart has been disposed.
func (c *Chart) Disposed() bool { return c.disposed }
