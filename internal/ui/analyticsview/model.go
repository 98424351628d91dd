// Package analyticsview renders histogram bar charts in the terminal.
package analyticsview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/collidoscope/internal/analytics"
	"github.com/abelbrown/collidoscope/internal/api"
	"github.com/abelbrown/collidoscope/internal/diag"
)

// DefaultBins matches the gateway's default histogram binning.
const DefaultBins = 50

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d2a8ff"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model holds the current chart and the variable selector.
type Model struct {
	chart    *analytics.Chart
	varIndex int
	width    int
	height   int
}

// New creates an analytics view with no chart yet.
func New() Model {
	return Model{}
}

// Variable returns the currently selected variable key.
func (m Model) Variable() string {
	return analytics.Variables()[m.varIndex]
}

// CycleVariable advances the variable selector.
func (m *Model) CycleVariable() {
	m.varIndex = (m.varIndex + 1) % len(analytics.Variables())
}

// SetHistogram replaces the chart with one built from the response. The
// previous chart is disposed first so its series don't linger.
func (m *Model) SetHistogram(res *api.HistogramResult) {
	if m.chart != nil {
		m.chart.Dispose()
		diag.Record(diag.KindChartDispose, m.chart.Variable)
	}
	m.chart = analytics.NewChart(res)
	if m.chart != nil {
		diag.Record(diag.KindChartBuild, m.chart.Title)
	}
}

// Chart exposes the current chart, for tests.
func (m Model) Chart() *analytics.Chart { return m.chart }

// SetSize resizes the chart area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the bar chart, or a prompt when none is loaded.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("  ANALYTICS  ·  variable: " + analytics.VariableLabel(m.Variable())))
	b.WriteString("\n\n")

	if m.chart == nil || len(m.chart.Values) == 0 {
		b.WriteString(hintStyle.Render("  no histogram loaded · press [enter] to request one"))
		b.WriteString("\n\n")
		b.WriteString(m.hints())
		return b.String()
	}

	b.WriteString("  " + m.chart.Title + "\n\n")
	b.WriteString(m.renderBars())
	b.WriteString("\n")
	b.WriteString(m.hints())
	return b.String()
}

func (m Model) hints() string {
	return hintStyle.Render("  [v] cycle variable  [enter] fetch histogram")
}

// renderBars draws a vertical bar chart. When the surface is narrower
// than the bin count, adjacent bins are merged into one column.
func (m Model) renderBars() string {
	chartH := m.height - 8
	if chartH < 4 {
		chartH = 4
	}
	chartW := m.width - 12
	if chartW < 10 {
		chartW = 10
	}

	values := m.chart.Values
	centers := m.chart.Centers
	cols := len(values)
	perCol := 1
	if cols > chartW {
		perCol = (cols + chartW - 1) / chartW
		cols = (len(values) + perCol - 1) / perCol
	}

	// Merge bins into columns.
	colVals := make([]int, cols)
	for i, v := range values {
		colVals[i/perCol] += v
	}

	max := 0
	for _, v := range colVals {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		threshold := float64(row) / float64(chartH) * float64(max)

		// Y axis label on the top row only.
		if row == chartH {
			b.WriteString(axisStyle.Render(fmt.Sprintf("%8d ", max)))
		} else {
			b.WriteString(strings.Repeat(" ", 9))
		}

		b.WriteString(axisStyle.Render("│"))
		line := make([]rune, cols)
		for i, v := range colVals {
			if float64(v) >= threshold && v > 0 {
				line[i] = '█'
			} else {
				line[i] = ' '
			}
		}
		b.WriteString(barStyle.Render(string(line)))
		b.WriteByte('\n')
	}

	// X axis with first/last bin centers.
	b.WriteString(strings.Repeat(" ", 9))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", cols)))
	b.WriteByte('\n')
	if len(centers) > 0 {
		lo := fmt.Sprintf("%.1f", centers[0])
		hi := fmt.Sprintf("%.1f", centers[len(centers)-1])
		pad := cols - len(lo) - len(hi)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(strings.Repeat(" ", 10))
		b.WriteString(axisStyle.Render(lo + strings.Repeat(" ", pad) + hi))
		b.WriteByte('\n')
	}

	return b.String()
}
