// Package statsview shows the backend's aggregate statistics.
package statsview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/collidoscope/internal/api"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ee787"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(24)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model renders a Statistics snapshot.
type Model struct {
	stats *api.Statistics
}

// New creates an empty stats view.
func New() Model { return Model{} }

// SetStatistics replaces the displayed snapshot.
func (m *Model) SetStatistics(stats *api.Statistics) {
	m.stats = stats
}

// View renders the panel.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  STATISTICS"))
	b.WriteString("\n\n")

	if m.stats == nil {
		b.WriteString(hintStyle.Render("  no statistics loaded · press [r] to refresh"))
		return b.String()
	}

	s := m.stats
	row := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}

	row("Total events", fmt.Sprintf("%d", s.TotalEvents))
	row("Total runs", fmt.Sprintf("%d", s.TotalRuns))
	row("Events with leptons", fmt.Sprintf("%d", s.EventsWithLeptons))
	row("Events with jets", fmt.Sprintf("%d", s.EventsWithJets))
	row("Avg invariant mass", formatOpt(s.AverageInvariantMass, "GeV"))
	row("Avg missing ET", formatOpt(s.AverageMissingET, "GeV"))

	return b.String()
}

// formatOpt renders a nullable average; absence is a dash, never zero.
func formatOpt(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", *v, unit)
}
