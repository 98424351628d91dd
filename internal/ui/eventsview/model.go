// Package eventsview lists fetched events in a table.
package eventsview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/collidoscope/internal/api"
)

// Model wraps a bubbles table over the current event list.
type Model struct {
	table  table.Model
	events []api.EventDetail
}

// New creates an empty events table.
func New() Model {
	columns := []table.Column{
		{Title: "Event", Width: 10},
		{Title: "Run", Width: 5},
		{Title: "Evt#", Width: 6},
		{Title: "Type", Width: 10},
		{Title: "Parts", Width: 6},
		{Title: "M (GeV)", Width: 9},
		{Title: "MET (GeV)", Width: 10},
		{Title: "Jets", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("62")).
		Bold(true)
	t.SetStyles(s)

	return Model{table: t}
}

// SetEvents replaces the table rows with the given events.
func (m *Model) SetEvents(events []api.EventDetail) {
	m.events = events

	rows := make([]table.Row, 0, len(events))
	for _, d := range events {
		rows = append(rows, table.Row{
			shortID(d.Event.EventID),
			fmt.Sprintf("%d", d.Event.RunNumber),
			fmt.Sprintf("%d", d.Event.EventNumber),
			d.Event.EventType,
			fmt.Sprintf("%d", d.Event.NumParticles),
			formatOpt(kinF(d.Kinematics, func(k *api.Kinematics) *float64 { return k.InvariantMass })),
			formatOpt(kinF(d.Kinematics, func(k *api.Kinematics) *float64 { return k.MissingET })),
			formatOptInt(kinI(d.Kinematics, func(k *api.Kinematics) *int { return k.NumJets })),
		})
	}
	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// SelectedID returns the full event id under the cursor, or "".
func (m Model) SelectedID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.events) {
		return ""
	}
	return m.events[i].Event.EventID
}

// SetSize resizes the table to the available area.
func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	if height > 3 {
		m.table.SetHeight(height - 3)
	}
}

// Update forwards navigation keys to the table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m Model) View() string {
	return m.table.View()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func kinF(k *api.Kinematics, get func(*api.Kinematics) *float64) *float64 {
	if k == nil {
		return nil
	}
	return get(k)
}

func kinI(k *api.Kinematics, get func(*api.Kinematics) *int) *int {
	if k == nil {
		return nil
	}
	return get(k)
}

// formatOpt renders an optional float; absence is a dash, never zero.
func formatOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatOptInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
