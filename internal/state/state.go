// Package state is the canonical UI-facing state and its reducer.
//
// UIState is an explicit struct; all mutation goes through Reduce, a pure
// function from (state, message) to state. Views read, actions commit,
// nothing mutates ambiently. Commits happen on the single Bubble Tea
// update loop, so they are atomic with respect to each other.
//
// Known limitations, preserved deliberately: Loading and Error are not
// mutually exclusive (an action clears a stale error only at its own
// start), and concurrent in-flight fetches for the same field resolve
// last-write-wins with no request fencing.
package state

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/collidoscope/internal/api"
)

// UIState is the canonical view-facing state. Entities are read-only
// snapshots replaced wholesale on each commit, never mutated in place.
type UIState struct {
	CurrentEvent      *api.EventDetail
	Events            []api.EventDetail
	TotalEvents       int
	Statistics        *api.Statistics
	DetectorConfig    *api.DetectorConfig
	Histogram         *api.HistogramResult
	HistogramVariable string
	LastGenerate      *api.GenerateAck

	Loading bool
	Error   string
}

// Messages committed through Reduce. Each terminal message clears Loading;
// a non-nil Err stores the message text and leaves the data field alone.

// ActionStartedMsg marks the start of a store action: loading on, stale
// error cleared.
type ActionStartedMsg struct {
	Action string
}

// EventLoadedMsg commits a single event fetch. A nil Detail with nil Err
// means the backend had nothing to show; CurrentEvent stays as it was.
type EventLoadedMsg struct {
	Detail *api.EventDetail
	Err    error
}

// EventsLoadedMsg commits an event list page.
type EventsLoadedMsg struct {
	List *api.EventList
	Err  error
}

// StatisticsLoadedMsg commits the aggregate summary.
type StatisticsLoadedMsg struct {
	Stats *api.Statistics
	Err   error
}

// ConfigsLoadedMsg commits the detector configuration fetch.
type ConfigsLoadedMsg struct {
	Configs []api.DetectorConfig
	Err     error
}

// HistogramLoadedMsg commits a histogram response.
type HistogramLoadedMsg struct {
	Variable string
	Result   *api.HistogramResult
	Err      error
}

// GenerateDoneMsg commits a generation acknowledgment.
type GenerateDoneMsg struct {
	Ack *api.GenerateAck
	Err error
}

// CachedEventsMsg seeds the event list from the local cache at startup.
// It never touches Loading: a real fetch is already in flight and cached
// rows must not mask its error.
type CachedEventsMsg struct {
	Events []api.EventDetail
}

// Reduce applies one message to the state and returns the next state.
// Unknown messages return the state unchanged.
func Reduce(s UIState, msg tea.Msg) UIState {
	switch msg := msg.(type) {
	case ActionStartedMsg:
		s.Loading = true
		s.Error = ""

	case EventLoadedMsg:
		s.Loading = false
		if msg.Err != nil {
			s.Error = msg.Err.Error()
		} else if msg.Detail != nil {
			s.CurrentEvent = msg.Detail
		}

	case EventsLoadedMsg:
		s.Loading = false
		if msg.Err != nil {
			s.Error = msg.Err.Error()
		} else if msg.List != nil {
			s.Events = msg.List.Events
			s.TotalEvents = msg.List.Total
		}

	case StatisticsLoadedMsg:
		s.Loading = false
		if msg.Err != nil {
			s.Error = msg.Err.Error()
		} else {
			s.Statistics = msg.Stats
		}

	case ConfigsLoadedMsg:
		s.Loading = false
		if msg.Err != nil {
			s.Error = msg.Err.Error()
		} else if cfg := SelectConfig(msg.Configs); cfg != nil {
			s.DetectorConfig = cfg
		}

	case HistogramLoadedMsg:
		s.Loading = false
		if msg.Err != nil {
			s.Error = msg.Err.Error()
		} else {
			s.Histogram = msg.Result
			s.HistogramVariable = msg.Variable
		}

	case GenerateDoneMsg:
		s.Loading = false
		if msg.Err != nil {
			s.Error = msg.Err.Error()
		} else {
			s.LastGenerate = msg.Ack
		}

	case CachedEventsMsg:
		// Only seed while nothing fresher has landed.
		if len(s.Events) == 0 {
			s.Events = msg.Events
		}
	}

	return s
}

// SelectConfig picks the config to publish: the first active one, else the
// first in the list, else nil for an empty list.
func SelectConfig(configs []api.DetectorConfig) *api.DetectorConfig {
	for i := range configs {
		if configs[i].IsActive {
			return &configs[i]
		}
	}
	if len(configs) > 0 {
		return &configs[0]
	}
	return nil
}

// DismissError clears the error banner.
func DismissError(s UIState) UIState {
	s.Error = ""
	return s
}
