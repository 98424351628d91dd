package state

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/abelbrown/collidoscope/internal/api"
	"github.com/abelbrown/collidoscope/internal/logging"
)

// Actions wraps the Data Client into Bubble Tea commands. The dispatcher
// commits ActionStartedMsg synchronously before running the returned
// command, so every action follows loading → call → commit → not-loading.
//
// Requests run on context.Background(): in-flight requests are not
// cancelled on view teardown. Late responses are ignored at the renderer
// boundary instead.
type Actions struct {
	Client *api.Client

	// GenerateLimiter throttles generation requests; nil means unthrottled.
	GenerateLimiter *rate.Limiter
}

// ErrGenerateThrottled is returned when generation requests come faster
// than the limiter allows.
var ErrGenerateThrottled = errors.New("generation throttled, try again in a moment")

// FetchEvent loads one event with kinematics.
func (a Actions) FetchEvent(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := a.Client.GetEvent(context.Background(), id)
		return EventLoadedMsg{Detail: detail, Err: err}
	}
}

// FetchEvents loads one page of the event list.
func (a Actions) FetchEvents(page, pageSize int) tea.Cmd {
	return func() tea.Msg {
		list, err := a.Client.ListEvents(context.Background(), page, pageSize)
		return EventsLoadedMsg{List: list, Err: err}
	}
}

// LoadLatestEvent lists the newest event and, when one exists, fetches its
// full detail. An empty event list leaves CurrentEvent unset and issues no
// further fetch.
func (a Actions) LoadLatestEvent() tea.Cmd {
	return func() tea.Msg {
		list, err := a.Client.ListEvents(context.Background(), 1, 1)
		if err != nil {
			return EventLoadedMsg{Err: err}
		}
		if len(list.Events) == 0 {
			logging.Debug("no events to load")
			return EventLoadedMsg{}
		}
		detail, err := a.Client.GetEvent(context.Background(), list.Events[0].Event.EventID)
		return EventLoadedMsg{Detail: detail, Err: err}
	}
}

// Generate asks the backend to produce events of the given type.
func (a Actions) Generate(eventType string, numEvents int) tea.Cmd {
	return func() tea.Msg {
		if a.GenerateLimiter != nil && !a.GenerateLimiter.Allow() {
			return GenerateDoneMsg{Err: ErrGenerateThrottled}
		}
		ack, err := a.Client.GenerateEvents(context.Background(), eventType, numEvents)
		return GenerateDoneMsg{Ack: ack, Err: err}
	}
}

// FetchHistogram requests a histogram for the given variable.
func (a Actions) FetchHistogram(variable string, bins int, rangeMin, rangeMax *float64) tea.Cmd {
	return func() tea.Msg {
		res, err := a.Client.Histogram(context.Background(), api.HistogramRequest{
			Variable: variable,
			Bins:     bins,
			RangeMin: rangeMin,
			RangeMax: rangeMax,
		})
		return HistogramLoadedMsg{Variable: variable, Result: res, Err: err}
	}
}

// FetchStatistics loads the aggregate summary.
func (a Actions) FetchStatistics() tea.Cmd {
	return func() tea.Msg {
		stats, err := a.Client.Statistics(context.Background())
		return StatisticsLoadedMsg{Stats: stats, Err: err}
	}
}

// FetchDetectorConfigs loads all configs; the reducer publishes exactly one.
func (a Actions) FetchDetectorConfigs() tea.Cmd {
	return func() tea.Msg {
		configs, err := a.Client.DetectorConfigs(context.Background())
		return ConfigsLoadedMsg{Configs: configs, Err: err}
	}
}
