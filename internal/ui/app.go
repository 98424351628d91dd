// Package ui is the root Bubble Tea model: mode switching, key routing,
// store commits and the error banner.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/collidoscope/internal/api"
	"github.com/abelbrown/collidoscope/internal/cache"
	"github.com/abelbrown/collidoscope/internal/diag"
	"github.com/abelbrown/collidoscope/internal/logging"
	"github.com/abelbrown/collidoscope/internal/scene"
	"github.com/abelbrown/collidoscope/internal/state"
	"github.com/abelbrown/collidoscope/internal/ui/analyticsview"
	"github.com/abelbrown/collidoscope/internal/ui/eventsview"
	"github.com/abelbrown/collidoscope/internal/ui/sceneview"
	"github.com/abelbrown/collidoscope/internal/ui/statsview"
)

// View mode
type viewMode int

const (
	modeScene viewMode = iota
	modeEvents
	modeAnalytics
	modeStats
)

var modeNames = []string{"Display", "Events", "Analytics", "Stats"}

// eventPageSize is the page requested for the event list.
const eventPageSize = 25

// App is the root Bubble Tea model.
type App struct {
	st      state.UIState
	actions state.Actions
	cache   *cache.Cache // nil when caching is disabled

	sc            *scene.Scene
	sceneView     sceneview.Model
	eventsView    eventsview.Model
	analyticsView analyticsview.Model
	statsView     statsview.Model
	spin          spinner.Model

	mode      viewMode
	width     int
	height    int
	showDebug bool

	// first frame command, captured when the loop starts in New
	initialFrame tea.Cmd
}

// New creates the root model. evCache may be nil.
func New(actions state.Actions, evCache *cache.Cache) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))

	sc := scene.New()
	// Default shells immediately so the display isn't empty while the
	// config fetch is in flight; the real config rebuilds them.
	sc.BuildDetector(nil)

	sv := sceneview.New(sc)
	frame := sv.Start()

	return App{
		st:            state.UIState{Loading: true},
		actions:       actions,
		cache:         evCache,
		sc:            sc,
		sceneView:     sv,
		eventsView:    eventsview.New(),
		analyticsView: analyticsview.New(),
		statsView:     statsview.New(),
		spin:          s,
		mode:          modeScene,
		initialFrame:  frame,
	}
}

// Init starts the render loop and fires the initial fetches.
func (a App) Init() tea.Cmd {
	diag.Record(diag.KindStartup, "app init")

	cmds := []tea.Cmd{
		a.initialFrame,
		a.spin.Tick,
		a.actions.FetchDetectorConfigs(),
		a.actions.FetchEvents(1, eventPageSize),
		a.actions.FetchStatistics(),
		a.actions.LoadLatestEvent(),
	}
	if a.cache != nil {
		cmds = append(cmds, a.loadCached())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyH := msg.Height - 3 // header + banner + status
		a.sceneView.SetSize(msg.Width, bodyH)
		a.eventsView.SetSize(msg.Width, bodyH)
		a.analyticsView.SetSize(msg.Width, bodyH)
		return a, nil

	case sceneview.FrameMsg:
		var cmd tea.Cmd
		a.sceneView, cmd = a.sceneView.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		if !a.st.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case state.EventLoadedMsg:
		a.st = state.Reduce(a.st, msg)
		if msg.Err != nil {
			diag.RecordError(diag.KindFetchError, "event", msg.Err)
		} else if msg.Detail != nil {
			a.sc.RenderEvent(&msg.Detail.Event)
			diag.Record(diag.KindSceneEvent, msg.Detail.Event.EventID)
		}
		return a, a.spinCmd()

	case state.EventsLoadedMsg:
		a.st = state.Reduce(a.st, msg)
		if msg.Err != nil {
			diag.RecordError(diag.KindFetchError, "events", msg.Err)
			return a, a.spinCmd()
		}
		a.eventsView.SetEvents(a.st.Events)
		diag.Record(diag.KindFetchComplete, fmt.Sprintf("events page (%d)", len(a.st.Events)))
		if a.cache != nil && len(a.st.Events) > 0 {
			return a, tea.Batch(a.saveCached(a.st.Events), a.spinCmd())
		}
		return a, a.spinCmd()

	case state.ConfigsLoadedMsg:
		a.st = state.Reduce(a.st, msg)
		if msg.Err != nil {
			diag.RecordError(diag.KindFetchError, "configs", msg.Err)
		} else {
			// nil config builds the compiled-in default geometry
			a.sc.BuildDetector(a.st.DetectorConfig)
			diag.Record(diag.KindSceneBuild, configName(a.st.DetectorConfig))
		}
		return a, a.spinCmd()

	case state.HistogramLoadedMsg:
		a.st = state.Reduce(a.st, msg)
		if msg.Err != nil {
			diag.RecordError(diag.KindFetchError, "histogram", msg.Err)
		} else {
			a.analyticsView.SetHistogram(msg.Result)
		}
		return a, a.spinCmd()

	case state.StatisticsLoadedMsg:
		a.st = state.Reduce(a.st, msg)
		if msg.Err != nil {
			diag.RecordError(diag.KindFetchError, "statistics", msg.Err)
		} else {
			a.statsView.SetStatistics(a.st.Statistics)
		}
		return a, a.spinCmd()

	case state.GenerateDoneMsg:
		a.st = state.Reduce(a.st, msg)
		if msg.Err != nil {
			diag.RecordError(diag.KindFetchError, "generate", msg.Err)
			return a, a.spinCmd()
		}
		// New events exist server-side; refresh the list.
		return a.dispatch("events", a.actions.FetchEvents(1, eventPageSize))

	case state.CachedEventsMsg:
		a.st = state.Reduce(a.st, msg)
		a.eventsView.SetEvents(a.st.Events)
		return a, nil

	case CacheSavedMsg:
		if msg.Err != nil {
			logging.Warn("cache save failed", "error", msg.Err)
		}
		return a, nil
	}

	return a, nil
}

// dispatch commits the action start (loading on, stale error cleared)
// before running the fetch command.
func (a App) dispatch(action string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	a.st = state.Reduce(a.st, state.ActionStartedMsg{Action: action})
	diag.Record(diag.KindFetchStart, action)
	return a, tea.Batch(cmd, a.spin.Tick)
}

// spinCmd keeps the spinner ticking while something is still loading.
func (a App) spinCmd() tea.Cmd {
	if a.st.Loading {
		return a.spin.Tick
	}
	return nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return a.teardown()

	case "tab":
		return a.switchMode((a.mode + 1) % 4)
	case "1":
		return a.switchMode(modeScene)
	case "2":
		return a.switchMode(modeEvents)
	case "3":
		return a.switchMode(modeAnalytics)
	case "4":
		return a.switchMode(modeStats)

	case "~":
		a.showDebug = !a.showDebug
		return a, nil

	case "esc":
		a.st = state.DismissError(a.st)
		return a, nil

	case "r":
		return a.refresh()

	case "g":
		return a.dispatch("generate", a.actions.Generate("dilepton", 10))
	case "G":
		return a.dispatch("generate", a.actions.Generate("qcd", 10))

	case "l":
		return a.dispatch("latest", a.actions.LoadLatestEvent())
	}

	// Mode-specific keys.
	switch a.mode {
	case modeScene:
		if a.sceneView.HandleKey(key) {
			return a, nil
		}

	case modeEvents:
		if key == "enter" {
			if id := a.eventsView.SelectedID(); id != "" {
				return a.dispatch("event", a.actions.FetchEvent(id))
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.eventsView, cmd = a.eventsView.Update(msg)
		return a, cmd

	case modeAnalytics:
		switch key {
		case "v":
			a.analyticsView.CycleVariable()
			return a, nil
		case "enter":
			return a.dispatch("histogram",
				a.actions.FetchHistogram(a.analyticsView.Variable(), analyticsview.DefaultBins, nil, nil))
		}
	}

	return a, nil
}

// switchMode pauses the render loop when the scene is hidden and resumes
// it when the scene comes back.
func (a App) switchMode(m viewMode) (tea.Model, tea.Cmd) {
	if m == a.mode {
		return a, nil
	}

	var cmd tea.Cmd
	if a.mode == modeScene {
		a.sceneView.Stop()
	}
	a.mode = m
	if m == modeScene {
		cmd = a.sceneView.Start()
	}
	return a, cmd
}

// refresh re-fetches the data behind the current panel. Panels fail
// independently; a statistics error never blocks the event display.
func (a App) refresh() (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeScene:
		return a.dispatch("latest", a.actions.LoadLatestEvent())
	case modeEvents:
		return a.dispatch("events", a.actions.FetchEvents(1, eventPageSize))
	case modeAnalytics:
		return a.dispatch("histogram",
			a.actions.FetchHistogram(a.analyticsView.Variable(), analyticsview.DefaultBins, nil, nil))
	case modeStats:
		return a.dispatch("statistics", a.actions.FetchStatistics())
	}
	return a, nil
}

// teardown releases scene resources on the way out. In-flight requests
// are not cancelled; their responses land after the program exits and are
// ignored by the disposed scene.
func (a App) teardown() (tea.Model, tea.Cmd) {
	a.sceneView.Stop()
	a.sc.Dispose()
	diag.Record(diag.KindShutdown, "quit")
	return a, tea.Quit
}

func (a App) loadCached() tea.Cmd {
	c := a.cache
	return func() tea.Msg {
		events, err := c.Recent(eventPageSize)
		if err != nil {
			logging.Warn("cache read failed", "error", err)
			return state.CachedEventsMsg{}
		}
		return state.CachedEventsMsg{Events: events}
	}
}

func (a App) saveCached(events []api.EventDetail) tea.Cmd {
	c := a.cache
	return func() tea.Msg {
		err := c.SaveEvents(events)
		return CacheSavedMsg{Count: len(events), Err: err}
	}
}

// View renders the UI.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	var sections []string

	headerText := fmt.Sprintf("  COLLIDOSCOPE  ·  %d events", a.st.TotalEvents)
	if a.st.DetectorConfig != nil {
		headerText += "  ·  " + a.st.DetectorConfig.Name
	}
	if a.st.Loading {
		headerText += "  ·  " + a.spin.View()
	}
	headerText += "   " + a.renderTabs()
	sections = append(sections, Header.Width(a.width).Render(headerText))

	// Error banner: persistent until dismissed, panels keep working.
	if a.st.Error != "" {
		sections = append(sections, ErrorBanner.Width(a.width).Render("  "+a.st.Error+"  [esc] dismiss"))
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, a.renderBody())
	sections = append(sections, StatusBar.Width(a.width).Render(a.statusText()))

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if a.showDebug {
		out = lipgloss.JoinVertical(lipgloss.Left, out,
			debugOverlay(diag.Default, a.sceneView.FPS(), a.width))
	}
	return out
}

func (a App) renderTabs() string {
	var tabs []string
	for i, name := range modeNames {
		if viewMode(i) == a.mode {
			tabs = append(tabs, TabActive.Render(fmt.Sprintf("[%d]%s", i+1, name)))
		} else {
			tabs = append(tabs, TabInactive.Render(fmt.Sprintf(" %d %s", i+1, name)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a App) renderBody() string {
	switch a.mode {
	case modeEvents:
		return a.eventsView.View()
	case modeAnalytics:
		return a.analyticsView.View()
	case modeStats:
		return a.statsView.View()
	default:
		return a.sceneView.View()
	}
}

func (a App) statusText() string {
	return "  [tab] panels  [r] refresh  [g/G] generate dilepton/qcd  [l] latest event  [~] debug  [q] quit"
}

func configName(cfg *api.DetectorConfig) string {
	if cfg == nil {
		return "default"
	}
	return cfg.Name
}
