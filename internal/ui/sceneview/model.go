// Package sceneview rasterizes the 3D scene onto the terminal and drives
// the continuous render loop.
//
// The loop is one tea.Tick per display frame, rescheduled for as long as
// the view is mounted. A generation token is captured when the loop
// starts; frame messages carrying a stale token are dropped, so stopping
// the loop (mode switch, teardown) cannot leave a zombie ticker.
package sceneview

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/collidoscope/internal/diag"
	"github.com/abelbrown/collidoscope/internal/scene"
)

// frameInterval targets 30 frames per second.
const frameInterval = time.Second / 30

// FrameMsg is one render-loop tick. Gen is the loop generation that
// scheduled it; stale generations are ignored.
type FrameMsg struct {
	Gen int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58a6ff"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// cell is one rasterized character.
type cell struct {
	ch    rune
	color lipgloss.Color
}

// Model renders the scene into a character grid.
type Model struct {
	scene  *scene.Scene
	frames *diag.FrameRecorder

	width  int
	height int

	gen    int
	active bool
}

// New creates a scene view over the given scene.
func New(sc *scene.Scene) Model {
	return Model{
		scene:  sc,
		frames: diag.NewFrameRecorder(),
	}
}

// Start begins the render loop and returns the first frame command.
// Safe to call when already running; the generation bump orphans any
// outstanding frame message.
func (m *Model) Start() tea.Cmd {
	m.gen++
	m.active = true
	return m.frameCmd()
}

// Stop halts the render loop. Outstanding frame messages become stale.
func (m *Model) Stop() {
	m.active = false
	m.gen++
}

// Active reports whether the render loop is running.
func (m Model) Active() bool { return m.active }

// Generation returns the current loop token, for tests.
func (m Model) Generation() int { return m.gen }

func (m Model) frameCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return FrameMsg{Gen: gen}
	})
}

// Update advances the loop on frame messages. All other messages are
// ignored here; the root model routes keys itself.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	frame, ok := msg.(FrameMsg)
	if !ok {
		return m, nil
	}
	if !m.active || frame.Gen != m.gen {
		// Stale tick from a stopped loop.
		return m, nil
	}

	m.scene.Camera().Step()
	m.frames.Tick()
	return m, m.frameCmd()
}

// SetSize resizes the draw surface and the camera aspect ratio.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scene.Resize(width, height)
	diag.Record(diag.KindSceneResize, fmt.Sprintf("%dx%d", width, height))
}

// FPS returns the measured render-loop rate.
func (m Model) FPS() float64 { return m.frames.FPS() }

// HandleKey applies camera and visibility interaction for a key press.
// Returns true if the key was consumed.
func (m *Model) HandleKey(key string) bool {
	cam := m.scene.Camera()
	switch key {
	case "left":
		cam.Orbit(-0.04, 0)
	case "right":
		cam.Orbit(0.04, 0)
	case "up":
		cam.Orbit(0, -0.03)
	case "down":
		cam.Orbit(0, 0.03)
	case "+", "=":
		cam.Zoom(-0.8)
	case "-", "_":
		cam.Zoom(0.8)
	case "shift+left":
		cam.Pan(0.08, 0)
	case "shift+right":
		cam.Pan(-0.08, 0)
	case "shift+up":
		cam.Pan(0, -0.08)
	case "shift+down":
		cam.Pan(0, 0.08)
	case "0":
		cam.Reset()
	case "d":
		m.scene.ToggleDetector()
	default:
		return false
	}
	return true
}

// View rasterizes shells, tracks and markers through the camera.
func (m Model) View() string {
	if m.width < 4 || m.height < 4 {
		return ""
	}
	if m.scene.Disposed() {
		return ""
	}

	gridH := m.height - 2 // title + hint line
	if gridH < 2 {
		gridH = 2
	}
	grid := make([][]cell, gridH)
	for i := range grid {
		grid[i] = make([]cell, m.width)
	}

	// Shells first so tracks draw over them.
	for _, sh := range m.scene.Shells() {
		if !sh.Visible {
			continue
		}
		m.plotShell(grid, sh)
	}

	for _, tr := range m.scene.Tracks() {
		for _, p := range tr.Points {
			m.plot(grid, p, '·', tr.Color)
		}
	}
	for _, mk := range m.scene.Markers() {
		m.plot(grid, mk.Pos, '●', mk.Color)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteByte('\n')
	for _, row := range grid {
		b.WriteString(renderRow(row))
		b.WriteByte('\n')
	}
	b.WriteString(hintStyle.Render("  [arrows] orbit  [+/-] zoom  [shift+arrows] pan  [0] reset  [d] detector"))
	return b.String()
}

func (m Model) title() string {
	id := m.scene.EventID()
	if id == "" {
		return "  EVENT DISPLAY  ·  no event loaded"
	}
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("  EVENT DISPLAY  ·  event %s  ·  %d tracks", short, len(m.scene.Tracks()))
}

// plotShell draws the top and bottom rims plus silhouette edges of an
// open cylinder whose axis is the display vertical.
func (m Model) plotShell(grid [][]cell, sh *scene.Shell) {
	const rimSamples = 72
	half := sh.Length / 2

	for i := 0; i < rimSamples; i++ {
		a := 2 * math.Pi * float64(i) / rimSamples
		x := sh.Radius * math.Cos(a)
		z := sh.Radius * math.Sin(a)
		m.plot(grid, scene.Vec3{X: x, Y: half, Z: z}, '·', sh.Color)
		m.plot(grid, scene.Vec3{X: x, Y: -half, Z: z}, '·', sh.Color)
	}

	// Four vertical silhouette edges keep the cylinder readable when the
	// rims collapse at shallow viewing angles.
	const edgeSamples = 16
	for e := 0; e < 4; e++ {
		a := 2 * math.Pi * float64(e) / 4
		x := sh.Radius * math.Cos(a)
		z := sh.Radius * math.Sin(a)
		for j := 0; j <= edgeSamples; j++ {
			y := -half + sh.Length*float64(j)/edgeSamples
			m.plot(grid, scene.Vec3{X: x, Y: y, Z: z}, ':', sh.Color)
		}
	}
}

// plot projects one world point into the grid. Points outside the surface
// or behind the camera are discarded.
func (m Model) plot(grid [][]cell, p scene.Vec3, ch rune, color lipgloss.Color) {
	x, y, ok := m.scene.Camera().Project(p)
	if !ok {
		return
	}

	h := len(grid)
	w := m.width

	// NDC to cells. Cell aspect is already folded into the camera's
	// aspect ratio, so this is a plain linear map.
	col := int(math.Round((x + 1) / 2 * float64(w-1)))
	row := int(math.Round((1 - (y + 1)/2) * float64(h-1)))
	if col < 0 || col >= w || row < 0 || row >= h {
		return
	}

	// Markers win over tracks, tracks win over shells.
	if grid[row][col].ch == '●' && ch != '●' {
		return
	}
	grid[row][col] = cell{ch: ch, color: color}
}

func renderRow(row []cell) string {
	var b strings.Builder
	var run []rune
	var runColor lipgloss.Color

	flush := func() {
		if len(run) == 0 {
			return
		}
		b.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(string(run)))
		run = run[:0]
	}

	for _, c := range row {
		ch := c.ch
		if ch == 0 {
			ch = ' '
		}
		if c.color != runColor {
			flush()
			runColor = c.color
		}
		run = append(run, ch)
	}
	flush()
	return b.String()
}
