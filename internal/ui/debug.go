package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/collidoscope/internal/diag"
)

// debugOverlay renders the diagnostics panel: render-loop rate, fetch
// counters and the most recent events. Pure function with no side effects.
func debugOverlay(ring *diag.Ring, fps float64, width int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(10)

	var lines []string
	lines = append(lines, DebugHeader.Render("Diagnostics"))
	lines = append(lines, fmt.Sprintf("  Render:   %.1f fps", fps))
	lines = append(lines, fmt.Sprintf("  Fetches:  %d started, %d complete, %d errors",
		stats[diag.KindFetchStart], stats[diag.KindFetchComplete], stats[diag.KindFetchError]))
	lines = append(lines, fmt.Sprintf("  Scene:    %d builds, %d events, %d resizes",
		stats[diag.KindSceneBuild], stats[diag.KindSceneEvent], stats[diag.KindSceneResize]))
	lines = append(lines, fmt.Sprintf("  Charts:   %d built, %d disposed",
		stats[diag.KindChartBuild], stats[diag.KindChartDispose]))
	lines = append(lines, fmt.Sprintf("  Buffer:   %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeader.Render("Recent"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-16s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Msg != "" {
			line += "  " + truncate(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncate(e.Err, 30)
		}
		lines = append(lines, line)
	}

	return DebugPanel.Width(width - 4).Render(strings.Join(lines, "\n"))
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
