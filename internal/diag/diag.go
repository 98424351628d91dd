// Package diag provides in-memory diagnostics for the debug overlay.
//
// Events land in a fixed-size ring buffer; the overlay snapshots it on
// demand. A frame recorder aggregates render-loop timing into an FPS
// figure without keeping one event per frame.
package diag

import "time"

// EventKind identifies the category of a diagnostic event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"

	KindSceneBuild  EventKind = "scene.build"
	KindSceneEvent  EventKind = "scene.event"
	KindSceneResize EventKind = "scene.resize"

	KindChartBuild   EventKind = "chart.build"
	KindChartDispose EventKind = "chart.dispose"

	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
)

// Event is one diagnostic record.
type Event struct {
	Time time.Time
	Kind EventKind
	Msg  string
	Err  string
}

// Record pushes an event onto the default ring, stamping the time.
func Record(kind EventKind, msg string) {
	Default.Push(Event{Time: time.Now(), Kind: kind, Msg: msg})
}

// RecordError pushes an error event onto the default ring.
func RecordError(kind EventKind, msg string, err error) {
	e := Event{Time: time.Now(), Kind: kind, Msg: msg}
	if err != nil {
		e.Err = err.Error()
	}
	Default.Push(e)
}

// Default is the process-wide ring used by the debug overlay.
var Default = NewRing(DefaultRingSize)
