package ui

// Messages owned by the root model. Store commits use the message types in
// internal/state; the scene view's frame tick lives in sceneview.

// CacheSavedMsg reports a background cache write. Failures only log; the
// cache is best effort.
type CacheSavedMsg struct {
	Count int
	Err   error
}
