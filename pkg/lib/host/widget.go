package host

// widget drives a Bridge for hosts using the external UI widget protocol.
type widget struct {
	bridge *Bridge
}

func (w *widget) Run() {
	if w.bridge.Idle() {
		w.bridge.Hide()
	}
}

func (w *widget) Show() {
	// Spawn failures are logged by the controller and the widget has no
	// error channel.
	_ = w.bridge.Show()
}

func (w *widget) Hide() {
	w.bridge.Hide()
}
