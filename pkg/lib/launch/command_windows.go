//go:build windows

package launch

// DefaultCommand starts the UI through the command interpreter so that PATH
// and PATHEXT resolution match what a user typing the name would get.
const DefaultCommand = "cmd /c zynaddsubfx-ext-gui"
