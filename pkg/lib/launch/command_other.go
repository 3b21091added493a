//go:build !windows

package launch

// DefaultCommand is the external UI program, looked up on PATH.
const DefaultCommand = "zynaddsubfx-ext-gui"
