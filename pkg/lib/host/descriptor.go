package host

import "fmt"

// URIPrefix is shared by all UI descriptors of the bridge.
const URIPrefix = "http://zynaddsubfx.sourceforge.net/ext_gui#"

// Extension URIs a host may query through Bridge.Extension.
const (
	ShowInterfaceURI = "http://lv2plug.in/ns/extensions/ui#showInterface"
	IdleInterfaceURI = "http://lv2plug.in/ns/extensions/ui#idleInterface"
)

// PortSymbol names the control port carrying the OSC port number.
const PortSymbol = "osc_port"

// Variant selects how the UI is embedded in the host.
type Variant int

const (
	// PlainUI is driven through the show and idle extension interfaces.
	PlainUI Variant = iota
	// EmbeddedUI is driven through an external UI widget and reports
	// unexpected closes to the host.
	EmbeddedUI
)

func (v Variant) String() string {
	switch v {
	case PlainUI:
		return "plain"
	case EmbeddedUI:
		return "embedded"
	default:
		return fmt.Sprintf("unknown(%d)", int(v))
	}
}

// Descriptor identifies one UI flavor offered to hosts.
type Descriptor struct {
	URI     string
	Variant Variant
}

var descriptors = [...]Descriptor{
	{URI: URIPrefix + "ui1_ui", Variant: PlainUI},
	{URI: URIPrefix + "ui2_kx", Variant: EmbeddedUI},
}

// DescriptorAt returns the descriptor at index, in the order hosts enumerate
// them.
func DescriptorAt(index uint32) (Descriptor, bool) {
	if index >= uint32(len(descriptors)) {
		return Descriptor{}, false
	}
	return descriptors[index], true
}

// LookupDescriptor finds the descriptor with the given URI.
func LookupDescriptor(uri string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.URI == uri {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Descriptors returns all descriptors.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptors[:]...)
}
