package main

import (
	"log/slog"
	"sync"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
	"github.com/SanjoDeundiak/extui/pkg/lib/host"
)

var logger = slog.New(slog.DiscardHandler)

// oscPortIndex is the control port index the daemon announces for the OSC
// port. Configure requests are delivered as port events on it.
const oscPortIndex uint32 = 0

// BridgeServiceServer exposes one host.Bridge over gRPC. The bridge is not
// safe for concurrent use, so every call into it holds mu, the way a plugin
// host serializes its UI callbacks.
type BridgeServiceServer struct {
	apiv1.UnimplementedBridgeServiceServer

	mu     sync.Mutex
	bridge *host.Bridge
}

func NewBridgeServiceServer(bridge *host.Bridge) *BridgeServiceServer {
	return &BridgeServiceServer{bridge: bridge}
}

// deliverPort hands port to the bridge as a port event.
func (s *BridgeServiceServer) deliverPort(port uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridge.PortEvent(oscPortIndex, float32(port))
}

// tick performs one idle tick. Embedded UIs are driven through their widget
// like an external UI host would.
func (s *BridgeServiceServer) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w := s.bridge.Widget(); w != nil {
		w.Run()
		return
	}
	s.bridge.Idle()
}

// shutdown terminates the UI. The server must not be used afterwards.
func (s *BridgeServiceServer) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridge.Cleanup()
}
