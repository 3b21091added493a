package main

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *BridgeServiceServer) Idle(_ context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	s.mu.Lock()
	closed := s.bridge.Idle()
	s.mu.Unlock()

	return wrapperspb.Bool(closed), nil
}

// runIdleLoop ticks the bridge every interval until ctx is done.
func (s *BridgeServiceServer) runIdleLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}
