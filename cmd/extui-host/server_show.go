package main

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/SanjoDeundiak/extui/pkg/lib/lifecycle"
)

func (s *BridgeServiceServer) Show(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	logger.Info("showing ui", "caller", callerID(ctx))

	s.mu.Lock()
	err := s.bridge.Show()
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, lifecycle.ErrDestroyed) {
			return nil, status.Error(codes.FailedPrecondition, "ui already torn down")
		}
		return nil, status.Errorf(codes.Aborted, "error starting ui: %s", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *BridgeServiceServer) Hide(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	logger.Info("hiding ui", "caller", callerID(ctx))

	s.mu.Lock()
	s.bridge.Hide()
	s.mu.Unlock()

	return &emptypb.Empty{}, nil
}
