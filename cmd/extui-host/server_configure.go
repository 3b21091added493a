package main

import (
	"context"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *BridgeServiceServer) Configure(ctx context.Context, request *wrapperspb.UInt32Value) (*emptypb.Empty, error) {
	port := request.GetValue()
	if port > math.MaxUint16 {
		return nil, status.Errorf(codes.InvalidArgument, "port %d out of range", port)
	}

	logger.Info("configuring osc port", "port", port, "caller", callerID(ctx))
	s.deliverPort(uint16(port))
	return &emptypb.Empty{}, nil
}
