package main

import (
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

func (s *BridgeServiceServer) GetOutput(request *wrapperspb.StringValue, streaming grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	var stream runner.Stream
	switch request.GetValue() {
	case apiv1.StreamStdout, "":
		stream = runner.StreamStdout
	case apiv1.StreamStderr:
		stream = runner.StreamStderr
	default:
		return status.Errorf(codes.InvalidArgument, "unknown output stream %q", request.GetValue())
	}

	ctx := streaming.Context()

	s.mu.Lock()
	chunks, err := s.bridge.Output(ctx, stream)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, runner.ErrNoOutput) {
			return status.Error(codes.NotFound, "no ui output captured")
		}
		return status.Errorf(codes.Internal, "error subscribing to output: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-chunks:
			if !ok {
				return nil
			}
			if err := streaming.Send(wrapperspb.Bytes(chunk)); err != nil {
				return err
			}
		}
	}
}
