package main

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/SanjoDeundiak/extui/pkg/lib/host"
)

func (s *BridgeServiceServer) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.mu.Lock()
	st := s.bridge.Status()
	s.mu.Unlock()

	resp, err := structpb.NewStruct(statusFields(st))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error encoding status: %v", err)
	}
	return resp, nil
}

func statusFields(st host.Status) map[string]any {
	fields := map[string]any{
		"descriptor":   st.Descriptor,
		"variant":      st.Variant.String(),
		"state":        st.State.String(),
		"show_pending": st.ShowPending,
	}
	if st.PortConfigured {
		fields["port"] = int(st.Port)
	}
	if st.PID > 0 {
		fields["pid"] = st.PID
		fields["rss_bytes"] = float64(st.RSS)
		fields["cpu_percent"] = st.CPUPercent
	}
	if exit := st.LastExit; exit != nil {
		last := map[string]any{
			"id":       exit.ID,
			"pid":      exit.PID,
			"code":     exit.Code,
			"signaled": exit.Signaled,
			"at":       exit.At.UTC().Format(time.RFC3339Nano),
		}
		if exit.Signal != "" {
			last["signal"] = exit.Signal
		}
		fields["last_exit"] = last
	}
	return fields
}
