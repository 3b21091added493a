package main

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
)

// fakeBridge records calls made by the CLI.
type fakeBridge struct {
	apiv1.UnimplementedBridgeServiceServer

	mu      sync.Mutex
	port    uint32
	visible bool
	showErr error
	calls   []string
	stdout  []string
	stderr  []string
}

func (f *fakeBridge) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBridge) Configure(_ context.Context, in *wrapperspb.UInt32Value) (*emptypb.Empty, error) {
	f.record("configure")
	f.mu.Lock()
	f.port = in.GetValue()
	f.mu.Unlock()
	return &emptypb.Empty{}, nil
}

func (f *fakeBridge) Show(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	f.record("show")
	if f.showErr != nil {
		return nil, f.showErr
	}
	f.mu.Lock()
	f.visible = true
	f.mu.Unlock()
	return &emptypb.Empty{}, nil
}

func (f *fakeBridge) Hide(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	f.record("hide")
	f.mu.Lock()
	f.visible = false
	f.mu.Unlock()
	return &emptypb.Empty{}, nil
}

func (f *fakeBridge) Idle(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	f.record("idle")
	f.mu.Lock()
	defer f.mu.Unlock()
	return wrapperspb.Bool(!f.visible), nil
}

func (f *fakeBridge) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	f.record("status")
	f.mu.Lock()
	defer f.mu.Unlock()
	return structpb.NewStruct(map[string]any{
		"state": "visible",
		"port":  int(f.port),
		"last_exit": map[string]any{
			"code":     3,
			"signaled": false,
		},
	})
}

func (f *fakeBridge) GetOutput(in *wrapperspb.StringValue, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	f.record("logs:" + in.GetValue())
	chunks := f.stdout
	if in.GetValue() == apiv1.StreamStderr {
		chunks = f.stderr
	}
	for _, c := range chunks {
		if err := stream.Send(wrapperspb.Bytes([]byte(c))); err != nil {
			return err
		}
	}
	return nil
}

func startFake(t *testing.T, f *fakeBridge) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := grpc.NewServer()
	apiv1.RegisterBridgeServiceServer(s, f)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	return lis.Addr().String()
}

func runCLI(t *testing.T, addr string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--address", addr, "--insecure", "--retry", "1s"}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLI_ConfigureShowIdleHide(t *testing.T) {
	f := &fakeBridge{}
	addr := startFake(t, f)

	_, _, err := runCLI(t, addr, "configure", "9000")
	require.NoError(t, err)
	assert.Equal(t, uint32(9000), f.port)

	_, _, err = runCLI(t, addr, "show")
	require.NoError(t, err)

	out, _, err := runCLI(t, addr, "idle")
	require.NoError(t, err)
	assert.Equal(t, "open\n", out)

	_, _, err = runCLI(t, addr, "hide")
	require.NoError(t, err)

	out, _, err = runCLI(t, addr, "idle")
	require.NoError(t, err)
	assert.Equal(t, "closed\n", out)

	assert.Equal(t, []string{"configure", "show", "idle", "hide", "idle"}, f.calls)
}

func TestCLI_ConfigureRejectsBadPort(t *testing.T) {
	f := &fakeBridge{}
	addr := startFake(t, f)

	for _, arg := range []string{"65536", "-1", "port"} {
		_, _, err := runCLI(t, addr, "configure", arg)
		assert.Error(t, err, arg)
	}
	assert.Empty(t, f.calls)
}

func TestCLI_ShowFailureIsNotRetried(t *testing.T) {
	f := &fakeBridge{showErr: status.Error(codes.Aborted, "spawn failed")}
	addr := startFake(t, f)

	_, _, err := runCLI(t, addr, "show")
	assert.Equal(t, codes.Aborted, grpcCode(err))
	assert.Equal(t, []string{"show"}, f.calls)
}

func TestCLI_Status(t *testing.T) {
	f := &fakeBridge{port: 9000}
	addr := startFake(t, f)

	out, _, err := runCLI(t, addr, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "| state ")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "| port ")
	assert.Contains(t, out, "9000")
	assert.Contains(t, out, "last_exit.code")
}

func TestCLI_Logs(t *testing.T) {
	f := &fakeBridge{stdout: []string{"hello ", "world\n"}, stderr: []string{"oops\n"}}
	addr := startFake(t, f)

	out, _, err := runCLI(t, addr, "logs")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)

	out, errOut, err := runCLI(t, addr, "logs", "--stream", "stderr")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "oops\n", errOut)
}

func TestCLI_UnavailableDaemon(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	_, _, err = runCLI(t, addr, "status")
	assert.Equal(t, codes.Unavailable, grpcCode(err))
}

func TestCLI_RequiresTLSMaterial(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"--address", "127.0.0.1:1", "status"})
	root.SetOut(&bytes.Buffer{})
	err := root.Execute()
	assert.ErrorContains(t, err, "missing TLS material")
}
