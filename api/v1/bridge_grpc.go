// Package apiv1 describes the extui.v1.BridgeService gRPC API. Requests and
// responses are protobuf well-known types, so the service needs no generated
// message code.
package apiv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "extui.v1.BridgeService"

const (
	BridgeService_Configure_FullMethodName = "/extui.v1.BridgeService/Configure"
	BridgeService_Show_FullMethodName      = "/extui.v1.BridgeService/Show"
	BridgeService_Hide_FullMethodName      = "/extui.v1.BridgeService/Hide"
	BridgeService_Idle_FullMethodName      = "/extui.v1.BridgeService/Idle"
	BridgeService_Status_FullMethodName    = "/extui.v1.BridgeService/Status"
	BridgeService_GetOutput_FullMethodName = "/extui.v1.BridgeService/GetOutput"
)

// Output stream names accepted by GetOutput.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// BridgeServiceClient is the client API for BridgeService.
type BridgeServiceClient interface {
	// Configure delivers the OSC port.
	Configure(ctx context.Context, in *wrapperspb.UInt32Value, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Show starts the UI, or defers it until the port is configured.
	Show(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Hide stops the UI.
	Hide(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Idle runs one poll tick and reports whether the UI is closed.
	Idle(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	// Status describes the bridge and the UI process.
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	// GetOutput streams captured UI output for the named stream.
	GetOutput(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error)
}

type bridgeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBridgeServiceClient(cc grpc.ClientConnInterface) BridgeServiceClient {
	return &bridgeServiceClient{cc}
}

func (c *bridgeServiceClient) Configure(ctx context.Context, in *wrapperspb.UInt32Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, BridgeService_Configure_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) Show(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, BridgeService_Show_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) Hide(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, BridgeService_Hide_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) Idle(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, BridgeService_Idle_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, BridgeService_Status_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) GetOutput(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &BridgeService_ServiceDesc.Streams[0], BridgeService_GetOutput_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, wrapperspb.BytesValue]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// BridgeServiceServer is the server API for BridgeService.
// All implementations must embed UnimplementedBridgeServiceServer.
type BridgeServiceServer interface {
	Configure(context.Context, *wrapperspb.UInt32Value) (*emptypb.Empty, error)
	Show(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Hide(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Idle(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetOutput(*wrapperspb.StringValue, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error
	mustEmbedUnimplementedBridgeServiceServer()
}

// UnimplementedBridgeServiceServer must be embedded by value.
type UnimplementedBridgeServiceServer struct{}

func (UnimplementedBridgeServiceServer) Configure(context.Context, *wrapperspb.UInt32Value) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Configure not implemented")
}
func (UnimplementedBridgeServiceServer) Show(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Show not implemented")
}
func (UnimplementedBridgeServiceServer) Hide(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Hide not implemented")
}
func (UnimplementedBridgeServiceServer) Idle(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Idle not implemented")
}
func (UnimplementedBridgeServiceServer) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Status not implemented")
}
func (UnimplementedBridgeServiceServer) GetOutput(*wrapperspb.StringValue, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return status.Errorf(codes.Unimplemented, "method GetOutput not implemented")
}
func (UnimplementedBridgeServiceServer) mustEmbedUnimplementedBridgeServiceServer() {}

func RegisterBridgeServiceServer(s grpc.ServiceRegistrar, srv BridgeServiceServer) {
	s.RegisterService(&BridgeService_ServiceDesc, srv)
}

func _BridgeService_Configure_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServiceServer).Configure(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BridgeService_Configure_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServiceServer).Configure(ctx, req.(*wrapperspb.UInt32Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _BridgeService_Show_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServiceServer).Show(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BridgeService_Show_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServiceServer).Show(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _BridgeService_Hide_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServiceServer).Hide(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BridgeService_Hide_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServiceServer).Hide(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _BridgeService_Idle_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServiceServer).Idle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BridgeService_Idle_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServiceServer).Idle(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _BridgeService_Status_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServiceServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BridgeService_Status_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServiceServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _BridgeService_GetOutput_Handler(srv any, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BridgeServiceServer).GetOutput(m, &grpc.GenericServerStream[wrapperspb.StringValue, wrapperspb.BytesValue]{ServerStream: stream})
}

// BridgeService_ServiceDesc is the grpc.ServiceDesc for BridgeService.
var BridgeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Configure",
			Handler:    _BridgeService_Configure_Handler,
		},
		{
			MethodName: "Show",
			Handler:    _BridgeService_Show_Handler,
		},
		{
			MethodName: "Hide",
			Handler:    _BridgeService_Hide_Handler,
		},
		{
			MethodName: "Idle",
			Handler:    _BridgeService_Idle_Handler,
		},
		{
			MethodName: "Status",
			Handler:    _BridgeService_Status_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetOutput",
			Handler:       _BridgeService_GetOutput_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "extui/v1/bridge.proto",
}
