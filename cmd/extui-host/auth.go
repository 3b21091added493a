package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type callerKey struct{}

const anonymousCaller = "anonymous"

func withCaller(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// callerID names the client for log lines, or "anonymous" on insecure
// listeners.
func callerID(ctx context.Context) string {
	if id, ok := ctx.Value(callerKey{}).(string); ok {
		return id
	}
	return anonymousCaller
}

// peerSPIFFEID returns the trust domain of the first SPIFFE URI SAN in the
// client's leaf certificate, e.g. spiffe://client1 -> "client1".
func peerSPIFFEID(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(callerKey{}).(string); ok {
		return id, true
	}

	p, ok := peer.FromContext(ctx)
	if !ok || p == nil {
		return "", false
	}
	tlsInfo, ok := p.AuthInfo.(credentials.TLSInfo)
	if !ok {
		return "", false
	}
	certs := tlsInfo.State.PeerCertificates
	if len(certs) == 0 || certs[0] == nil {
		return "", false
	}
	for _, uri := range certs[0].URIs {
		if uri != nil && uri.Scheme == "spiffe" && uri.Host != "" {
			return uri.Host, true
		}
	}
	return "", false
}

// authenticate resolves the caller of method and returns a context carrying
// its ID. Callers without a SPIFFE ID are rejected.
func authenticate(ctx context.Context, method string) (context.Context, error) {
	id, ok := peerSPIFFEID(ctx)
	if !ok {
		logger.Warn("rejecting call without SPIFFE ID", "method", method)
		return nil, status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}
	logger.Debug("rpc", "method", method, "caller", id)
	return withCaller(ctx, id), nil
}

func unaryAuth(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authedStream) Context() context.Context { return s.ctx }

func streamAuth(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
}
