package main

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
)

// GRPCServer owns the listener and the gRPC server instance.
type GRPCServer struct {
	lis net.Listener
	s   *grpc.Server
}

// NewGRPCServer listens on cfg.Address and registers srv. Unless cfg.TLS is
// insecure, clients must present a certificate signed by the configured CA
// that carries a SPIFFE ID.
func NewGRPCServer(cfg Config, srv apiv1.BridgeServiceServer) (*GRPCServer, error) {
	var opts []grpc.ServerOption
	if !cfg.TLS.Insecure {
		creds, err := serverCredentials(cfg.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			grpc.Creds(creds),
			grpc.UnaryInterceptor(unaryAuth),
			grpc.StreamInterceptor(streamAuth),
		)
	}

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(opts...)
	apiv1.RegisterBridgeServiceServer(s, srv)

	return &GRPCServer{lis: lis, s: s}, nil
}

func serverCredentials(cfg TLSConfig) (credentials.TransportCredentials, error) {
	cert, err := tls.X509KeyPair([]byte(cfg.Cert), []byte(cfg.Key))
	if err != nil {
		return nil, fmt.Errorf("failed to load server key pair: %w", err)
	}

	caPool := x509.NewCertPool()
	if ok := caPool.AppendCertsFromPEM([]byte(cfg.CA)); !ok {
		return nil, errors.New("failed to append CA certificate to pool")
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		ClientCAs:    caPool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}), nil
}

// Serve blocks serving gRPC on the listener.
func (g *GRPCServer) Serve() error {
	return g.s.Serve(g.lis)
}

// Addr returns the network address the server is bound to.
func (g *GRPCServer) Addr() net.Addr { return g.lis.Addr() }

// Stop gracefully stops the gRPC server.
func (g *GRPCServer) Stop() { g.s.GracefulStop() }
