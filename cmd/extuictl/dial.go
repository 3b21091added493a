package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const defaultAddress = "localhost:50051"

func dial(v *viper.Viper) (*grpc.ClientConn, error) {
	addr := v.GetString("address")
	if strings.TrimSpace(addr) == "" {
		addr = defaultAddress
	}

	creds, err := transportCredentials(v)
	if err != nil {
		return nil, err
	}
	return grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
}

func transportCredentials(v *viper.Viper) (credentials.TransportCredentials, error) {
	if v.GetBool("tls.insecure") {
		return insecure.NewCredentials(), nil
	}

	keyPEM := v.GetString("tls.key")
	certPEM := v.GetString("tls.cert")
	caPEM := v.GetString("tls.ca")
	if strings.TrimSpace(keyPEM) == "" || strings.TrimSpace(certPEM) == "" || strings.TrimSpace(caPEM) == "" {
		return nil, errors.New("missing TLS material; require EXTUI_TLS_KEY, EXTUI_TLS_CERT, EXTUI_TLS_CA or --insecure")
	}

	cert, err := tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse TLS cert/key: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(caPEM)) {
		return nil, errors.New("failed to parse CA cert")
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS13,
	}), nil
}

// retry repeats call with exponential backoff while the daemon is
// unavailable, e.g. still starting. Other errors are returned at once.
func retry(ctx context.Context, maxElapsed time.Duration, call func(context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxElapsedTime = maxElapsed

	return backoff.Retry(func() error {
		err := call(ctx)
		if err != nil && grpcCode(err) != codes.Unavailable {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

func grpcCode(err error) codes.Code {
	st, ok := status.FromError(err)
	if !ok {
		return codes.Unknown
	}
	return st.Code()
}
