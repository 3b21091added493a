//go:build unix

package main

import (
	"context"
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
	"github.com/SanjoDeundiak/extui/pkg/lib/host"
)

type testPKI struct {
	ca, fakeCA *testCA
	server     keyPair
	fakeServer keyPair
}

func newTestPKI(t *testing.T) *testPKI {
	t.Helper()
	ca := newTestCA(t, "extui test ca")
	fakeCA := newTestCA(t, "fake ca")
	return &testPKI{
		ca:         ca,
		fakeCA:     fakeCA,
		server:     ca.issue(t, "server", true, ""),
		fakeServer: fakeCA.issue(t, "server", true, ""),
	}
}

func startTLS(t *testing.T, pki *testPKI, useFakeCert bool) string {
	t.Helper()

	kp := pki.server
	if useFakeCert {
		kp = pki.fakeServer
	}
	cfg := Config{
		Address: "127.0.0.1:0",
		TLS:     TLSConfig{Key: kp.keyPEM, Cert: kp.certPEM, CA: pki.ca.certPEM},
	}

	g, err := NewGRPCServer(cfg, newTestServer(t, "true", host.PlainUI))
	require.NoError(t, err)
	go func() { _ = g.Serve() }()
	t.Cleanup(g.Stop)

	return g.Addr().String()
}

// probe performs one RPC and returns its error.
func probe(t *testing.T, addr string, creds credentials.TransportCredentials) error {
	t.Helper()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = apiv1.NewBridgeServiceClient(conn).Idle(ctx, empty)
	return err
}

func clientCreds(t *testing.T, pki *testPKI, client *keyPair) credentials.TransportCredentials {
	t.Helper()
	cfg := &tls.Config{
		RootCAs:    pki.ca.pool(t),
		ServerName: "localhost",
		MinVersion: tls.VersionTLS13,
	}
	if client != nil {
		cfg.Certificates = []tls.Certificate{client.tlsCertificate(t)}
	}
	return credentials.NewTLS(cfg)
}

func TestServerApp_ServerExpectsTls(t *testing.T) {
	pki := newTestPKI(t)
	addr := startTLS(t, pki, false)

	assert.Error(t, probe(t, addr, insecure.NewCredentials()))
}

func TestServerApp_ServerExpectsClientCert(t *testing.T) {
	pki := newTestPKI(t)
	addr := startTLS(t, pki, false)

	assert.Error(t, probe(t, addr, clientCreds(t, pki, nil)))
}

func TestServerApp_ServerExpectCorrectClientCa(t *testing.T) {
	pki := newTestPKI(t)
	addr := startTLS(t, pki, false)

	fake := pki.fakeCA.issue(t, "client_fake", false, "spiffe://client1")
	assert.Error(t, probe(t, addr, clientCreds(t, pki, &fake)))
}

func TestServerApp_ClientExpectsCorrectServerCa(t *testing.T) {
	pki := newTestPKI(t)
	addr := startTLS(t, pki, true)

	client := pki.ca.issue(t, "client1", false, "spiffe://client1")
	assert.Error(t, probe(t, addr, clientCreds(t, pki, &client)))
}

func TestServerApp_ClientNeedsSpiffeId(t *testing.T) {
	pki := newTestPKI(t)
	addr := startTLS(t, pki, false)

	client := pki.ca.issue(t, "anonymous", false, "")
	err := probe(t, addr, clientCreds(t, pki, &client))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServerApp_CorrectConfigSucceeds(t *testing.T) {
	pki := newTestPKI(t)
	addr := startTLS(t, pki, false)

	client := pki.ca.issue(t, "client1", false, "spiffe://client1")
	assert.NoError(t, probe(t, addr, clientCreds(t, pki, &client)))
}
