package main

import (
	"context"
	"fmt"
	"time"

	"github.com/SanjoDeundiak/extui/pkg/lib/host"
	"github.com/SanjoDeundiak/extui/pkg/lib/metrics"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

const shutdownTimeout = 5 * time.Second

// uiClosedLogger is the external UI host side of the embedded variant.
type uiClosedLogger struct{}

func (uiClosedLogger) UIClosed() {
	logger.Info("external ui closed on its own")
}

type daemon struct {
	cfg     Config
	srv     *BridgeServiceServer
	grpc    *GRPCServer
	metrics *metricsServer
}

// newDaemon instantiates the bridge and binds the listeners.
func newDaemon(cfg Config) (*daemon, error) {
	desc, ok := host.LookupDescriptor(cfg.UI.Descriptor)
	if !ok {
		return nil, fmt.Errorf("unknown ui descriptor %q", cfg.UI.Descriptor)
	}
	backend, err := runner.ParseBackend(cfg.UI.Backend)
	if err != nil {
		return nil, err
	}

	var mc metrics.Collector = metrics.NewNoop()
	var prom *metrics.Prometheus
	if cfg.MetricsAddress != "" {
		prom = metrics.NewPrometheus("")
		mc = prom
	}

	bridge, err := host.Instantiate(desc, host.Features{
		PortMap:      host.StaticPortMap(oscPortIndex),
		ExternalHost: uiClosedLogger{},
		Logger:       logger,
	},
		host.WithCommand(cfg.UI.Command),
		host.WithBackend(backend),
		host.WithTerminateTimeout(cfg.UI.TerminateTimeout),
		host.WithMetrics(mc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate ui: %w", err)
	}

	d := &daemon{cfg: cfg, srv: NewBridgeServiceServer(bridge)}
	if port, ok := cfg.oscPort(); ok {
		d.srv.deliverPort(port)
	}

	d.grpc, err = NewGRPCServer(cfg, d.srv)
	if err != nil {
		d.srv.shutdown()
		return nil, err
	}

	if prom != nil {
		d.metrics, err = newMetricsServer(cfg.MetricsAddress, prom.Registry())
		if err != nil {
			d.grpc.Stop()
			d.srv.shutdown()
			return nil, fmt.Errorf("failed to listen for metrics: %w", err)
		}
	}
	return d, nil
}

// run serves until ctx is done or the gRPC server fails. The UI is
// terminated before returning.
func (d *daemon) run(ctx context.Context) error {
	idleCtx, stopIdle := context.WithCancel(ctx)
	defer stopIdle()
	go d.srv.runIdleLoop(idleCtx, d.cfg.UI.IdleInterval)

	if d.metrics != nil {
		go d.metrics.serve()
		logger.Info("metrics listening", "addr", d.metrics.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- d.grpc.Serve() }()
	logger.Info("server listening", "addr", d.grpc.Addr().String(), "tls", !d.cfg.TLS.Insecure)

	var err error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
		err = fmt.Errorf("failed to serve: %w", err)
	}

	stopIdle()
	// Terminating the UI first ends output streams so the graceful stop
	// does not wait on them.
	d.srv.shutdown()
	d.grpc.Stop()
	if d.metrics != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		d.metrics.shutdown(sctx)
	}
	return err
}
