package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/searchkit/config"
	"github.com/ncobase/searchkit/data/metrics"
	"github.com/ncobase/searchkit/logging/logger"
	"github.com/ncobase/searchkit/logging/observes"
	"github.com/ncobase/searchkit/net/handler"
	"github.com/ncobase/searchkit/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Address()
			}
			srv, shutdown, err := newServer(cmd.Context(), a.rt, addr)
			if err != nil {
				return err
			}
			defer shutdown()
			return run(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to server.host:server.port")
	return cmd
}

// newServer wires the backend, metrics and tracing into an http.Server.
func newServer(ctx context.Context, rt *runtime, addr string) (*http.Server, func(), error) {
	cfg, backend := rt.cfg, rt.backend

	var opts []handler.Option
	if m := cfg.Data.Metrics; m != nil && m.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		pc, err := metrics.NewPrometheusCollector(m.Namespace, reg)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, handler.WithCollector(pc), handler.WithGatherer(reg, m.Path))
	}

	var (
		stopTracer func(context.Context) error
		err        error
	)
	if t := cfg.Observes.Tracer; t != nil && t.Endpoint != "" {
		stopTracer, err = observes.NewTracer(ctx, &observes.TracerOption{
			Endpoint:           t.Endpoint,
			Name:               t.ServiceName,
			Version:            firstNonEmpty(t.ServiceVersion, version.GetVersionInfo().Version),
			Environment:        t.Environment,
			SamplingRate:       t.SamplingRate,
			BatchTimeout:       t.BatchTimeout,
			ExportTimeout:      t.ExportTimeout,
			MaxExportBatchSize: t.MaxExportBatchSize,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	setGinMode(cfg.Environment)
	config.Watch(func(c *config.Config) {
		rt.log.SetLevel(logrus.Level(c.Logger.Level))
		logger.Infof(context.Background(), "configuration reloaded, log level %d", c.Logger.Level)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.New(backend, cfg.Data.Search, opts...).Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := func() {
		if stopTracer == nil {
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stopTracer(sctx); err != nil {
			logger.Warnf(sctx, "failed to stop tracer: %v", err)
		}
	}
	return srv, shutdown, nil
}

// run serves until ctx is done, then drains in-flight requests.
func run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "searchkit listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info(sctx, "shutting down")
	return srv.Shutdown(sctx)
}

func setGinMode(env string) {
	switch env {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(env)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
