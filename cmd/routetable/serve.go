package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/dev"
	"github.com/vango-dev/routetable/internal/logging"
	"github.com/vango-dev/routetable/internal/manifest"
	"github.com/vango-dev/routetable/internal/metrics"
	"github.com/vango-dev/routetable/internal/server"
	"github.com/vango-dev/routetable/pkg/router"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port  int
		host  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP",
		Long: `Start the debug server for the route manifest.

The server answers /match, /routes and /interpolate against the live
table. With --watch the manifest is reloaded on every save and
subscribers of /__reload are notified; a manifest that fails to compile
leaves the previous table live.

Examples:
  routetable serve
  routetable serve --watch --port=8080
  routetable serve -m routes.yaml --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if watch {
				cfg.Watch.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from routetable.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from routetable.json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the manifest when it changes")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	regOpts := []router.RegistryOption{
		router.WithLogger(logger.Named("registry")),
		router.WithCompileOptions(cfg.CompileOptions()...),
	}

	var gatherer prometheus.Gatherer
	if cfg.Server.Metrics {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		regOpts = append(regOpts, router.WithObserver(metrics.New(metrics.WithRegistry(promReg))))
		gatherer = promReg
	}

	registry := router.NewRegistry(regOpts...)
	notifier := dev.NewReloadServer(logger.Named("reload"))
	source := manifest.FromConfig(cfg, nil)
	reloader := dev.NewReloader(source, registry, notifier, logger.Named("manifest"))

	if err := reloader.Reload(ctx); err != nil {
		logger.Warn("initial manifest load failed; serving without a table",
			zap.String("source", source.String()),
		)
	}

	if cfg.Watch.Enabled {
		if cfg.Manifest.S3 != nil {
			logger.Warn("watch ignored for S3 manifests; use POST /reload")
		} else {
			w, err := dev.NewWatcher(cfg.ManifestPath(),
				func() { _ = reloader.Reload(ctx) },
				dev.WithDebounce(cfg.DebounceDuration()),
				dev.WithWatchLogger(logger.Named("watch")),
			)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()
		}
	}

	srv := server.New(server.Options{
		Registry: registry,
		Reloader: reloader,
		Notifier: notifier,
		Gatherer: gatherer,
		Logger:   logger.Named("http"),
	})
	return srv.ListenAndServe(ctx, cfg.Address())
}
