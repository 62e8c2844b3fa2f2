package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/arloliu/elector"
	"github.com/arloliu/elector/announce"
	"github.com/arloliu/elector/internal/logging"
)

type runOptions struct {
	configPath string
	servers    []string
	path       string
	backend    string
	httpAddr   string
	logLevel   string
	logFormat  string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Joins an election and logs every leadership transition until interrupted",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	f.StringSliceVar(&opts.servers, "servers", nil, "Coordination service endpoints (overrides config)")
	f.StringVar(&opts.path, "path", "", "Election path (overrides config)")
	f.StringVar(&opts.backend, "backend", "", "Backend: zookeeper or etcd (overrides config)")
	f.StringVar(&opts.httpAddr, "http", "", "Serve /status and /metrics on this address, e.g. :8080")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "console", "Log encoding: console or json")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validates a configuration file and prints warnings",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := elector.LoadConfig(configPath)
			if err != nil {
				return err
			}

			logger, err := logging.NewZap("warn", "console")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg.ValidateWithWarnings(logger)
			fmt.Fprintln(c.OutOrStdout(), "ok")

			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(opts *runOptions) (elector.Config, error) {
	cfg := elector.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := elector.LoadConfig(opts.configPath)
		if err != nil {
			return elector.Config{}, err
		}
		cfg = *loaded
	}

	if len(opts.servers) > 0 {
		cfg.Servers = opts.servers
	}
	if opts.path != "" {
		cfg.ElectionPath = opts.path
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}

	elector.SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return elector.Config{}, err
	}

	return cfg, nil
}

func run(ctx context.Context, opts *runOptions) error {
	logger, err := logging.NewZap(opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	conn, err := elector.ConnectionFromConfig(&cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	sessionOpts := []elector.Option{
		elector.WithLogger(logger),
		elector.WithMetrics(elector.NewPrometheusMetrics(registry, "elector")),
		elector.WithHooks(transitionHooks(logger)),
	}

	if cfg.Announce.Enabled {
		nc, err := nats.Connect(cfg.Announce.NATSURL, nats.Name("elector"), nats.MaxReconnects(-1))
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer nc.Close()

		announcer, err := announce.New(ctx, nc, announce.Config{
			Subject:   cfg.Announce.Subject,
			Bucket:    cfg.Announce.Bucket,
			BucketTTL: cfg.Announce.BucketTTL,
		}, logger)
		if err != nil {
			return err
		}
		defer announcer.Close()
		sessionOpts = append(sessionOpts, elector.WithAnnouncer(announcer))
	}

	session, err := elector.NewSession(&cfg, conn, sessionOpts...)
	if err != nil {
		return err
	}

	var srv *http.Server
	if opts.httpAddr != "" {
		srv = &http.Server{
			Addr:              opts.httpAddr,
			Handler:           newStatusRouter(session, registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server failed", "addr", opts.httpAddr, "error", err)
			}
		}()
		logger.Info("status server listening", "addr", opts.httpAddr)
	}

	if err := session.Connect(ctx); err != nil {
		_ = shutdown(session, srv, cfg.ShutdownTimeout, logger)
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down", "candidate_id", session.CandidateID())
	case <-session.Done():
		logger.Error("election session stopped", "phase", session.Phase().String())
	}

	return shutdown(session, srv, cfg.ShutdownTimeout, logger)
}

func shutdown(session *elector.Session, srv *http.Server, timeout time.Duration, logger elector.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	failed := session.Phase() == elector.PhaseFailed

	err := session.Disconnect(ctx)
	if errors.Is(err, elector.ErrNotConnected) || errors.Is(err, elector.ErrAlreadyDisconnected) {
		err = nil
	}
	if err != nil {
		logger.Warn("disconnect failed", "error", err)
	}

	if srv != nil {
		if serr := srv.Shutdown(ctx); serr != nil {
			logger.Warn("status server shutdown failed", "error", serr)
		}
	}

	if failed {
		return errors.New("election session failed")
	}

	return err
}

func transitionHooks(logger elector.Logger) *elector.Hooks {
	return &elector.Hooks{
		OnCandidateID: func(_ context.Context, id string) error {
			logger.Info("registered", "candidate_id", id)
			return nil
		},
		OnLeader: func(_ context.Context, id string) error {
			logger.Info("became leader", "candidate_id", id)
			return nil
		},
		OnFollower: func(_ context.Context, id string) error {
			logger.Info("became follower", "candidate_id", id)
			return nil
		},
		OnError: func(_ context.Context, err error) error {
			logger.Error("election error", "error", err)
			return nil
		},
	}
}
