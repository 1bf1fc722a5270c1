package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/dossier-builder/internal/db"
	"github.com/jonathan/dossier-builder/internal/observability"
	"github.com/jonathan/dossier-builder/internal/server"
	"github.com/jonathan/dossier-builder/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing manifest building and certificate rendering.
Stored dossiers need a PostgreSQL database (database_url); bearer auth is
enabled when jwt_secret is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	if err := v.BindPFlag("port", serveCmd.Flags().Lookup("port")); err != nil {
		panic(fmt.Sprintf("failed to bind port flag: %v", err))
	}
	if err := v.BindPFlag("database_url", serveCmd.Flags().Lookup("database-url")); err != nil {
		panic(fmt.Sprintf("failed to bind database-url flag: %v", err))
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc, err := newService(observability.NewMetrics(reg))
	if err != nil {
		return err
	}

	deps := server.Deps{Service: svc, Logger: logger, Gatherer: reg}
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		deps.Store = database
	} else {
		logger.Warn("no database_url configured; stored dossier routes are unavailable")
	}

	srvCfg := server.Config{Port: cfg.Port}
	if cfg.RateLimitEnabled {
		srvCfg.RateLimit = ratelimit.DefaultConfig(cfg.RateLimitPerMinute, cfg.RenderLimitPerHour)
		srvCfg.RateLimit.Whitelist = ratelimit.ParseIPList(cfg.RateLimitWhitelist)
	}
	if cfg.JWTSecret != "" {
		jwtCfg, err := cfg.JWT()
		if err != nil {
			return fmt.Errorf("failed to configure auth: %w", err)
		}
		srvCfg.JWT = jwtCfg
	} else {
		logger.Warn("no jwt_secret configured; /api is unauthenticated")
	}

	logger.Info("starting dossier API",
		zap.Int("port", cfg.Port),
		zap.Bool("store", deps.Store != nil),
		zap.Bool("rate_limit", srvCfg.RateLimit != nil),
		zap.Bool("auth", srvCfg.JWT != nil),
	)
	return server.New(srvCfg, deps).Run(ctx)
}
