package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wavecam/internal/api"
	"wavecam/pkg/actuator"
	"wavecam/pkg/camera"
	"wavecam/pkg/config"
	"wavecam/pkg/core"
	"wavecam/pkg/db"
	"wavecam/pkg/db/maintenance"
	"wavecam/pkg/logging"
	"wavecam/pkg/probe"
	"wavecam/pkg/session"
	"wavecam/pkg/store"
	"wavecam/pkg/version"
)

const defaultConfigPath = "configs/wavecam.yaml"

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	// .env is optional; it only feeds the WAVECAM_* overrides
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	configPath := defaultConfigPath
	if p := os.Getenv("WAVECAM_CONFIG"); p != "" {
		configPath = p
	}

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", configPath)
		return
	}

	if err := run(context.Background(), configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("WaveCam Started", "version", version.Version)

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := maintenance.Run(ctx, st, dbConn, time.Duration(appCfg.Persistence.Retention)); err != nil {
		slog.Error("Maintenance tasks failed", "error", err)
	}

	prov := config.NewProvider(appCfg, st)

	// Camera core
	ctrl := core.NewController(camera.NewRegistry(slog.Default()), slog.Default())
	sessionMgr := session.NewManager(st, ctrl)
	ctrl.AddListener(sessionMgr)

	sink, closeSink := initSink(appCfg)
	defer closeSink()
	act := actuator.NewListener(sink, ctrl, prov.UserFPS)
	ctrl.AddListener(act)

	hub := api.NewEventHub()
	defer hub.Close()
	ctrl.AddListener(hub)

	probes := []probe.Probe{
		probe.Database(dbConn),
		probe.BootIndices(ctrl, prov.BootIndices(ctx)),
	}
	if err := probe.AnalyzeResults(probe.Run(ctx, probes)); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	// Boot values, then bring the hardware in line even if nothing changed
	session.Restore(ctx, prov, ctrl)
	act.Sync(ctx)

	persist := core.NewPersistenceJob(st, ctrl, prov.PersistInterval(ctx))
	defer persist.Flush(context.Background())

	sched := setupScheduler(prov, dbConn, persist)
	go sched.Start(ctx)

	err = runServer(ctx, appCfg, prov, ctrl, sessionMgr, st, hub, act)
	// Stop the jobs before the deferred flush and close
	cancel()
	return err
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

// initSink opens the serial link when the actuator is enabled. Without one
// (or when the port cannot be opened) frames are only logged.
func initSink(cfg *config.Config) (actuator.Sink, func()) {
	logSink := actuator.LogSink{Logger: slog.With("component", "actuator")}
	if !cfg.Actuator.Enabled {
		return logSink, func() {}
	}

	port, name, err := actuator.OpenSerial(cfg.Actuator.Port, cfg.Actuator.Baud)
	if err != nil {
		slog.Error("Actuator unavailable, logging frames only", "error", err)
		return logSink, func() {}
	}
	slog.Info("Actuator connected", "port", name, "baud", cfg.Actuator.Baud)
	return actuator.NewLineSink(port), func() { closeQuietly(port) }
}

func setupScheduler(prov config.Provider, dbConn *db.DB, persist *core.PersistenceJob) *core.Scheduler {
	sched := core.NewScheduler(time.Second)
	sched.AddJob(persist)

	retention := prov.HistoryRetention(context.Background())
	if retention > 0 {
		sched.AddJob(core.NewTimeJob("HistoryPrune", 24*time.Hour, func(ctx context.Context) {
			n, err := dbConn.PruneHistory(retention)
			if err != nil {
				slog.Error("History prune failed", "error", err)
				return
			}
			if n > 0 {
				slog.Info("History pruned", "rows", n)
			}
		}))
	}
	return sched
}

func runServer(ctx context.Context, cfg *config.Config, prov config.Provider, ctrl *core.Controller, sessionMgr *session.Manager, st store.Store, hub *api.EventHub, act *actuator.Listener) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewSettingsHandler(ctrl, prov, act.Sync),
		api.NewClipsHandler(st, st, sessionMgr, prov.HistoryLimit(ctx)),
		api.NewStatsHandler(sessionMgr, hub),
		hub,
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("Close failed", "error", err)
	}
}
