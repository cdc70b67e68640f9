package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"maritime-forecast/internal/api"
	"maritime-forecast/internal/config"
	"maritime-forecast/internal/data"
	"maritime-forecast/internal/forecast"
	"maritime-forecast/internal/pipeline"
	"maritime-forecast/internal/store"
	"maritime-forecast/internal/telemetry"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("MARITIME_CONFIG"), "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := telemetry.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	st, err := store.Open(cfg.DataDir, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	trend, err := forecast.NewTrendModel(cfg.TrendParams())
	if err != nil {
		return err
	}
	rates, err := cfg.Rates()
	if err != nil {
		return err
	}
	runs := data.NewRunCache[*pipeline.Result](cfg.Server.RunCacheTTL)
	defer runs.Close()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Loader: st,
		Engine: pipeline.New(trend, log),
		Runs:   runs,
		Defaults: pipeline.Options{
			Horizon:         cfg.Horizon(),
			Rates:           rates,
			FixedCostPerTon: cfg.Profit.FixedCostPerTon,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "addr", srv.Addr, "data_dir", cfg.DataDir, "sqlite", cfg.Store.SQLitePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
