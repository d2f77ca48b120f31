package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/tank-cascade/internal/application"
	"github.com/eugenenazirov/tank-cascade/internal/cli"
	"github.com/eugenenazirov/tank-cascade/internal/config"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("tank-cascade-server", "Tank Cascade - serves spill and full timings for linear tank cascades over HTTP")
	flags := cli.RegisterFlags(kingpinApp, "")
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPS := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurst := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, logger, err := cli.Bootstrap(flags, serverOverrides(*port, *rateLimitRPS, *rateLimitBurst))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tank-cascade-server: %v\n", err)
		os.Exit(2)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// serverOverrides keeps only the flags that were set; negative rate limits
// mean "unset".
func serverOverrides(port string, rateLimitRPS float64, rateLimitBurst int) *config.CLIOverrides {
	overrides := &config.CLIOverrides{}
	if port != "" {
		overrides.Port = &port
	}
	if rateLimitRPS >= 0 {
		overrides.RateLimitRPS = &rateLimitRPS
	}
	if rateLimitBurst >= 0 {
		overrides.RateLimitBurst = &rateLimitBurst
	}
	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
