package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/config"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/telemetry"
	"github.com/BrikenaAhmeti/WP25G10-frontend/server"
	"github.com/BrikenaAhmeti/WP25G10-frontend/server/loginlimit"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxRestarts = 5

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	for attempt := 1; ; attempt++ {
		err := run(c)
		if err == nil {
			break
		}
		log.Err(err).Int("attempt", attempt).Msg("Error running server")
		if attempt >= maxRestarts {
			os.Exit(1)
		}
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("Server stopped")
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	shutdownTracing := telemetry.Setup(c.GetAppName())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Err(err).Msg("Failed to flush traces")
		}
	}()

	limiter, err := newLimiter(c)
	if err != nil {
		return err
	}

	handler, err := server.New(c, server.Deps{Limiter: limiter})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           otelhttp.NewHandler(handler, c.GetAppName()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(srv)
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newLimiter shares login attempt counters through Redis when REDIS_ADDR is
// set and keeps them in memory otherwise.
func newLimiter(c config.Config) (loginlimit.Limiter, error) {
	cfg := loginlimit.Config{MaxAttempts: c.GetLoginMaxAttempts(), Window: c.GetLoginWindow()}
	addr := c.GetRedisAddr()
	if addr == "" {
		return loginlimit.NewInMemoryLimiter(cfg), nil
	}

	client, err := loginlimit.NewRedisClient(addr, c.GetRedisPassword())
	if err != nil {
		return nil, fmt.Errorf("redis login limiter: %w", err)
	}
	log.Info().Str("addr", addr).Msg("Login limiter backed by Redis")
	return loginlimit.NewRedisLimiter(client, cfg), nil
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
