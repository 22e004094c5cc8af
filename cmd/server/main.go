/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load configuration (flags name an optional YAML file; ATTEND_* env
     variables override)
  2. Build the zap logger
  3. Open the SQLite store and wire the engine
  4. Start the HTTP server with graceful shutdown

EXAMPLES:
  ./server -config=./config.yaml
  ATTEND_DB_PATH=:memory: ./server
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clockwork/attendance-engine/api"
	"github.com/clockwork/attendance-engine/attendance"
	"github.com/clockwork/attendance-engine/config"
	"github.com/clockwork/attendance-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err), zap.String("path", cfg.DB.Path))
	}
	defer st.Close()

	engine := attendance.NewEngine(attendance.Stores{Shifts: st, Records: st, Debts: st})
	handler := api.NewHandler(engine, logger)
	router := api.NewRouter(handler, logger, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("db", cfg.DB.Path),
			zap.Int("authorized_users", len(cfg.Auth.AuthorizedIDs)),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
