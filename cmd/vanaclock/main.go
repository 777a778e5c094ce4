package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/helvetius/vanaclock/internal/config"
	"github.com/helvetius/vanaclock/internal/store"
	"github.com/helvetius/vanaclock/internal/ui"
)

var version = "0.1.0"

func main() {
	// Load .env if present, for overriding paths during development.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("VANACLOCK_CONFIG"), "Path to vanaclock.toml")
	dbPath := flag.String("db", os.Getenv("VANACLOCK_DB"), "Path to the SQLite database")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vanaclock [--config vanaclock.toml] [--db vanaclock.db] | version\n")
	}
	flag.Parse()

	if args := flag.Args(); len(args) > 0 && args[0] == "version" {
		fmt.Println("vanaclock", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	path, err := cfg.DatabasePath()
	if err != nil {
		logger.Fatal("resolve database path", zap.Error(err))
	}

	ctx := context.Background()
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := store.Open(openCtx, path)
	if err != nil {
		logger.Fatal("open database", zap.String("path", path), zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	logger.Info("starting", zap.String("version", version), zap.String("db", path))
	if err := ui.Run(ctx, db, cfg, logger); err != nil {
		logger.Fatal("ui exited", zap.Error(err))
	}
}

// buildLogger writes structured logs to the configured file, or stderr. The
// TUI owns stdout, so file logging is the useful mode.
func buildLogger(lc config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if lc.Path != "" {
		zc.OutputPaths = []string{lc.Path}
		zc.ErrorOutputPaths = []string{lc.Path}
	}
	return zc.Build()
}
