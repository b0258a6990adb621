package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dreambook/internal/auth"
	"dreambook/internal/config"
	"dreambook/internal/db"
	"dreambook/internal/dream"
	httpx "dreambook/internal/http"
	"dreambook/internal/ratelimit"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	hashOnly := flag.Bool("hash-token", false, "read an admin token from stdin, print its ADMIN_TOKEN_HASH value and exit")
	flag.Parse()

	if *hashOnly {
		if err := printTokenHash(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "hash-token:", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("store", zap.Error(err))
	}

	gate, err := newGate(cfg, log)
	if err != nil {
		log.Fatal("admin gate", zap.Error(err))
	}

	limiter, err := ratelimit.NewFixedWindow(cfg.RateLimitMax, cfg.RateLimitWindow, cfg.RateLimitKeys)
	if err != nil {
		log.Fatal("rate limiter", zap.Error(err))
	}

	var policy dream.ContentPolicy = dream.AllowAll{}
	if len(cfg.ContentDenylist) > 0 {
		policy = dream.Denylist(cfg.ContentDenylist)
	}

	svc := dream.NewService(store, limiter, policy, cfg.InterpreterName, cfg.StoreTimeout)
	r := httpx.NewRouter(cfg, svc, gate, limiter, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.LogFormat == "text" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func openStore(cfg config.Config, log *zap.Logger) (dream.Store, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store; dreams are lost on restart")
		return dream.NewMemoryStore(), nil
	}

	gdb, err := db.Connect(context.Background(), cfg.DatabaseURL, cfg.StoreTimeout)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return nil, err
	}
	return dream.NewGormStore(gdb), nil
}

func newGate(cfg config.Config, log *zap.Logger) (*auth.Gate, error) {
	if cfg.AdminTokenHash != "" {
		return auth.NewHashedGate(cfg.AdminTokenHash)
	}
	if cfg.InsecureAdminToken() {
		log.Warn("ADMIN_TOKEN is not set; the built-in default secret is public, set ADMIN_TOKEN or ADMIN_TOKEN_HASH before deploying")
	}
	return auth.NewGate(cfg.AdminToken), nil
}

// printTokenHash reads one token from r and writes its bcrypt hash to w.
func printTokenHash(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	token := strings.TrimRight(string(raw), "\r\n")
	if token == "" {
		return errors.New("empty token on stdin")
	}

	hash, err := auth.HashToken(token)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}
