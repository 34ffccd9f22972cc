// cmd/loan-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/database"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/observability"
	"loan-intake/internal/files"
	"loan-intake/internal/notify"
	"loan-intake/internal/server"
	"loan-intake/internal/store"
	"loan-intake/internal/submission"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting loan intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init SQLite with retry ---
	var db *database.SQLiteClient
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.NewSQLite(cfg.Database)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}, 5, 1*time.Second, zapLog, "SQLite connection")

	if err != nil {
		zapLog.Fatal("sqlite failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("SQLite connected successfully", zap.String("path", cfg.Database.Path))

	st := store.New(db.DB, log)
	if err := st.Init(ctx); err != nil {
		// Submissions will fail until the schema exists but the
		// diagnostic endpoints stay reachable.
		zapLog.Error("schema init failed, running degraded", zap.Error(err))
	}

	repo, err := files.NewRepository(cfg.Uploads.Dir, cfg.Uploads.AllowedExtensions, st, log)
	if err != nil {
		zapLog.Fatal("upload repository init failed", zap.Error(err))
	}

	notifier, err := notify.New(ctx, cfg.Email, log)
	if err != nil {
		zapLog.Fatal("notification dispatcher init failed", zap.Error(err))
	}

	orch := submission.NewOrchestrator(st, repo, notifier, obs, log)

	srv := server.New(cfg, orch, st, repo, notifier, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Loan intake server stopped gracefully")
}
