// Command backup uploads database dump archives from the local backups
// directory to object storage, removing each file after a successful upload.
// It is intended to run from cron after pg_dump.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/config"
	"github.com/spec-kit/accounts-service/internal/observability"
	"github.com/spec-kit/accounts-service/internal/storage"
)

const backupsDir = "backups"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	store, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		logger.Fatal("failed to read backups directory", zap.Error(err))
	}

	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql.gz") {
			continue
		}

		path := filepath.Join(backupsDir, entry.Name())
		file, err := os.Open(path)
		if err != nil {
			logger.Error("failed to open backup file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		key := "backups/" + entry.Name()
		err = store.Upload(ctx, key, file, "application/gzip")
		file.Close()
		if err != nil {
			logger.Error("failed to upload backup", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove uploaded backup", zap.String("file", entry.Name()), zap.Error(err))
		}
		uploaded++
	}

	logger.Info("backup upload finished", zap.Int("uploaded", uploaded))
}
