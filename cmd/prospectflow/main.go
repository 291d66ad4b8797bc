package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"prospectflow/internal/config"
	"prospectflow/internal/logging"
	"prospectflow/internal/navigator"
	"prospectflow/internal/repository"
	"prospectflow/internal/storage"
	"prospectflow/internal/ui"
)

func main() {
	ctx := context.Background()

	cfgStore, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := cfgStore.Config

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	slot, err := storage.Open(ctx, cfg.Storage.Path)
	if err != nil {
		logger.Error("Failed to open storage", zap.String("path", cfg.Storage.Path), zap.Error(err))
		log.Fatalf("open storage: %v", err)
	}
	defer slot.Close()

	logger.Info("Starting prospectflow",
		zap.String("config", cfgStore.Path()),
		zap.String("storage", slot.Path()),
		zap.String("key", cfg.Storage.Key))

	repo := repository.New(ctx, slot, repository.Options{
		Key:      cfg.Storage.Key,
		Triggers: cfg.Stats.Triggers,
		Logger:   logger.Named("repository"),
	})
	nav := navigator.New(repo, logger.Named("navigator"))

	program := ui.NewProgram(nav, repo, cfgStore, logger.Named("ui"))
	if err := program.Start(); err != nil {
		logger.Error("Program terminated", zap.Error(err))
		log.Println("program terminated:", err)
		os.Exit(1)
	}
}
