package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/vbonduro/pantryinv/internal/config"
	"github.com/vbonduro/pantryinv/internal/db"
	"github.com/vbonduro/pantryinv/internal/filestore/local"
	"github.com/vbonduro/pantryinv/internal/logging"
	"github.com/vbonduro/pantryinv/internal/service"
	"github.com/vbonduro/pantryinv/internal/store"
	"github.com/vbonduro/pantryinv/internal/web"
	"github.com/vbonduro/pantryinv/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := openDatabase(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	files, err := local.NewLocalFileStore(cfg.ExportPath)
	if err != nil {
		logger.Error("failed to initialize export directory", "error", err)
		return
	}

	pantry := service.NewPantryService(store.NewItemStore(database), files, logger)
	if err := pantry.Restore(context.Background()); err != nil {
		logger.Error("failed to restore inventory", "error", err)
		return
	}

	auth := service.NewAuthenticator(cfg.Username, cfg.Password, logger)
	server := web.NewServer(pantry, auth, templates.FS, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// openDatabase opens the on-disk snapshot database, or a throwaway in-memory
// one in test mode.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	if cfg.TestMode {
		return db.OpenForTesting()
	}
	return db.Open(cfg.DBPath)
}
