// internal/app/app.go
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Halcyonic/VoidTrader/internal/config"
	"github.com/Halcyonic/VoidTrader/internal/di"
	"github.com/Halcyonic/VoidTrader/internal/services"
	"github.com/Halcyonic/VoidTrader/internal/storage"
	"github.com/Halcyonic/VoidTrader/internal/utils"
)

// InitServices builds the service graph and registers it in the DI
// container. Call once at startup, before SetupRouter.
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()

	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}
	container.Register("storage", fileStorage)

	archive, err := storage.NewHistoryStore(cfg.ArchiveDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize event archive: %w", err)
	}
	container.Register("archive", archive)

	eventService := services.NewEventService(fileStorage, archive, cfg.RNGSeed, cfg.GlobalCooldown)
	container.Register("event", eventService)

	utils.GetLogger().Info("services initialized", map[string]interface{}{
		"services": container.GetNames(),
	})
	return nil
}

// InitLogger points the global logger at a dated file under the log
// directory.
func InitLogger(logDir string) error {
	logFile := filepath.Join(logDir, fmt.Sprintf("voidtrader_%s.log", time.Now().Format("2006-01-02")))
	return utils.InitLogger(logFile)
}

// Cleanup releases resources held by registered services.
func Cleanup() {
	container := di.GetContainer()

	if archive, ok := container.Get("archive").(*storage.HistoryStore); ok && archive != nil {
		if err := archive.Close(); err != nil {
			utils.GetLogger().Warnf("failed to close event archive: %v", err)
		}
	}

	container.Clear()
}
