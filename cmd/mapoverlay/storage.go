package main

import (
	"context"

	"github.com/mqmap/overlay/internal/config"
	"github.com/mqmap/overlay/internal/storage"
)

// initStorage creates the configured backend. Failures leave the map
// running without persistence.
func (a *app) initStorage(ctx context.Context) {
	storageCfg := config.GetStorageConfig()
	b, err := storage.NewBackend(storageCfg, a.sess.Character, a.componentLog("storage"))
	if err != nil {
		a.log.Error("Failed to create storage backend", "error", err)
		return
	}
	if err := b.Init(ctx); err != nil {
		a.log.Error("Failed to initialize storage backend", "error", err, "type", storageCfg.Type)
		_ = b.Close()
		return
	}
	a.backend = b
	a.log.Info("Storage backend initialized", "type", storageCfg.Type)
}
