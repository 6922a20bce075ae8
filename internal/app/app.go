package app

import (
	"context"
	"fmt"
	"log/slog"

	"edrplugins/internal/config"
	"edrplugins/internal/core"
	"edrplugins/internal/edr"
	"edrplugins/internal/modules/endpoint"
	"edrplugins/internal/storage"
	"edrplugins/internal/storage/sqlite"
)

// App агрегирует зависимости плагинов.
type App struct {
	Registry *core.Registry
	Guard    core.Guard
	Store    storage.Store
	Audit    storage.AuditWriter
	Logger   *slog.Logger
	Config   config.Config
}

// NewApp строит приложение: EDR-клиент, реестр действий, политики и аудит.
func NewApp(ctx context.Context, cfg config.Config, lg *slog.Logger) (*App, error) {
	client, err := edr.New(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("edr client: %w", err)
	}

	r := core.NewRegistry()
	if err := r.Register(ctx, endpoint.NewIsolate(client)); err != nil {
		return nil, fmt.Errorf("register isolate action: %w", err)
	}
	if err := r.Register(ctx, endpoint.NewUnisolate(client)); err != nil {
		return nil, fmt.Errorf("register unisolate action: %w", err)
	}

	a := &App{
		Registry: r,
		Guard:    core.NewPolicyGuard(cfg.Safety.Policies),
		Logger:   lg,
		Config:   cfg,
	}
	if cfg.Audit.Enabled {
		st, err := sqlite.Open(cfg.Audit.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open audit storage: %w", err)
		}
		a.Store = st
		a.Audit = st
	}
	return a, nil
}

// Close высвобождает ресурсы приложения.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
