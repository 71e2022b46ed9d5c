// Package app assembles the HR bot: configuration loading, bootstrap of the
// record store and services, and the Telegram runtime options.
package app

import (
	"context"
	"fmt"

	"github.com/rodanhr/hrbot/core/bootstrap"
	corecmd "github.com/rodanhr/hrbot/core/cmd"
	coreconfig "github.com/rodanhr/hrbot/core/config"
	coretelegram "github.com/rodanhr/hrbot/core/telegram"
	"github.com/rodanhr/hrbot/internal/bot"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/dialog"
	"github.com/rodanhr/hrbot/internal/hrops"
	"github.com/rodanhr/hrbot/internal/storage"
)

// Config carries the core configuration for the bot binary.
type Config struct {
	core *coreconfig.Config
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return c.core }

// LoadConfig reads configuration from the YAML file and the environment.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{core: cfg}, nil
}

// App is the fully wired bot application.
type App struct {
	cfg *coreconfig.Config
	bot *bot.Bot
}

// Bootstrap initializes the logger, catalogs, store, and services.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	res, err := bootstrap.Run(bootstrap.Options[*storage.FileStore]{
		Config: cfg,
		OpenStore: func(sc coreconfig.StorageConfig) (*storage.FileStore, error) {
			return storage.NewFileStore(sc, cat.DefaultVacancies), nil
		},
		Seed: func(s *storage.FileStore) error {
			return s.Seed(context.Background())
		},
	})
	if err != nil {
		return nil, err
	}

	engine := dialog.NewEngine(res.Store, cat, cfg.Company.Name)
	ops := hrops.NewService(res.Store, cat)

	return &App{
		cfg: cfg,
		bot: bot.New(cfg, engine, ops, cat),
	}, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	if a.bot == nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: bot is not initialized")
	}
	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    a.bot.Registry(),
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      a.bot.Routes(),
	}, nil
}
