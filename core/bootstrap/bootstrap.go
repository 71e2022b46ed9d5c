package bootstrap

import (
	"fmt"

	coreconfig "github.com/rodanhr/hrbot/core/config"
	"github.com/rodanhr/hrbot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
// S is the concrete record store type supplied by the application.
type Options[S any] struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	OpenStore  func(coreconfig.StorageConfig) (S, error)
	// Seed loads reference data (for example default vacancies) into the
	// store after it is opened.
	Seed func(S) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result[S any] struct {
	Store S
}

// Run initializes the logger, opens the record store, and seeds reference data.
func Run[S any](opts Options[S]) (*Result[S], error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	var store S
	if opts.OpenStore != nil {
		s, err := opts.OpenStore(opts.Config.Storage)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: record store initialization failed: %w", err)
		}
		store = s
	}

	if opts.Seed != nil {
		if err := opts.Seed(store); err != nil {
			return nil, fmt.Errorf("bootstrap: seeding failed: %w", err)
		}
	}

	return &Result[S]{Store: store}, nil
}
