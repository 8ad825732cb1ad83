package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/config"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/observability"
)

// loadConfig reads the config at path. With an empty path the first config
// file found in dir is used, and defaults when there is none.
func loadConfig(path, dir string) (config.Config, error) {
	if path == "" {
		path = config.Find(dir)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

// createEngineOptions returns the graft options for cfg with standard CLI conventions.
func createEngineOptions(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) []graft.Option {
	opts := []graft.Option{
		graft.WithConfig(cfg),
		graft.WithLogger(logger),
	}
	if len(hooks) > 0 {
		opts = append(opts, graft.WithLifecycleHooks(observability.Chain(hooks...)))
	}
	return opts
}
