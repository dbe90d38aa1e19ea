package cli

import (
	"context"

	"github.com/conorfennell/deckard/internal/config"
)

type contextKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// configFrom returns the configuration resolved by the root command.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(contextKey{}).(*config.Config); ok {
		return cfg
	}
	// Subcommand invoked outside the root tree, e.g. in a test.
	return &config.Config{DecksDir: "decks", Database: "deckard.db", ForecastDays: 30, Shuffle: true, LogLevel: "info"}
}
