package model

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

// Option configures a root model.
type Option func(*rootConfig)

type rootConfig struct {
	logger *slog.Logger
	hooks  Hooks
}

// WithLogger sets the structured logger used by the tree.
func WithLogger(logger *slog.Logger) Option {
	return func(c *rootConfig) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated options are merged.
func WithHooks(hooks Hooks) Option {
	return func(c *rootConfig) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// idGenerator hands out "<prefix>_<n>" ids. Each root owns its generators so
// independent trees never share counters.
type idGenerator struct {
	prefix string
	next   atomic.Uint64
}

func (g *idGenerator) nextID() string {
	return g.prefix + "_" + strconv.FormatUint(g.next.Add(1), 10)
}
