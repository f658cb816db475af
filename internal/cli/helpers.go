package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/pkg/definition"
	"github.com/aretw0/formbind/pkg/observability"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a form fails validation.
var ErrInvalid = errors.New("form is invalid")

// SignalContext is a context cancelled on SIGINT or SIGTERM that remembers the signal.
type SignalContext struct {
	context.Context
	Cancel func()

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts watching for interrupts until parent or the returned
// context is done.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// NewLogger builds the CLI logger for a --log-level value.
func NewLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// ParseSet splits a --set flag "path=value". The value is read as a YAML scalar or
// flow collection, so numbers and booleans keep their type; quote strings that
// look like numbers.
func ParseSet(s string) (string, any, error) {
	path, raw, ok := strings.Cut(s, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return "", nil, fmt.Errorf("invalid --set %q: want path=value", s)
	}
	if raw == "" {
		return path, "", nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return "", nil, fmt.Errorf("invalid --set %q: %w", s, err)
	}
	return path, v, nil
}

// buildForm loads a definition file and builds its form.
func buildForm(ctx context.Context, path string, logger *slog.Logger) (*formbind.Form, error) {
	doc, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return definition.Build(ctx, doc,
		formbind.WithLogger(logger),
		formbind.WithHooks(observability.LogHooks(logger)),
	)
}
