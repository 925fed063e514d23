package dev

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/internal/manifest"
	"github.com/vango-dev/routetable/pkg/router"
)

// Reloader loads a manifest into a registry and reports the outcome to
// reload subscribers.
type Reloader struct {
	source   manifest.Source
	registry *router.Registry
	notifier *ReloadServer
	logger   *zap.Logger

	mu       sync.Mutex
	lastErrs []*errors.Error
}

// NewReloader creates a reloader. notifier may be nil.
func NewReloader(source manifest.Source, registry *router.Registry, notifier *ReloadServer, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reloader{
		source:   source,
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// Reload fetches the manifest and publishes it. On failure the previous
// table stays live and the coded errors are kept for LastErrors.
func (r *Reloader) Reload(ctx context.Context) error {
	m, err := r.source.Load(ctx)
	if err != nil {
		r.fail([]*errors.Error{errors.FromError(err, "R042")})
		return err
	}

	table, err := r.registry.Load(ctx, m.Patterns)
	if err != nil {
		r.fail(m.Annotate(errors.FromBuildError(err)))
		return err
	}

	r.mu.Lock()
	r.lastErrs = nil
	r.mu.Unlock()

	if r.notifier != nil {
		r.notifier.NotifyLoaded(r.registry.Generation(), table.Len(), r.source.String())
	}
	return nil
}

// LastErrors returns the errors of the latest reload, or nil if it
// succeeded.
func (r *Reloader) LastErrors() []*errors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErrs
}

// Source returns the manifest source.
func (r *Reloader) Source() manifest.Source {
	return r.source
}

func (r *Reloader) fail(errs []*errors.Error) {
	r.mu.Lock()
	r.lastErrs = errs
	r.mu.Unlock()

	for _, e := range errs {
		r.logger.Warn("manifest error",
			zap.String("source", r.source.String()),
			zap.String("error", e.FormatCompact()),
		)
	}
	if r.notifier != nil {
		r.notifier.NotifyError(r.source.String(), errs)
	}
}
