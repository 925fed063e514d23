package router

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/vango-dev/routetable/pkg/router"

// Observer receives registry events. Implementations must be safe for
// concurrent use; Matched is called on the request path.
type Observer interface {
	// TableLoaded is called after a new table is published.
	TableLoaded(generation uint64, routes int, elapsed time.Duration)

	// LoadFailed is called when a reload is rejected. errs is the number of
	// build errors.
	LoadFailed(errs int, elapsed time.Duration)

	// Matched is called after every Registry.Match or Registry.Resolve.
	Matched(id string, ok bool, elapsed time.Duration)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for reload events.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer used for compile spans. Defaults to the global
// OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) RegistryOption {
	return func(r *Registry) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithObserver registers an observer for load and match events.
func WithObserver(observer Observer) RegistryOption {
	return func(r *Registry) {
		r.observer = observer
	}
}

// WithCompileOptions sets the options used for every Load.
func WithCompileOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.compile = append(r.compile, opts...)
	}
}

// snapshot is one published generation.
type snapshot struct {
	table      *Table
	generation uint64
	patterns   []string
}

// Registry holds the live Table and replaces it atomically on reload.
// Match is lock-free and always sees exactly one generation; Load calls are
// serialized.
type Registry struct {
	mu      sync.Mutex
	current atomic.Pointer[snapshot]

	logger   *zap.Logger
	tracer   trace.Tracer
	observer Observer
	compile  []Option
}

// NewRegistry creates an empty registry. Match reports no match until the
// first successful Load.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load compiles raw and publishes the result as the next generation. On error
// the previous table stays live and the error is a *BuildErrors.
func (r *Registry) Load(ctx context.Context, raw []string) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, span := r.tracer.Start(ctx, "routetable.compile",
		trace.WithAttributes(attribute.Int("routetable.patterns", len(raw))),
	)
	defer span.End()

	start := time.Now()
	table, err := Compile(raw, r.compile...)
	elapsed := time.Since(start)

	if err != nil {
		n := 1
		var berr *BuildErrors
		if errors.As(err, &berr) {
			n = len(berr.Errors)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile failed")
		span.SetAttributes(attribute.Int("routetable.errors", n))

		r.logger.Warn("route table rejected",
			zap.Int("patterns", len(raw)),
			zap.Int("errors", n),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		if r.observer != nil {
			r.observer.LoadFailed(n, elapsed)
		}
		return nil, err
	}

	var gen uint64 = 1
	if prev := r.current.Load(); prev != nil {
		gen = prev.generation + 1
	}
	r.current.Store(&snapshot{
		table:      table,
		generation: gen,
		patterns:   append([]string(nil), raw...),
	})

	span.SetAttributes(
		attribute.Int64("routetable.generation", int64(gen)),
		attribute.Int("routetable.routes", table.Len()),
	)
	r.logger.Info("route table loaded",
		zap.Uint64("generation", gen),
		zap.Int("routes", table.Len()),
		zap.Duration("elapsed", elapsed),
	)
	if r.observer != nil {
		r.observer.TableLoaded(gen, table.Len(), elapsed)
	}
	return table, nil
}

// Match resolves path against the current table.
func (r *Registry) Match(path string) (*MatchResult, bool) {
	_, m, ok := r.Resolve(path)
	return m, ok
}

// Resolve is Match that also returns the table it matched against, so that
// callers can inspect the matched pattern in the same generation even if a
// reload lands meanwhile. The table is nil before the first successful Load.
func (r *Registry) Resolve(path string) (*Table, *MatchResult, bool) {
	snap := r.current.Load()
	if snap == nil {
		return nil, nil, false
	}
	if r.observer == nil {
		m, ok := snap.table.Match(path)
		return snap.table, m, ok
	}

	start := time.Now()
	m, ok := snap.table.Match(path)
	id := ""
	if ok {
		id = m.ID()
	}
	r.observer.Matched(id, ok, time.Since(start))
	return snap.table, m, ok
}

// Table returns the current table, or nil before the first successful Load.
func (r *Registry) Table() *Table {
	if snap := r.current.Load(); snap != nil {
		return snap.table
	}
	return nil
}

// Generation returns the generation of the current table; 0 means none.
func (r *Registry) Generation() uint64 {
	if snap := r.current.Load(); snap != nil {
		return snap.generation
	}
	return 0
}

// Patterns returns the raw patterns of the current generation in declaration
// order.
func (r *Registry) Patterns() []string {
	if snap := r.current.Load(); snap != nil {
		return append([]string(nil), snap.patterns...)
	}
	return nil
}
