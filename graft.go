package graft

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/internal/runtime"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/config"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Engine is the high-level entry point for the graft library.
// It wraps the internal runtime and keeps one document's generated regions
// in sync with its source blocks.
type Engine struct {
	runtime     *runtime.Engine
	doc         ports.Document
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	generator   ports.Generator
	cfg         *config.Config
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGenerator replaces the generator. The default is the built-in class rule,
// plus the template rules of the config when WithConfig is used.
func WithGenerator(g ports.Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithConfig applies project settings: conventions, policies and generator rules.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cfg = &cfg
	}
}

// WithConventions overrides the marker and region name.
func WithConventions(conv domain.Conventions) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithConventions(conv))
	}
}

// WithOrphanPolicy decides the fate of regions whose source block was deleted.
func WithOrphanPolicy(p domain.OrphanPolicy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithOrphanPolicy(p))
	}
}

// WithNoMatchPolicy decides the fate of regions whose source no longer compiles.
func WithNoMatchPolicy(p domain.NoMatchPolicy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithNoMatchPolicy(p))
	}
}

// WithDiffer substitutes the diff/patch primitive used to keep manual edits.
func WithDiffer(d ports.Differ) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDiffer(d))
	}
}

// Attach binds an engine to doc. The document is scanned and every block
// regenerated before Attach returns; afterwards the engine follows the
// document's change notifications until Close.
func Attach(doc ports.Document, opts ...Option) (*Engine, error) {
	eng := &Engine{doc: doc}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	var runtimeOpts []runtime.EngineOption
	if eng.cfg != nil {
		if err := eng.cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		runtimeOpts = append(runtimeOpts,
			runtime.WithConventions(eng.cfg.Conventions()),
			runtime.WithOrphanPolicy(eng.cfg.OrphanPolicy),
			runtime.WithNoMatchPolicy(eng.cfg.NoMatchPolicy),
		)
		if eng.generator == nil {
			reg, err := eng.cfg.Registry(eng.logger)
			if err != nil {
				return nil, fmt.Errorf("invalid generator rules: %w", err)
			}
			eng.generator = reg
		}
	}
	runtimeOpts = append(runtimeOpts,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithGenerator(eng.generator),
	)
	// Explicit options win over the config.
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	rt, err := runtime.NewEngine(doc, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Open attaches an engine to a new in-memory document holding text.
func Open(text string, opts ...Option) (*Engine, *memory.Buffer, error) {
	var bufOpts []memory.BufferOption
	probe := &Engine{}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.cfg != nil {
		bufOpts = append(bufOpts, memory.WithHistoryLimit(probe.cfg.HistoryLimit))
	}

	buf := memory.NewBuffer(text, bufOpts...)
	eng, err := Attach(buf, opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, buf, nil
}

// Generate returns text with every generated region brought up to date.
func Generate(text string, opts ...Option) (string, error) {
	eng, buf, err := Open(text, opts...)
	if err != nil {
		return "", err
	}
	defer eng.Close()

	if eng.NeedsRescan() {
		return buf.Text(), fmt.Errorf("%w: document structure needs repair", domain.ErrMalformedBlock)
	}
	return buf.Text(), nil
}

// Document returns the attached document.
func (e *Engine) Document() ports.Document {
	return e.doc
}

// Blocks returns the current blocks resolved against the current snapshot.
func (e *Engine) Blocks() []domain.BlockInfo {
	return e.runtime.Blocks()
}

// Rescan rebuilds all blocks from the current text and regenerates them.
func (e *Engine) Rescan() error {
	return e.runtime.Rescan()
}

// Settled reports whether no block is waiting for regeneration.
func (e *Engine) Settled() bool {
	return e.runtime.Settled()
}

// NeedsRescan reports whether the engine is waiting for the document's
// structure to be repaired.
func (e *Engine) NeedsRescan() bool {
	return e.runtime.NeedsRescan()
}

// Close detaches the engine from the document.
func (e *Engine) Close() error {
	return e.runtime.Close()
}
