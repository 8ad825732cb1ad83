package runtime

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/internal/reconcile"
	"github.com/aretw0/graft/internal/scanner"
	"github.com/aretw0/graft/internal/tracking"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
)

// State is the engine's re-entrancy state.
type State int32

const (
	// StateIdle accepts document changes.
	StateIdle State = iota
	// StateSelfMutating is held while the engine writes to the document.
	// Change notifications caused by those writes are ignored.
	StateSelfMutating
)

func (s State) String() string {
	if s == StateSelfMutating {
		return "self_mutating"
	}
	return "idle"
}

// Engine keeps the generated regions of one document in sync with their source blocks.
//
// The engine is driven synchronously by the document's change notifications.
// The document must be edited from one goroutine at a time; the read accessors
// (Blocks, Settled, NeedsRescan) are safe to call concurrently.
type Engine struct {
	doc        ports.Document
	conv       domain.Conventions
	generator  ports.Generator
	differ     ports.Differ
	scanner    *scanner.Scanner
	tracker    *tracking.Tracker
	reconciler *reconcile.Reconciler
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	orphans    domain.OrphanPolicy
	noMatch    domain.NoMatchPolicy

	state atomic.Int32

	mu          sync.Mutex
	blocks      []*Block
	regions     []domain.TrackingSpan // orphan regions seen by the last rescan
	needsRescan bool
	cancel      func()
	closed      bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithConventions overrides the marker and region name.
func WithConventions(conv domain.Conventions) EngineOption {
	return func(e *Engine) {
		e.conv = conv
	}
}

// WithGenerator sets the code generator. The default is registry.Default().
func WithGenerator(g ports.Generator) EngineOption {
	return func(e *Engine) {
		if g != nil {
			e.generator = g
		}
	}
}

// WithDiffer sets the diff/patch primitive used for merging.
func WithDiffer(d ports.Differ) EngineOption {
	return func(e *Engine) {
		if d != nil {
			e.differ = d
		}
	}
}

// WithOrphanPolicy decides the fate of regions whose block disappeared.
func WithOrphanPolicy(p domain.OrphanPolicy) EngineOption {
	return func(e *Engine) {
		if p != "" {
			e.orphans = p
		}
	}
}

// WithNoMatchPolicy decides the fate of regions whose source no longer compiles.
func WithNoMatchPolicy(p domain.NoMatchPolicy) EngineOption {
	return func(e *Engine) {
		if p != "" {
			e.noMatch = p
		}
	}
}

// NewEngine attaches an engine to doc: it scans the document, regenerates
// every block and subscribes to further changes.
func NewEngine(doc ports.Document, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		doc:     doc,
		conv:    domain.DefaultConventions(),
		logger:  logging.NewNop(),
		orphans: domain.OrphanKeep,
		noMatch: domain.NoMatchPreserve,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.conv.Validate(); err != nil {
		return nil, err
	}
	if e.generator == nil {
		e.generator = registry.Default(registry.WithLogger(e.logger))
	}
	if e.differ == nil {
		e.differ = reconcile.NewPatchDiffer()
	}
	e.logger = e.logger.With("document", doc.ID())
	e.scanner = scanner.NewScanner(e.conv)
	e.tracker = tracking.NewTracker(doc)
	e.reconciler = reconcile.New(e.conv, e.differ)

	e.mu.Lock()
	err := e.guard(func() {
		e.rescan("attach")
		e.settle()
	})
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("initial sync failed: %w", err)
	}

	e.cancel = doc.Subscribe(e.HandleChange)
	return e, nil
}

// State returns the current re-entrancy state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Document returns the attached document.
func (e *Engine) Document() ports.Document {
	return e.doc
}

// HandleChange reacts to one document change event. It returns immediately
// while the engine itself is mutating the document.
func (e *Engine) HandleChange(ev domain.ChangeEvent) {
	if e.State() == StateSelfMutating {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	_ = e.guard(func() {
		reason := e.classify(ev)
		if reason == "" {
			reason = e.markDirty(ev)
		}
		if reason != "" {
			e.rescan(reason)
		}
		e.settle()
	})
}

// Rescan discards all blocks, rebuilds them from the current text and
// regenerates them.
func (e *Engine) Rescan() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("engine closed")
	}
	return e.guard(func() {
		e.rescan("requested")
		e.settle()
	})
}

// settle regenerates dirty blocks, escalating to one rescan when a block
// boundary turns out to be malformed, and re-anchors every span.
func (e *Engine) settle() {
	if e.regenerateDirty() {
		e.rescan("malformed block")
		e.regenerateDirty()
	}
	e.rebase()
}

// guard runs fn and turns a panic into an error, flagging a rescan for the next edit.
func (e *Engine) guard(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e.needsRescan = true
			err = fmt.Errorf("engine panic: %v", rec)
			e.logger.Error("Recovered from panic while syncing", "panic", rec)
		}
	}()
	fn()
	return nil
}

// Blocks returns the current blocks resolved against the current snapshot.
func (e *Engine) Blocks() []domain.BlockInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.doc.Current()
	infos := make([]domain.BlockInfo, 0, len(e.blocks))
	for i, b := range e.blocks {
		infos = append(infos, b.info(i, snap, e.tracker))
	}
	return infos
}

// Settled reports whether no block is waiting for regeneration.
func (e *Engine) Settled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range e.blocks {
		if b.State == domain.BlockDirty || b.State == domain.BlockRegenerating {
			return false
		}
	}
	return true
}

// NeedsRescan reports whether the next change will trigger a full rescan.
func (e *Engine) NeedsRescan() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.needsRescan
}

// Close unsubscribes the engine from the document.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.cancel != nil {
		e.cancel()
	}
	return nil
}

// rebase re-anchors every span at the current version so later resolutions
// read a short history.
func (e *Engine) rebase() {
	to := e.doc.Current().Version()
	for _, b := range e.blocks {
		if err := b.rebase(e.tracker, to); err != nil {
			e.logger.Warn("Lost track of a block, rescanning on next edit", "err", err)
			e.needsRescan = true
		}
	}
	for i, r := range e.regions {
		if rebased, err := e.tracker.Rebase(r, to); err == nil {
			e.regions[i] = rebased
		}
	}
}
