package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Attached is an engine bound to one document.
type Attached interface {
	Document() ports.Document
	Blocks() []domain.BlockInfo
	Rescan() error
	Settled() bool
	NeedsRescan() bool
	Close() error
}

// AttachFunc creates the engine for a document.
type AttachFunc func(doc ports.Document) (Attached, error)

// entry holds the engine, the reference count and the mutex serializing work on it.
type entry struct {
	mu     sync.Mutex
	refs   int
	engine Attached
}

// Manager orchestrates engine lifetimes, one per document ID.
// It uses reference counting to close engines nobody holds.
type Manager struct {
	attach AttachFunc

	mu      sync.Mutex        // Global lock for the map
	entries map[string]*entry // Active documents

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager that attaches engines with attach.
func NewManager(attach AttachFunc, opts ...Option) *Manager {
	m := &Manager{
		attach:  attach,
		entries: make(map[string]*entry),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ref gets or creates the entry for id and increments its reference count.
func (m *Manager) ref(id string, create bool) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[id]
	if !exists {
		if !create {
			return nil, false
		}
		e = &entry{}
		m.entries[id] = e
	}
	e.refs++
	return e, true
}

// unref decrements the reference count. It reports whether the entry was dropped.
func (m *Manager) unref(id string) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[id]
	if !exists {
		return nil, false
	}
	e.refs--
	if e.refs > 0 {
		return e, false
	}
	delete(m.entries, id)
	return e, true
}

// Acquire returns the engine for doc, attaching one on first use.
// Every successful Acquire must be paired with a Release.
func (m *Manager) Acquire(doc ports.Document) (Attached, error) {
	id := doc.ID()
	e, _ := m.ref(id, true)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.engine == nil {
		engine, err := m.attach(doc)
		if err != nil {
			m.unref(id)
			return nil, fmt.Errorf("failed to attach %s: %w", id, err)
		}
		e.engine = engine
		m.logger.Info("Attached document", "document", id)
	}
	return e.engine, nil
}

// Release drops one reference to the document's engine and closes the
// engine when it was the last one.
func (m *Manager) Release(id string) error {
	e, last := m.unref(id)
	if e == nil {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	if !last {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.engine == nil {
		return nil
	}
	m.logger.Info("Detached document", "document", id)
	return e.engine.Close()
}

// WithDocument runs fn with the engine of an acquired document while holding
// the document's lock.
func (m *Manager) WithDocument(id string, fn func(Attached) error) error {
	e, ok := m.ref(id, false)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	defer func() {
		if err := m.Release(id); err != nil {
			m.logger.Warn("Failed to close engine", "document", id, "err", err)
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.engine == nil {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return fn(e.engine)
}

// Documents returns the IDs of the held documents, sorted.
func (m *Manager) Documents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every engine regardless of outstanding references.
func (m *Manager) Close() error {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	var first error
	for id, e := range entries {
		e.mu.Lock()
		if e.engine != nil {
			if err := e.engine.Close(); err != nil && first == nil {
				first = fmt.Errorf("failed to close %s: %w", id, err)
			}
		}
		e.mu.Unlock()
	}
	return first
}
