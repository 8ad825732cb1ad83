package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/google/uuid"
)

// DefaultHistoryLimit is the number of deltas a Buffer retains.
const DefaultHistoryLimit = 256

// Buffer implements ports.Document in memory.
// Mutations are serialized; subscribers are notified synchronously once the
// new snapshot is visible, outside the internal lock, so a subscriber may
// mutate the buffer again. Nested mutations are delivered before the outer
// call returns.
type Buffer struct {
	id string

	mu      sync.Mutex
	current *domain.Snapshot
	history []domain.Delta
	limit   int

	subs   map[int]func(domain.ChangeEvent)
	nextID int
}

var _ ports.Document = (*Buffer)(nil)

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithID sets the document ID. By default a random UUID is used.
func WithID(id string) BufferOption {
	return func(b *Buffer) {
		b.id = id
	}
}

// WithHistoryLimit sets how many deltas are retained for span resolution.
func WithHistoryLimit(n int) BufferOption {
	return func(b *Buffer) {
		if n < 1 {
			n = 1
		}
		b.limit = n
	}
}

// NewBuffer creates a buffer holding text at version 0.
func NewBuffer(text string, opts ...BufferOption) *Buffer {
	b := &Buffer{
		current: domain.NewSnapshot(0, text),
		limit:   DefaultHistoryLimit,
		subs:    make(map[int]func(domain.ChangeEvent)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.id == "" {
		b.id = uuid.NewString()
	}
	return b
}

// ID returns the document ID.
func (b *Buffer) ID() string { return b.id }

// Current returns the latest snapshot.
func (b *Buffer) Current() *domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Text returns the latest text.
func (b *Buffer) Text() string {
	return b.Current().Text()
}

// Insert inserts text at pos.
func (b *Buffer) Insert(pos int, text string) (*domain.Snapshot, error) {
	return b.Apply(domain.NewInsert(pos, text))
}

// Replace replaces span with text.
func (b *Buffer) Replace(span domain.Span, text string) (*domain.Snapshot, error) {
	return b.Apply(domain.NewReplace(span, text))
}

// Apply applies a batch of non-overlapping edits, all measured against the
// current snapshot, as a single version step. Edits that change nothing are
// dropped; an empty batch returns the current snapshot without an event.
func (b *Buffer) Apply(edits ...domain.Edit) (*domain.Snapshot, error) {
	b.mu.Lock()
	before := b.current

	sorted := make([]domain.Edit, 0, len(edits))
	for _, e := range edits {
		if e.Span.Start < 0 || e.Span.End > before.Len() || e.Span.Start > e.Span.End {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s in document of length %d", domain.ErrSpanOutOfRange, e.Span, before.Len())
		}
		if !e.IsNoop() {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Span.Start < sorted[j].Span.Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Span.Start < sorted[i-1].Span.End {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s and %s", domain.ErrOverlappingEdits, sorted[i-1].Span, sorted[i].Span)
		}
	}
	if len(sorted) == 0 {
		b.mu.Unlock()
		return before, nil
	}

	text := before.Text()
	var sb strings.Builder
	changes := make([]domain.Change, 0, len(sorted))
	last, shift := 0, 0
	for _, e := range sorted {
		sb.WriteString(text[last:e.Span.Start])
		sb.WriteString(e.Text)
		last = e.Span.End

		start := e.Span.Start + shift
		changes = append(changes, domain.Change{
			Old:     e.Span,
			New:     domain.NewSpan(start, start+len(e.Text)),
			OldText: text[e.Span.Start:e.Span.End],
			NewText: e.Text,
		})
		shift += len(e.Text) - e.Span.Len()
	}
	sb.WriteString(text[last:])

	after := domain.NewSnapshot(before.Version()+1, sb.String())
	b.current = after
	b.history = append(b.history, domain.Delta{From: before.Version(), To: after.Version(), Changes: changes})
	if over := len(b.history) - b.limit; over > 0 {
		b.history = append([]domain.Delta(nil), b.history[over:]...)
	}
	subs := b.subscribers()
	b.mu.Unlock()

	event := domain.ChangeEvent{Before: before, After: after, Changes: changes}
	for _, fn := range subs {
		fn(event)
	}
	return after, nil
}

// subscribers returns the callbacks in registration order. Caller holds mu.
func (b *Buffer) subscribers() []func(domain.ChangeEvent) {
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(domain.ChangeEvent), len(ids))
	for i, id := range ids {
		fns[i] = b.subs[id]
	}
	return fns
}

// Subscribe registers fn for change events.
func (b *Buffer) Subscribe(fn func(domain.ChangeEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// DeltasSince returns the deltas recorded after version v, oldest first.
func (b *Buffer) DeltasSince(v domain.Version) ([]domain.Delta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.current.Version()
	switch {
	case v > cur:
		return nil, fmt.Errorf("%w: %d (current %d)", domain.ErrVersionUnknown, v, cur)
	case v == cur:
		return nil, nil
	case len(b.history) == 0 || v < b.history[0].From:
		return nil, fmt.Errorf("%w: %d", domain.ErrVersionExpired, v)
	}

	idx := int(v - b.history[0].From)
	return append([]domain.Delta(nil), b.history[idx:]...), nil
}
