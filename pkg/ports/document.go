package ports

import "github.com/aretw0/graft/pkg/domain"

// History gives access to the recorded deltas of a document.
type History interface {
	// DeltasSince returns the deltas that lead from version v to the current version, oldest first.
	// Returns domain.ErrVersionExpired if v is older than the retained history
	// and domain.ErrVersionUnknown if v is newer than the current version.
	DeltasSince(v domain.Version) ([]domain.Delta, error)
}

// Document is the host-owned text buffer the engine keeps in sync.
//
// Each accepted mutation produces exactly one new snapshot and one ChangeEvent.
// Subscribers are notified synchronously, after the new snapshot is visible
// through Current, and may mutate the document from inside the callback.
type Document interface {
	History

	// ID identifies the document for logging and caching.
	ID() string

	// Current returns the latest snapshot.
	Current() *domain.Snapshot

	// Insert inserts text at pos of the current snapshot.
	Insert(pos int, text string) (*domain.Snapshot, error)

	// Replace replaces span of the current snapshot with text.
	Replace(span domain.Span, text string) (*domain.Snapshot, error)

	// Subscribe registers fn for change events. The returned function unsubscribes it.
	Subscribe(fn func(domain.ChangeEvent)) (cancel func())
}
