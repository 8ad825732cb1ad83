package tracking

import (
	"fmt"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Tracker resolves tracking spans against the history of one document.
type Tracker struct {
	history ports.History
}

// NewTracker creates a Tracker reading deltas from h.
func NewTracker(h ports.History) *Tracker {
	return &Tracker{history: h}
}

// Resolve maps ts to version to.
// Resolving backwards returns domain.ErrVersionUnknown; a version that has left
// the history returns domain.ErrVersionExpired.
func (t *Tracker) Resolve(ts domain.TrackingSpan, to domain.Version) (domain.Span, error) {
	if to < ts.Version {
		return domain.Span{}, fmt.Errorf("%w: cannot resolve version %d back to %d", domain.ErrVersionUnknown, ts.Version, to)
	}
	if to == ts.Version {
		return ts.Span, nil
	}

	deltas, err := t.history.DeltasSince(ts.Version)
	if err != nil {
		return domain.Span{}, err
	}

	span := ts.Span
	reached := ts.Version
	for _, d := range deltas {
		if d.To > to {
			break
		}
		span = TransformSpan(span, ts.Mode, d.Changes)
		reached = d.To
	}
	if reached != to {
		return domain.Span{}, fmt.Errorf("%w: history ends at %d, want %d", domain.ErrVersionUnknown, reached, to)
	}
	return span, nil
}

// ResolveIn maps ts to the snapshot's version.
func (t *Tracker) ResolveIn(ts domain.TrackingSpan, snap *domain.Snapshot) (domain.Span, error) {
	return t.Resolve(ts, snap.Version())
}

// Rebase returns ts re-anchored at version to, keeping its edge policy.
func (t *Tracker) Rebase(ts domain.TrackingSpan, to domain.Version) (domain.TrackingSpan, error) {
	span, err := t.Resolve(ts, to)
	if err != nil {
		return ts, err
	}
	return domain.TrackingSpan{Version: to, Span: span, Mode: ts.Mode}, nil
}
