package runtime

import (
	"github.com/aretw0/graft/internal/tracking"
	"github.com/aretw0/graft/pkg/domain"
)

// Block is the engine's record of one source block.
type Block struct {
	Source     domain.TrackingSpan
	SourceText string
	Generated  *domain.TrackingSpan
	// GeneratedText is the region the live text descends from: the last
	// wrapped generator output written, or the live region as first scanned.
	GeneratedText string
	State         domain.BlockState
	Unterminated  bool
}

func (b *Block) rebase(t *tracking.Tracker, to domain.Version) error {
	src, err := t.Rebase(b.Source, to)
	if err != nil {
		return err
	}
	b.Source = src
	if b.Generated != nil {
		gen, err := t.Rebase(*b.Generated, to)
		if err != nil {
			return err
		}
		b.Generated = &gen
	}
	return nil
}

func (b *Block) info(index int, snap *domain.Snapshot, t *tracking.Tracker) domain.BlockInfo {
	info := domain.BlockInfo{
		Index:        index,
		Version:      snap.Version(),
		SourceText:   b.SourceText,
		State:        b.State,
		Unterminated: b.Unterminated,
	}
	if src, err := t.ResolveIn(b.Source, snap); err == nil {
		info.Source = src
	}
	if b.Generated != nil {
		if gen, err := t.ResolveIn(*b.Generated, snap); err == nil {
			info.Generated = &gen
		}
	}
	return info
}
