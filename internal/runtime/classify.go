package runtime

import (
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// classify returns why ev requires a full rescan, or "" when dirty-marking is enough.
//
// A change is structural when its old range swallows a tracked span endpoint,
// when a marker occurs in the text around it (before or after the edit), or
// when it touches a line that is or was a region delimiter.
func (e *Engine) classify(ev domain.ChangeEvent) string {
	if e.needsRescan {
		return "pending rescan"
	}

	points, err := e.endpoints(ev.Before)
	if err != nil {
		e.logger.Debug("Cannot resolve spans at change base", "err", err)
		return "span history unavailable"
	}

	for _, c := range ev.Changes {
		for _, p := range points {
			if c.Old.Contains(p) {
				return "edit across a block boundary"
			}
		}
		if e.markerNear(ev.Before, c.Old) || e.markerNear(ev.After, c.New) {
			return "marker edited"
		}
		if e.delimiterNear(ev.Before, c.Old) || e.delimiterNear(ev.After, c.New) {
			return "delimiter edited"
		}
	}
	return ""
}

// endpoints resolves the start and end of every tracked span at snap.
func (e *Engine) endpoints(snap *domain.Snapshot) ([]int, error) {
	points := make([]int, 0, 4*len(e.blocks)+2*len(e.regions))
	add := func(ts domain.TrackingSpan) error {
		span, err := e.tracker.ResolveIn(ts, snap)
		if err != nil {
			return err
		}
		points = append(points, span.Start, span.End)
		return nil
	}

	for _, b := range e.blocks {
		if err := add(b.Source); err != nil {
			return nil, err
		}
		if b.Generated != nil {
			if err := add(*b.Generated); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range e.regions {
		if err := add(r); err != nil {
			return nil, err
		}
	}
	return points, nil
}

// markerNear reports whether a marker overlaps span. The window reaches
// len(marker)-1 bytes past each side, enough for any overlapping occurrence.
func (e *Engine) markerNear(snap *domain.Snapshot, span domain.Span) bool {
	reach := len(e.conv.Marker) - 1
	start := max(0, span.Start-reach)
	end := min(snap.Len(), span.End+reach)
	if start >= end {
		return false
	}
	return strings.Contains(snap.Text()[start:end], e.conv.Marker)
}

// delimiterNear reports whether a line touched by span is a region delimiter.
func (e *Engine) delimiterNear(snap *domain.Snapshot, span domain.Span) bool {
	last := snap.LineAt(span.End).Number
	for n := snap.LineAt(span.Start).Number; n <= last; n++ {
		text := snap.Line(n).Text
		if e.conv.IsOpenLine(text) || e.conv.IsCloseLine(text) {
			return true
		}
	}
	return false
}

// markDirty flags every block whose source span touches a change. It returns
// a rescan reason when a span cannot be resolved.
func (e *Engine) markDirty(ev domain.ChangeEvent) string {
	for _, c := range ev.Changes {
		for i, b := range e.blocks {
			if b.State == domain.BlockNeedsRescan {
				continue
			}
			src, err := e.tracker.ResolveIn(b.Source, ev.After)
			if err != nil {
				return "span history unavailable"
			}
			if src.Touches(c.New) {
				if b.State != domain.BlockDirty {
					b.State = domain.BlockDirty
					e.logger.Debug("Block dirty", "block", i, "source", src)
					e.emitBlock(e.hooks.OnBlockDirty, domain.EventBlockDirty, i, src, "", 0, 0)
				}
				continue
			}
			if b.Generated == nil {
				continue
			}
			if gen, err := e.tracker.ResolveIn(*b.Generated, ev.After); err == nil && gen.Touches(c.New) {
				e.logger.Debug("Manual edit inside generated region", "block", i, "change", c.New)
			}
		}
	}
	return ""
}
