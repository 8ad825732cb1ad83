package runtime

import (
	"sort"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// rescan rebuilds the block list from the current snapshot. Every block comes
// back dirty. A region found at the start offset of a previously tracked
// region keeps that region's ancestor, so manual edits survive the rescan.
func (e *Engine) rescan(reason string) {
	snap := e.doc.Current()

	ancestors := make(map[int]ancestor)
	for _, b := range e.blocks {
		if b.Generated == nil || b.GeneratedText == "" {
			continue
		}
		gen, err := e.tracker.ResolveIn(*b.Generated, snap)
		if err != nil {
			continue
		}
		ancestors[gen.Start] = ancestor{span: gen, text: b.GeneratedText}
	}

	res := e.scanner.Scan(snap)
	blocks := make([]*Block, 0, len(res.Blocks))
	needsRescan := res.Unterminated()
	for i, sb := range res.Blocks {
		b := &Block{
			Source:       domain.Track(snap, sb.Source, domain.EdgeInclusive),
			SourceText:   sb.SourceText,
			State:        domain.BlockDirty,
			Unterminated: sb.Unterminated,
		}

		switch {
		case sb.Generated != nil:
			gen := domain.Track(snap, *sb.Generated, domain.EdgeExclusive)
			b.Generated = &gen
			if anc, ok := ancestors[sb.Generated.Start]; ok {
				b.GeneratedText = anc.text
			} else if !sb.Unterminated {
				b.GeneratedText, _ = snap.Slice(*sb.Generated)
			}
			if sb.Unterminated {
				b.State = domain.BlockNeedsRescan
			}

		default:
			// A tracked region right below the block whose opening line no
			// longer parses: leave it alone until the structure is repaired.
			at, ok := nextContentLine(snap, sb.Source.End)
			if anc, tracked := ancestors[at]; ok && tracked && e.closesRegion(snap, anc.span) {
				gen := domain.Track(snap, anc.span, domain.EdgeExclusive)
				b.Generated = &gen
				b.GeneratedText = anc.text
				b.State = domain.BlockNeedsRescan
				needsRescan = true
				e.logger.Warn("Opening delimiter damaged, leaving region untouched", "block", i)
			}
		}
		blocks = append(blocks, b)
	}

	e.blocks = blocks
	e.needsRescan = needsRescan
	e.regions = e.regions[:0]

	var stale []domain.Span
	for _, o := range res.Orphans {
		if _, tracked := ancestors[o.Span.Start]; tracked && e.orphans == domain.OrphanRemove && !o.Unterminated {
			stale = append(stale, o.Span)
			continue
		}
		e.regions = append(e.regions, domain.Track(snap, o.Span, domain.EdgeExclusive))
	}

	e.logger.Info("Rescanned document", "reason", reason, "version", snap.Version(),
		"blocks", len(blocks), "orphans", len(res.Orphans))
	e.emitRescan(snap.Version(), len(blocks), len(res.Orphans), reason)

	e.removeOrphans(stale)
}

type ancestor struct {
	span domain.Span
	text string
}

// closesRegion reports whether the last line of span is a closing delimiter.
func (e *Engine) closesRegion(snap *domain.Snapshot, span domain.Span) bool {
	if span.IsEmpty() {
		return false
	}
	return e.conv.IsCloseLine(snap.LineAt(span.End).Text)
}

// nextContentLine returns the start of the first non-blank line after the line holding pos.
func nextContentLine(snap *domain.Snapshot, pos int) (int, bool) {
	for n := snap.LineAt(pos).Number + 1; n < snap.LineCount(); n++ {
		line := snap.Line(n)
		if strings.TrimSpace(line.Text) != "" {
			return line.Span.Start, true
		}
	}
	return 0, false
}

// removeOrphans deletes regions measured in the snapshot the rescan read.
// They are removed last first, so the offsets of the remaining ones stay valid
// in the current text.
func (e *Engine) removeOrphans(spans []domain.Span) {
	if len(spans) == 0 {
		return
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start > spans[j].Start })

	e.selfMutate(func() {
		for _, span := range spans {
			if _, err := e.deleteRegion(e.doc.Current(), span); err != nil {
				e.logger.Warn("Failed to remove orphan region", "span", span, "err", err)
				continue
			}
			e.logger.Info("Removed orphan region", "span", span)
			e.emitBlock(e.hooks.OnRegenerate, domain.EventRegenerate, -1, span, domain.OutcomeRemoved, 0, 0)
			e.rebase()
		}
	})
}
