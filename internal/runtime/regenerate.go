package runtime

import (
	"errors"
	"time"

	"github.com/aretw0/graft/pkg/domain"
)

// regenerateDirty regenerates every dirty block inside StateSelfMutating.
// It reports whether a block boundary was malformed and a rescan is due.
//
// Every write adds a version, so all spans are re-anchored before each block:
// a pass may write more blocks than the document keeps deltas for.
func (e *Engine) regenerateDirty() (malformed bool) {
	e.selfMutate(func() {
		for i, b := range e.blocks {
			if b.State != domain.BlockDirty {
				continue
			}
			e.rebase()
			if err := e.regenerate(i, b); err != nil {
				b.State = domain.BlockNeedsRescan
				if errors.Is(err, domain.ErrMalformedBlock) {
					e.logger.Debug("Malformed block boundary", "block", i, "err", err)
					malformed = true
					continue
				}
				e.logger.Warn("Regeneration failed", "block", i, "err", err)
				e.needsRescan = true
			}
		}
	})
	return malformed
}

// regenerate compiles one block and writes its region.
func (e *Engine) regenerate(index int, b *Block) error {
	started := time.Now()
	snap := e.doc.Current()

	src, err := e.tracker.ResolveIn(b.Source, snap)
	if err != nil {
		return err
	}
	text, err := e.scanner.SourceText(snap, src)
	if err != nil {
		return err
	}
	b.SourceText = text
	b.State = domain.BlockRegenerating

	outcome, failed, err := e.write(b, snap, src)
	if err != nil {
		return err
	}
	if outcome == domain.OutcomeDamaged {
		b.State = domain.BlockNeedsRescan
		e.needsRescan = true
		e.logger.Warn("Generated region damaged, leaving it untouched", "block", index)
		e.emitBlock(e.hooks.OnDamaged, domain.EventDamaged, index, src, outcome, 0, time.Since(started))
		return nil
	}

	b.State = domain.BlockClean
	if failed > 0 {
		e.logger.Warn("Dropped manual edits that no longer apply", "block", index, "hunks", failed)
	}
	switch outcome {
	case domain.OutcomeInserted, domain.OutcomeReplaced, domain.OutcomeRemoved:
		e.logger.Info("Regenerated block", "block", index, "outcome", outcome)
	default:
		e.logger.Debug("Regenerated block", "block", index, "outcome", outcome)
	}
	e.emitBlock(e.hooks.OnRegenerate, domain.EventRegenerate, index, src, outcome, failed, time.Since(started))
	return nil
}

// write brings the block's region in line with the generator output for its
// current source. src is the block's source span in snap.
func (e *Engine) write(b *Block, snap *domain.Snapshot, src domain.Span) (domain.Outcome, int, error) {
	code, ok := e.generator.Compile(b.SourceText)
	if !ok {
		if b.Generated == nil || e.noMatch != domain.NoMatchRemove {
			return domain.OutcomeNoMatch, 0, nil
		}
		gen, err := e.tracker.ResolveIn(*b.Generated, snap)
		if err != nil {
			return "", 0, err
		}
		after, err := e.deleteRegion(snap, gen)
		if err != nil {
			return "", 0, err
		}
		b.Source = domain.Track(after, src, domain.EdgeInclusive)
		b.Generated = nil
		b.GeneratedText = ""
		return domain.OutcomeRemoved, 0, nil
	}

	br := snap.LineBreak()
	fresh := e.conv.Wrap(code, br)

	if b.Generated == nil {
		after, err := e.insert(src.End, br+fresh)
		if err != nil {
			return "", 0, err
		}
		start := src.End + len(br)
		gen := domain.Track(after, domain.NewSpan(start, start+len(fresh)), domain.EdgeExclusive)
		// The inclusive source span absorbed the insertion at its end.
		b.Source = domain.Track(after, src, domain.EdgeInclusive)
		b.Generated = &gen
		b.GeneratedText = fresh
		return domain.OutcomeInserted, 0, nil
	}

	gen, err := e.tracker.ResolveIn(*b.Generated, snap)
	if err != nil {
		return "", 0, err
	}
	live, err := snap.Slice(gen)
	if err != nil {
		return "", 0, err
	}

	res := e.reconciler.Merge(b.GeneratedText, live, fresh)
	if res.Damaged {
		return domain.OutcomeDamaged, 0, nil
	}
	if res.Fallback {
		e.logger.Warn("Merged region lost its delimiters, using generator output")
	}
	b.GeneratedText = fresh
	if !res.Changed {
		return domain.OutcomeUnchanged, res.Failed, nil
	}

	after, err := e.replace(gen, live, res.Text)
	if err != nil {
		return "", 0, err
	}
	regen := domain.Track(after, domain.NewSpan(gen.Start, gen.Start+len(res.Text)), domain.EdgeExclusive)
	b.Generated = &regen
	return domain.OutcomeReplaced, res.Failed, nil
}
