package runtime

import (
	"time"

	"github.com/aretw0/graft/pkg/domain"
)

func (e *Engine) base(typ domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: typ, DocumentID: e.doc.ID()}
}

func (e *Engine) emitBlock(hook func(*domain.BlockEvent), typ domain.EventType, index int, src domain.Span, outcome domain.Outcome, failed int, took time.Duration) {
	if hook == nil {
		return
	}
	hook(&domain.BlockEvent{
		EventBase:   e.base(typ),
		Block:       index,
		Source:      src,
		Outcome:     outcome,
		FailedHunks: failed,
		Duration:    took,
	})
}

func (e *Engine) emitRescan(version domain.Version, blocks, orphans int, reason string) {
	if e.hooks.OnRescan == nil {
		return
	}
	e.hooks.OnRescan(&domain.RescanEvent{
		EventBase: e.base(domain.EventRescan),
		Version:   version,
		Blocks:    blocks,
		Orphans:   orphans,
		Reason:    reason,
	})
}
