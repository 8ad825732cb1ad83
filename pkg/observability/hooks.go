package observability

import (
	"log/slog"

	"github.com/aretw0/graft/pkg/domain"
)

// LogHooks returns hooks that log every lifecycle event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRescan: func(e *domain.RescanEvent) {
			logger.Info("rescan",
				"document", e.DocumentID,
				"reason", e.Reason,
				"version", e.Version,
				"blocks", e.Blocks,
				"orphans", e.Orphans,
			)
		},
		OnBlockDirty: func(e *domain.BlockEvent) {
			logger.Debug("block_dirty", "document", e.DocumentID, "block", e.Block)
		},
		OnRegenerate: func(e *domain.BlockEvent) {
			logger.Info("regenerate",
				"document", e.DocumentID,
				"block", e.Block,
				"outcome", e.Outcome,
				"failed_hunks", e.FailedHunks,
				"duration", e.Duration,
			)
		},
		OnDamaged: func(e *domain.BlockEvent) {
			logger.Warn("damaged", "document", e.DocumentID, "block", e.Block)
		},
	}
}

// Chain returns hooks that call each of the given hook sets in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var chained domain.LifecycleHooks
	for _, set := range sets {
		chained.OnRescan = chainFn(chained.OnRescan, set.OnRescan)
		chained.OnBlockDirty = chainFn(chained.OnBlockDirty, set.OnBlockDirty)
		chained.OnRegenerate = chainFn(chained.OnRegenerate, set.OnRegenerate)
		chained.OnDamaged = chainFn(chained.OnDamaged, set.OnDamaged)
	}
	return chained
}

func chainFn[E any](first, next func(E)) func(E) {
	switch {
	case first == nil:
		return next
	case next == nil:
		return first
	}
	return func(e E) {
		first(e)
		next(e)
	}
}
