package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRescan     EventType = "rescan"
	EventBlockDirty EventType = "block_dirty"
	EventRegenerate EventType = "regenerate"
	EventDamaged    EventType = "damaged"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	DocumentID string    `json:"document_id"`
}

// RescanEvent reports a completed full rescan.
type RescanEvent struct {
	EventBase
	Version Version `json:"version"`
	Blocks  int     `json:"blocks"`
	Orphans int     `json:"orphans"`
	Reason  string  `json:"reason"`
}

// Outcome is the result of regenerating one block.
type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeReplaced  Outcome = "replaced"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeRemoved   Outcome = "removed"
	OutcomeDamaged   Outcome = "damaged"
)

// BlockEvent reports a state change of a single block.
type BlockEvent struct {
	EventBase
	Block       int           `json:"block"`
	Source      Span          `json:"source"`
	Outcome     Outcome       `json:"outcome,omitempty"`
	FailedHunks int           `json:"failed_hunks,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the engine and must not edit the document.
type LifecycleHooks struct {
	OnRescan     func(*RescanEvent)
	OnBlockDirty func(*BlockEvent)
	OnRegenerate func(*BlockEvent)
	OnDamaged    func(*BlockEvent)
}
