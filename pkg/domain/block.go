package domain

import "fmt"

// BlockState is the lifecycle state of a source block.
type BlockState int

const (
	// BlockClean means the generated region matches the source.
	BlockClean BlockState = iota
	// BlockDirty means the source changed since the last regeneration.
	BlockDirty
	// BlockRegenerating is held while the engine writes the block's region.
	BlockRegenerating
	// BlockNeedsRescan means the block's structure is damaged; only a full rescan clears it.
	BlockNeedsRescan
)

func (s BlockState) String() string {
	switch s {
	case BlockClean:
		return "clean"
	case BlockDirty:
		return "dirty"
	case BlockRegenerating:
		return "regenerating"
	case BlockNeedsRescan:
		return "needs_rescan"
	}
	return "unknown"
}

// MarshalText renders the state name.
func (s BlockState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *BlockState) UnmarshalText(text []byte) error {
	for _, state := range []BlockState{BlockClean, BlockDirty, BlockRegenerating, BlockNeedsRescan} {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown block state %q", text)
}

// BlockInfo is a read-only view of one source block, resolved against Version.
type BlockInfo struct {
	Index        int        `json:"index"`
	Version      Version    `json:"version"`
	Source       Span       `json:"source"`
	SourceText   string     `json:"source_text"`
	Generated    *Span      `json:"generated,omitempty"`
	State        BlockState `json:"state"`
	Unterminated bool       `json:"unterminated,omitempty"`
}
