package reconcile

import (
	"time"

	"github.com/aretw0/graft/pkg/ports"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// PatchDiffer implements ports.Differ with diff-match-patch patches.
// Patches carry context, so they apply to a text that drifted from the one
// they were made against; hunks whose context cannot be found are skipped.
type PatchDiffer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

var _ ports.Differ = (*PatchDiffer)(nil)

// DifferOption configures a PatchDiffer.
type DifferOption func(*diffmatchpatch.DiffMatchPatch)

// WithMatchThreshold sets how fuzzy a hunk's context may match (0 exact, 1 anything).
func WithMatchThreshold(t float64) DifferOption {
	return func(d *diffmatchpatch.DiffMatchPatch) {
		d.MatchThreshold = t
	}
}

// WithDiffTimeout bounds the time spent computing one diff.
func WithDiffTimeout(timeout time.Duration) DifferOption {
	return func(d *diffmatchpatch.DiffMatchPatch) {
		d.DiffTimeout = timeout
	}
}

// NewPatchDiffer creates a differ with diff-match-patch defaults.
func NewPatchDiffer(opts ...DifferOption) *PatchDiffer {
	dmp := diffmatchpatch.New()
	for _, opt := range opts {
		opt(dmp)
	}
	return &PatchDiffer{dmp: dmp}
}

type patchScript []diffmatchpatch.Patch

func (p patchScript) Empty() bool { return len(p) == 0 }

func (p patchScript) String() string {
	return diffmatchpatch.New().PatchToText(p)
}

// Diff returns the patches that turn from into to.
func (d *PatchDiffer) Diff(from, to string) ports.EditScript {
	return patchScript(d.dmp.PatchMake(from, to))
}

// Apply replays script on text. A script from another Differ applies nothing
// and counts as one failed hunk.
func (d *PatchDiffer) Apply(script ports.EditScript, text string) (string, int) {
	patches, ok := script.(patchScript)
	if !ok {
		return text, 1
	}
	if len(patches) == 0 {
		return text, 0
	}

	out, applied := d.dmp.PatchApply(patches, text)
	failed := 0
	for _, ok := range applied {
		if !ok {
			failed++
		}
	}
	return out, failed
}
