package reconcile

import (
	"strings"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Result is the outcome of reconciling one generated region.
type Result struct {
	// Text is the region to write. It equals the live text when Damaged is set.
	Text string
	// Changed reports whether Text differs from the live region.
	Changed bool
	// Damaged means the live region lost a delimiter and was left alone.
	Damaged bool
	// Failed counts manual-edit hunks that could not be carried over.
	Failed int
	// Fallback means the merged text broke the region structure and fresh output was used instead.
	Fallback bool
}

// Reconciler merges manual edits of a generated region into new generator output.
type Reconciler struct {
	conv   domain.Conventions
	differ ports.Differ
}

// New creates a Reconciler. A nil differ selects the default PatchDiffer.
func New(conv domain.Conventions, differ ports.Differ) *Reconciler {
	if differ == nil {
		differ = NewPatchDiffer()
	}
	return &Reconciler{conv: conv, differ: differ}
}

// Merge reconciles the live region with fresh output. All three texts are
// whole regions, delimiters included. ancestor is the output the live region
// was last generated from.
func (r *Reconciler) Merge(ancestor, live, fresh string) Result {
	if !r.Intact(live) {
		return Result{Text: live, Damaged: true}
	}

	var res Result
	switch {
	case ancestor == live:
		res.Text = fresh
	case ancestor == fresh:
		res.Text = live
	default:
		script := r.differ.Diff(ancestor, live)
		res.Text, res.Failed = r.differ.Apply(script, fresh)
		if !r.Intact(res.Text) {
			res.Text = fresh
			res.Fallback = true
		}
	}
	res.Changed = res.Text != live
	return res
}

// Intact reports whether region starts with the opening delimiter, ends with
// the closing delimiter, and neither opens nor closes anywhere else.
func (r *Reconciler) Intact(region string) bool {
	lines := strings.Split(region, "\n")
	if len(lines) < 2 {
		return false
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	last := len(lines) - 1
	if !r.conv.IsOpenLine(lines[0]) || !r.conv.IsCloseLine(lines[last]) {
		return false
	}
	for _, line := range lines[1:last] {
		if r.conv.IsCloseLine(line) || r.conv.IsOpenLine(line) {
			return false
		}
	}
	return true
}
