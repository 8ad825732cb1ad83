package domain

// Change describes one replaced range of an edit batch.
// Old is measured in the snapshot before the batch, New in the snapshot after it.
type Change struct {
	Old     Span   `json:"old"`
	New     Span   `json:"new"`
	OldText string `json:"old_text"`
	NewText string `json:"new_text"`
}

// Delta returns the length difference introduced by the change.
func (c Change) Delta() int {
	return len(c.NewText) - len(c.OldText)
}

// Edit is a requested replacement of Span with Text.
type Edit struct {
	Span Span   `json:"span"`
	Text string `json:"text"`
}

// NewInsert creates an edit that inserts text at pos.
func NewInsert(pos int, text string) Edit {
	return Edit{Span: Span{Start: pos, End: pos}, Text: text}
}

// NewReplace creates an edit that replaces span with text.
func NewReplace(span Span, text string) Edit {
	return Edit{Span: span, Text: text}
}

// NewDelete creates an edit that removes span.
func NewDelete(span Span) Edit {
	return Edit{Span: span}
}

// IsNoop reports whether the edit neither removes nor inserts anything.
func (e Edit) IsNoop() bool {
	return e.Span.IsEmpty() && e.Text == ""
}

// ChangeEvent is published once per accepted edit batch.
// Changes are sorted by position and do not overlap.
type ChangeEvent struct {
	Before  *Snapshot `json:"-"`
	After   *Snapshot `json:"-"`
	Changes []Change  `json:"changes"`
}

// Delta is the recorded history entry for one version step.
type Delta struct {
	From    Version  `json:"from"`
	To      Version  `json:"to"`
	Changes []Change `json:"changes"`
}
