package tracking

import "github.com/aretw0/graft/pkg/domain"

// TransformPoint maps p across a change whose old range starts at start and
// spans oldLen bytes, replaced by newLen bytes.
//
// Transformation rules:
//   - change entirely before p: shift by the length difference
//   - change entirely after p: unchanged
//   - insertion exactly at p: right gravity moves p past the inserted text
//   - p at the start of a replaced range: unchanged
//   - p at the end of a replaced range: end of the new text
//   - p strictly inside a replaced range: gravity picks the start or the end of the new text
func TransformPoint(p, start, oldLen, newLen int, right bool) int {
	end := start + oldLen
	switch {
	case p < start:
		return p
	case p > end:
		return p + newLen - oldLen
	case oldLen == 0:
		if right {
			return start + newLen
		}
		return start
	case p == start:
		return start
	case p == end:
		return start + newLen
	case right:
		return start + newLen
	default:
		return start
	}
}

// TransformSpan maps s across one batch of changes. Changes must be sorted and
// measured as in a domain.ChangeEvent: Old in the version before the batch,
// New in the version after it.
func TransformSpan(s domain.Span, mode domain.EdgeMode, changes []domain.Change) domain.Span {
	startRight := mode == domain.EdgeExclusive
	endRight := mode == domain.EdgeInclusive
	for _, c := range changes {
		// Earlier changes of the batch already shifted c to c.New.Start.
		at := c.New.Start
		s.Start = TransformPoint(s.Start, at, c.Old.Len(), c.New.Len(), startRight)
		s.End = TransformPoint(s.End, at, c.Old.Len(), c.New.Len(), endRight)
		if s.End < s.Start {
			s.End = s.Start
		}
	}
	return s
}
