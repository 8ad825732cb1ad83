package domain

import "fmt"

// Span is a half-open range [Start, End) of byte offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSpan returns the span [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// IsEmpty reports whether the span covers nothing.
func (s Span) IsEmpty() bool { return s.End <= s.Start }

// Contains reports whether p lies inside the span. The end is excluded.
func (s Span) Contains(p int) bool {
	return p >= s.Start && p < s.End
}

// ContainsSpan reports whether o lies entirely inside s.
func (s Span) ContainsSpan(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

// Overlaps reports whether the spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Touches reports whether the spans overlap or are adjacent.
// Empty spans touch anything that contains or borders their position.
func (s Span) Touches(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// Shift moves the span by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End)
}

// Version identifies a document snapshot. Versions increase by one per edit batch.
type Version uint64

// EdgeMode decides whether a tracking span grows when text is inserted at its edges.
type EdgeMode int

const (
	// EdgeExclusive spans never absorb text inserted at their start or end.
	EdgeExclusive EdgeMode = iota
	// EdgeInclusive spans absorb text inserted at either edge.
	EdgeInclusive
)

func (m EdgeMode) String() string {
	if m == EdgeInclusive {
		return "inclusive"
	}
	return "exclusive"
}

// TrackingSpan is a span bound to the version it was measured in.
// It is a value: resolving it against a later version yields a new span
// and never mutates the original.
type TrackingSpan struct {
	Version Version  `json:"version"`
	Span    Span     `json:"span"`
	Mode    EdgeMode `json:"mode"`
}

// Track binds span to the snapshot's version.
func Track(snap *Snapshot, span Span, mode EdgeMode) TrackingSpan {
	return TrackingSpan{Version: snap.Version(), Span: span, Mode: mode}
}
