package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Line is one line of a snapshot. Span excludes the line break.
type Line struct {
	Number   int    `json:"number"`
	Span     Span   `json:"span"`
	BreakLen int    `json:"break_len"`
	Text     string `json:"text"`
}

// Extent returns the line's span including its line break.
func (l Line) Extent() Span {
	return Span{Start: l.Span.Start, End: l.Span.End + l.BreakLen}
}

// Snapshot is an immutable view of the document text at one version.
type Snapshot struct {
	version Version
	text    string
	starts  []int
}

// NewSnapshot indexes text as the given version.
func NewSnapshot(version Version, text string) *Snapshot {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Snapshot{version: version, text: text, starts: starts}
}

// Version returns the snapshot's version.
func (s *Snapshot) Version() Version { return s.version }

// Text returns the full text.
func (s *Snapshot) Text() string { return s.text }

// Len returns the text length in bytes.
func (s *Snapshot) Len() int { return len(s.text) }

// Slice returns the text covered by span.
func (s *Snapshot) Slice(span Span) (string, error) {
	if span.Start < 0 || span.End > len(s.text) || span.Start > span.End {
		return "", fmt.Errorf("%w: %s in document of length %d", ErrSpanOutOfRange, span, len(s.text))
	}
	return s.text[span.Start:span.End], nil
}

// LineCount returns the number of lines. A trailing line break opens an empty last line.
func (s *Snapshot) LineCount() int { return len(s.starts) }

// Line returns line n (zero-based). It panics if n is out of range.
func (s *Snapshot) Line(n int) Line {
	start := s.starts[n]
	end := len(s.text)
	brk := 0
	if n+1 < len(s.starts) {
		end = s.starts[n+1] - 1
		brk = 1
		if end > start && s.text[end-1] == '\r' {
			end--
			brk = 2
		}
	}
	return Line{Number: n, Span: Span{Start: start, End: end}, BreakLen: brk, Text: s.text[start:end]}
}

// LineAt returns the line containing pos. Positions inside a line break belong to that line.
func (s *Snapshot) LineAt(pos int) Line {
	if pos < 0 {
		pos = 0
	}
	n := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > pos }) - 1
	if n < 0 {
		n = 0
	}
	return s.Line(n)
}

// Lines returns every line of the snapshot.
func (s *Snapshot) Lines() []Line {
	lines := make([]Line, len(s.starts))
	for i := range s.starts {
		lines[i] = s.Line(i)
	}
	return lines
}

// LineBreak returns the first line break used in the text, or "\n".
func (s *Snapshot) LineBreak() string {
	i := strings.IndexByte(s.text, '\n')
	if i > 0 && s.text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
