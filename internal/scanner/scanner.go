package scanner

import (
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// Block is a source block found by a full scan.
type Block struct {
	// Source runs from the start of the first marker line to the end of the last one.
	Source     domain.Span
	SourceText string
	// Generated covers the opening delimiter line through the closing delimiter
	// line, line breaks inside included. Nil when the block has no region yet.
	Generated *domain.Span
	// Unterminated is set when the region has no closing delimiter and runs to the end of the document.
	Unterminated bool
}

// Region is a generated region that does not follow any source block.
type Region struct {
	Span         domain.Span
	Unterminated bool
}

// Result is the outcome of scanning one snapshot.
type Result struct {
	Version domain.Version
	Blocks  []Block
	Orphans []Region
}

// Unterminated reports whether any block or orphan region lacks its closing delimiter.
func (r Result) Unterminated() bool {
	for _, b := range r.Blocks {
		if b.Unterminated {
			return true
		}
	}
	for _, o := range r.Orphans {
		if o.Unterminated {
			return true
		}
	}
	return false
}

// Scanner finds source blocks and their generated regions.
type Scanner struct {
	conv domain.Conventions
}

// NewScanner creates a scanner for the given conventions.
func NewScanner(conv domain.Conventions) *Scanner {
	return &Scanner{conv: conv}
}

// Scan walks every line of snap.
//
// A run of marker lines opens a block; blank lines do not end the run and the
// first other line closes it. When that line is the opening delimiter, the
// lines through the matching closing delimiter become the block's region.
func (s *Scanner) Scan(snap *domain.Snapshot) Result {
	res := Result{Version: snap.Version()}
	lines := snap.Lines()

	for i := 0; i < len(lines); {
		text := lines[i].Text
		switch {
		case s.conv.IsMarkerLine(text):
			first, last := i, i
			i++
			for i < len(lines) {
				if s.conv.IsMarkerLine(lines[i].Text) {
					last = i
				} else if strings.TrimSpace(lines[i].Text) != "" {
					break
				}
				i++
			}

			src := domain.NewSpan(lines[first].Span.Start, lines[last].Span.End)
			block := Block{Source: src}
			// Lines between first and last are marker or blank by construction.
			block.SourceText, _ = s.SourceText(snap, src)

			if i < len(lines) && s.conv.IsOpenLine(lines[i].Text) {
				var region Region
				region, i = s.region(lines, i, snap.Len())
				block.Generated = &region.Span
				block.Unterminated = region.Unterminated
			}
			res.Blocks = append(res.Blocks, block)

		case s.conv.IsOpenLine(text):
			var region Region
			region, i = s.region(lines, i, snap.Len())
			res.Orphans = append(res.Orphans, region)

		default:
			i++
		}
	}
	return res
}

// region consumes lines from the opening delimiter at open through the
// closing delimiter and returns the index of the line after it. A marker line
// or another opening delimiter before the closing one ends the region early,
// unterminated, so a damaged region never absorbs the blocks after it.
func (s *Scanner) region(lines []domain.Line, open, docLen int) (Region, int) {
	for j := open + 1; j < len(lines); j++ {
		text := lines[j].Text
		if s.conv.IsCloseLine(text) {
			return Region{Span: domain.NewSpan(lines[open].Span.Start, lines[j].Span.End)}, j + 1
		}
		if s.conv.IsMarkerLine(text) || s.conv.IsOpenLine(text) {
			return Region{Span: domain.NewSpan(lines[open].Span.Start, lines[j-1].Span.End), Unterminated: true}, j
		}
	}
	return Region{Span: domain.NewSpan(lines[open].Span.Start, docLen), Unterminated: true}, len(lines)
}

// SourceText extracts the marker-stripped text of the lines covered by span.
// Each line is trimmed and loses its marker; blank lines stay empty. A covered
// line that is neither blank nor a marker line yields domain.ErrMalformedBlock.
// Lines are judged whole, so text joined in front of a marker is caught even
// when it lies outside span.
func (s *Scanner) SourceText(snap *domain.Snapshot, span domain.Span) (string, error) {
	if _, err := snap.Slice(span); err != nil {
		return "", err
	}

	first := snap.LineAt(span.Start).Number
	last := snap.LineAt(span.End).Number
	parts := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		line := snap.Line(n)
		start := max(line.Span.Start, span.Start)
		end := min(line.Span.End, span.End)

		var text string
		if start < end {
			text = snap.Text()[start:end]
		}
		if strings.TrimSpace(text) == "" {
			parts = append(parts, "")
			continue
		}
		body, ok := s.conv.StripMarker(line.Text)
		if !ok {
			return "", fmt.Errorf("%w: line %d %q", domain.ErrMalformedBlock, n+1, strings.TrimSpace(line.Text))
		}
		parts = append(parts, body)
	}
	return strings.Join(parts, "\n"), nil
}
