// Package report renders the block layout of a document for the CLI.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// Entry describes one source block. Lines are 1-based.
type Entry struct {
	Index       int               `json:"index"`
	SourceLines [2]int            `json:"source_lines"`
	RegionLines *[2]int           `json:"region_lines,omitempty"`
	Source      string            `json:"source"`
	State       domain.BlockState `json:"state"`
}

// Report is the scan result for one document.
type Report struct {
	Path    string         `json:"path"`
	Version domain.Version `json:"version"`
	Changes int            `json:"changes"`
	Entries []Entry        `json:"blocks"`
}

// Build resolves blocks against snap into report entries.
func Build(path string, snap *domain.Snapshot, blocks []domain.BlockInfo) Report {
	r := Report{Path: path, Version: snap.Version()}
	for _, b := range blocks {
		e := Entry{
			Index:       b.Index,
			SourceLines: lines(snap, b.Source),
			Source:      b.SourceText,
			State:       b.State,
		}
		if b.Generated != nil && !b.Generated.IsEmpty() {
			region := lines(snap, *b.Generated)
			e.RegionLines = &region
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

func lines(snap *domain.Snapshot, span domain.Span) [2]int {
	return [2]int{snap.LineAt(span.Start).Number + 1, snap.LineAt(span.End).Number + 1}
}

// UpToDate reports whether generating the document would leave it unchanged.
func (r Report) UpToDate() bool {
	return r.Changes == 0
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Path)

	switch {
	case len(r.Entries) == 0:
		sb.WriteString("No generator blocks found.\n")
		return sb.String()
	case r.UpToDate():
		fmt.Fprintf(&sb, "%d blocks, all regions up to date.\n\n", len(r.Entries))
	default:
		fmt.Fprintf(&sb, "%d blocks, **%d regions out of date**.\n\n", len(r.Entries), r.Changes)
	}

	sb.WriteString("| # | Source | Lines | Region | State |\n")
	sb.WriteString("|---|--------|-------|--------|-------|\n")
	for _, e := range r.Entries {
		region := "-"
		if e.RegionLines != nil {
			region = fmt.Sprintf("%d-%d", e.RegionLines[0], e.RegionLines[1])
		}
		fmt.Fprintf(&sb, "| %d | `%s` | %d-%d | %s | %s |\n",
			e.Index, escapeCell(e.Source), e.SourceLines[0], e.SourceLines[1], region, e.State)
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "`", "'")
}
