package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// Mermaid produces a flowchart linking every block to its generated region.
// Shapes:
// - Block: [/Parallelogram/]
// - Region: [[Subroutine]]
// - Missing region: ((Circle))
// Blocks that are not clean are styled by state.
func (r Report) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	styled := make(map[domain.BlockState][]string)
	for _, e := range r.Entries {
		block := fmt.Sprintf("b%d", e.Index)
		region := fmt.Sprintf("r%d", e.Index)

		label := sanitizeLabel(e.Source)
		sb.WriteString(fmt.Sprintf("    %s[/\"%s <br/> L%d\"/]\n", block, label, e.SourceLines[0]))
		if e.RegionLines != nil {
			sb.WriteString(fmt.Sprintf("    %s[[\"region L%d-L%d\"]]\n", region, e.RegionLines[0], e.RegionLines[1]))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", block, region))
		} else {
			sb.WriteString(fmt.Sprintf("    %s((\"none\"))\n", region))
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", block, region))
		}

		if e.State != domain.BlockClean {
			styled[e.State] = append(styled[e.State], block)
		}
	}

	if len(styled) > 0 {
		sb.WriteString("\n    %% State Styles\n")
		// Force black text (color:#000) so labels stay readable on either theme.
		sb.WriteString("    classDef dirty fill:#fff3e0,stroke:#e65100,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef needs_rescan fill:#ffebee,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		for _, state := range []domain.BlockState{domain.BlockDirty, domain.BlockRegenerating, domain.BlockNeedsRescan} {
			ids := styled[state]
			if len(ids) == 0 {
				continue
			}
			class := state.String()
			if state == domain.BlockRegenerating {
				class = "dirty"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", strings.Join(ids, ","), class))
		}
	}

	return sb.String()
}

func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
