package report_test

import (
	"strings"
	"testing"

	"github.com/aretw0/graft/internal/presentation/report"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const text = "class Host\n" +
	"//` Foo(int x)\n" +
	"#region generated code\n" +
	"body\n" +
	"#endregion\n" +
	"//` note\n"

func sample() report.Report {
	snap := domain.NewSnapshot(3, text)
	srcStart := strings.Index(text, "//`")
	genStart := strings.Index(text, "#region")
	genEnd := strings.Index(text, "#endregion") + len("#endregion")
	noteStart := strings.LastIndex(text, "//`")

	gen := domain.NewSpan(genStart, genEnd)
	blocks := []domain.BlockInfo{
		{Index: 0, Source: domain.NewSpan(srcStart, srcStart+len("//` Foo(int x)")), SourceText: "Foo(int x)", Generated: &gen, State: domain.BlockClean},
		{Index: 1, Source: domain.NewSpan(noteStart, noteStart+len("//` note")), SourceText: "note", State: domain.BlockNeedsRescan},
	}
	return report.Build("Host.cs", snap, blocks)
}

func TestBuild(t *testing.T) {
	r := sample()
	assert.Equal(t, domain.Version(3), r.Version)
	require.Len(t, r.Entries, 2)

	assert.Equal(t, [2]int{2, 2}, r.Entries[0].SourceLines)
	require.NotNil(t, r.Entries[0].RegionLines)
	assert.Equal(t, [2]int{3, 5}, *r.Entries[0].RegionLines)

	assert.Equal(t, [2]int{6, 6}, r.Entries[1].SourceLines)
	assert.Nil(t, r.Entries[1].RegionLines)
}

func TestMarkdown(t *testing.T) {
	r := sample()
	md := r.Markdown()
	assert.Contains(t, md, "# Host.cs")
	assert.Contains(t, md, "all regions up to date")
	assert.Contains(t, md, "| 0 | `Foo(int x)` | 2-2 | 3-5 | clean |")
	assert.Contains(t, md, "| 1 | `note` | 6-6 | - | needs_rescan |")

	r.Changes = 1
	assert.Contains(t, r.Markdown(), "**1 regions out of date**")

	empty := report.Report{Path: "empty.cs"}
	assert.Contains(t, empty.Markdown(), "No generator blocks found.")
}
