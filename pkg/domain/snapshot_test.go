package domain_test

import (
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Lines(t *testing.T) {
	snap := domain.NewSnapshot(1, "one\r\ntwo\nthree\n")

	require.Equal(t, 4, snap.LineCount())

	l0 := snap.Line(0)
	assert.Equal(t, "one", l0.Text)
	assert.Equal(t, domain.NewSpan(0, 3), l0.Span)
	assert.Equal(t, 2, l0.BreakLen)
	assert.Equal(t, domain.NewSpan(0, 5), l0.Extent())

	l1 := snap.Line(1)
	assert.Equal(t, "two", l1.Text)
	assert.Equal(t, domain.NewSpan(5, 8), l1.Span)
	assert.Equal(t, 1, l1.BreakLen)

	last := snap.Line(3)
	assert.Equal(t, "", last.Text)
	assert.Equal(t, 0, last.BreakLen)
	assert.Equal(t, snap.Len(), last.Span.Start)

	assert.Equal(t, 1, snap.LineAt(8).Number, "the line break belongs to its line")
	assert.Equal(t, 2, snap.LineAt(9).Number)
	assert.Equal(t, 3, snap.LineAt(snap.Len()).Number)
	assert.Len(t, snap.Lines(), 4)
}

func TestSnapshot_Slice(t *testing.T) {
	snap := domain.NewSnapshot(1, "abcdef")

	s, err := snap.Slice(domain.NewSpan(1, 4))
	require.NoError(t, err)
	assert.Equal(t, "bcd", s)

	_, err = snap.Slice(domain.NewSpan(4, 9))
	assert.ErrorIs(t, err, domain.ErrSpanOutOfRange)
	_, err = snap.Slice(domain.NewSpan(4, 2))
	assert.ErrorIs(t, err, domain.ErrSpanOutOfRange)
}

func TestSnapshot_LineBreak(t *testing.T) {
	assert.Equal(t, "\r\n", domain.NewSnapshot(0, "a\r\nb").LineBreak())
	assert.Equal(t, "\n", domain.NewSnapshot(0, "a\nb\r\n").LineBreak())
	assert.Equal(t, "\n", domain.NewSnapshot(0, "single line").LineBreak())
}

func TestEdit_Constructors(t *testing.T) {
	ins := domain.NewInsert(4, "x")
	assert.Equal(t, domain.NewSpan(4, 4), ins.Span)
	assert.False(t, ins.IsNoop())
	assert.True(t, domain.NewInsert(2, "").IsNoop())
	assert.Equal(t, "", domain.NewDelete(domain.NewSpan(1, 2)).Text)

	c := domain.Change{Old: domain.NewSpan(0, 2), New: domain.NewSpan(0, 5), OldText: "ab", NewText: "abcde"}
	assert.Equal(t, 3, c.Delta())
}
