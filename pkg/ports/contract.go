package ports

import (
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentContract runs a suite of tests to verify that a Document implementation
// adheres to the defined interface contract. newDoc must return a fresh document
// holding text.
func RunDocumentContract(t *testing.T, newDoc func(text string) Document) {
	t.Run("Insert publishes one change", func(t *testing.T) {
		doc := newDoc("hello world")
		before := doc.Current()

		var events []domain.ChangeEvent
		cancel := doc.Subscribe(func(e domain.ChangeEvent) { events = append(events, e) })
		defer cancel()

		after, err := doc.Insert(5, ",")
		require.NoError(t, err)
		assert.Equal(t, "hello, world", after.Text())
		assert.Equal(t, before.Version()+1, after.Version())
		assert.Same(t, after, doc.Current())

		require.Len(t, events, 1)
		assert.Same(t, before, events[0].Before)
		assert.Same(t, after, events[0].After)
		require.Len(t, events[0].Changes, 1)
		c := events[0].Changes[0]
		assert.Equal(t, domain.NewSpan(5, 5), c.Old)
		assert.Equal(t, domain.NewSpan(5, 6), c.New)
		assert.Equal(t, ",", c.NewText)
	})

	t.Run("Replace reports old text", func(t *testing.T) {
		doc := newDoc("hello world")
		var got domain.Change
		cancel := doc.Subscribe(func(e domain.ChangeEvent) { got = e.Changes[0] })
		defer cancel()

		_, err := doc.Replace(domain.NewSpan(6, 11), "there")
		require.NoError(t, err)
		assert.Equal(t, "hello there", doc.Current().Text())
		assert.Equal(t, "world", got.OldText)
		assert.Equal(t, domain.NewSpan(6, 11), got.New)
	})

	t.Run("Out of range is rejected", func(t *testing.T) {
		doc := newDoc("abc")
		_, err := doc.Insert(4, "x")
		assert.ErrorIs(t, err, domain.ErrSpanOutOfRange)
		_, err = doc.Replace(domain.NewSpan(2, 1), "x")
		assert.ErrorIs(t, err, domain.ErrSpanOutOfRange)
		assert.Equal(t, "abc", doc.Current().Text())
	})

	t.Run("Cancel stops notifications", func(t *testing.T) {
		doc := newDoc("abc")
		calls := 0
		cancel := doc.Subscribe(func(domain.ChangeEvent) { calls++ })
		_, _ = doc.Insert(0, "x")
		cancel()
		_, _ = doc.Insert(0, "y")
		assert.Equal(t, 1, calls)
	})

	t.Run("Subscribers may mutate", func(t *testing.T) {
		doc := newDoc("a")
		var cancel func()
		cancel = doc.Subscribe(func(e domain.ChangeEvent) {
			if e.Changes[0].NewText == "b" {
				_, err := doc.Insert(e.After.Len(), "c")
				assert.NoError(t, err)
			}
		})
		defer cancel()

		_, err := doc.Insert(1, "b")
		require.NoError(t, err)
		assert.Equal(t, "abc", doc.Current().Text())
	})

	t.Run("DeltasSince", func(t *testing.T) {
		doc := newDoc("abc")
		start := doc.Current().Version()
		_, err := doc.Insert(3, "d")
		require.NoError(t, err)
		_, err = doc.Replace(domain.NewSpan(0, 1), "A")
		require.NoError(t, err)

		deltas, err := doc.DeltasSince(start)
		require.NoError(t, err)
		require.Len(t, deltas, 2)
		assert.Equal(t, start, deltas[0].From)
		assert.Equal(t, start+2, deltas[1].To)

		deltas, err = doc.DeltasSince(doc.Current().Version())
		require.NoError(t, err)
		assert.Empty(t, deltas)

		_, err = doc.DeltasSince(doc.Current().Version() + 1)
		assert.ErrorIs(t, err, domain.ErrVersionUnknown)
	})
}
